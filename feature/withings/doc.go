// Package withings is the source-side adapter for the Withings API.
//
// The client authenticates with a rotating refresh token: every token
// exchange invalidates the previous refresh token, so rotated tokens are
// persisted through the token store immediately. Access tokens are
// short-lived and cached only in memory; a rejected token triggers one
// transparent refresh-and-retry before the call fails with an
// authentication error.
//
// Weight values arrive in a fixed-point encoding (integer value plus a
// power-of-ten exponent) and are decoded to kilograms. A height reported
// in the same measure group as a weight is attached to that measurement
// so the sink write can carry a BMI.
package withings
