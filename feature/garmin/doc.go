// Package garmin is the sink-side adapter for the Garmin Connect API.
//
// Authentication runs off a persisted OAuth session blob produced by an
// out-of-band bootstrap login; the client refreshes the session in place
// and never sees the account password. A rejected request triggers one
// transparent refresh-and-retry before failing with an authentication
// error.
//
// The weight API is day-granular and unit-inconsistent: listings fan out
// into one request per calendar day and report grams, while writes take
// kilograms.
package garmin
