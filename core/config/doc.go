// Package config loads application configuration from environment
// variables and an optional .env file. Defaults come from struct tags on
// the partial configuration types owned by each package; environment
// variables override them using underscore-joined nested keys
// (WITHINGS_CLIENT_ID -> withings.client_id).
package config
