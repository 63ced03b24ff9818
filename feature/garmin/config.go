package garmin

// Config holds configuration for the Garmin Connect API client.
type Config struct {
	// APIURL is the Garmin Connect API base URL.
	APIURL string `mapstructure:"api_url" default:"https://connectapi.garmin.com"`
	// Email identifies the linked account in logs. Authentication itself
	// runs off the persisted OAuth session, not the password.
	Email string `mapstructure:"email"`
}
