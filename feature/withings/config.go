package withings

// Config holds configuration for the Withings API client.
type Config struct {
	// ClientID identifies the registered Withings application.
	ClientID string `mapstructure:"client_id"`
	// ClientSecret authenticates the application during token refresh.
	ClientSecret string `mapstructure:"client_secret"`
	// RefreshToken seeds the token store on first run, before any
	// rotated token has been persisted.
	RefreshToken string `mapstructure:"refresh_token"`
	// CallbackURL is the OAuth callback registered with Withings.
	CallbackURL string `mapstructure:"callback_url" default:"http://localhost:8080/callback"`
	// APIURL is the Withings API base URL.
	APIURL string `mapstructure:"api_url" default:"https://wbsapi.withings.net"`
}
