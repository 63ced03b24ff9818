package server

import "strings"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the management API.
	// The Withings webhook endpoint is exempt so the vendor can reach it.
	ApiKey string `mapstructure:"api_key" default:""`
	// PublicURL is the externally reachable base URL of this server.
	// Withings requires an HTTPS URL for webhook callbacks.
	PublicURL string `mapstructure:"public_url" default:""`
}

// WebhookPath is the route Withings notifications are delivered to.
const WebhookPath = "/webhook/withings"

// WebhookURL returns the full callback URL to register with Withings,
// or an empty string if no public URL is configured.
func (c Config) WebhookURL() string {
	if c.PublicURL == "" {
		return ""
	}
	return strings.TrimSuffix(c.PublicURL, "/") + WebhookPath
}
