package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "file", cfg.Tokens.Backend)
	assert.Equal(t, ".tokens", cfg.Tokens.Dir)
	assert.Equal(t, "https://wbsapi.withings.net", cfg.Withings.APIURL)
	assert.Equal(t, "https://connectapi.garmin.com", cfg.Garmin.APIURL)
	assert.Equal(t, "scale_sync", cfg.Database.Name)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("WITHINGS_CLIENT_ID", "client-id")
	t.Setenv("TOKENS_BACKEND", "object")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "client-id", cfg.Withings.ClientID)
	assert.Equal(t, "object", cfg.Tokens.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestConfig_Validate(t *testing.T) {
	t.Run("missing credentials", func(t *testing.T) {
		cfg := &Config{}
		err := cfg.Validate()

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Missing, "withings.client_id")
		assert.Contains(t, verr.Missing, "withings.client_secret")
	})

	t.Run("complete", func(t *testing.T) {
		cfg := &Config{}
		cfg.Withings.ClientID = "client-id"
		cfg.Withings.ClientSecret = "client-secret"
		assert.NoError(t, cfg.Validate())
	})
}
