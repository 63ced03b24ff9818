package config

import (
	"fmt"
	"reflect"
	"strings"

	"scale-sync/core/database"
	"scale-sync/core/logger"
	"scale-sync/core/server"
	"scale-sync/core/storage"
	"scale-sync/core/tokenstore"
	"scale-sync/feature/garmin"
	"scale-sync/feature/withings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the run history database.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the object storage backing the
	// object token store.
	Storage storage.Config `mapstructure:"storage"`
	// Tokens holds configuration for credential persistence.
	Tokens tokenstore.Config `mapstructure:"tokens"`
	// Withings holds configuration for the source platform client.
	Withings withings.Config `mapstructure:"withings"`
	// Garmin holds configuration for the sink platform client.
	Garmin garmin.Config `mapstructure:"garmin"`
}

// ValidationError lists the configuration keys that must be set before
// the application can run.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
}

// Validate checks that the credentials without which no sync can ever
// succeed are present. Everything else has a usable default.
func (c *Config) Validate() error {
	var missing []string
	if c.Withings.ClientID == "" {
		missing = append(missing, "withings.client_id")
	}
	if c.Withings.ClientSecret == "" {
		missing = append(missing, "withings.client_secret")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	// We construct the path to .env
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
