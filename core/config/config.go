package config

import (
	"reflect"
	"strings"

	"threadwatch/core/database"
	"threadwatch/core/fetch"
	"threadwatch/core/logger"
	"threadwatch/core/server"
	"threadwatch/core/storage"
	"threadwatch/feature/thread"
	"threadwatch/feature/thread/state"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Thread holds the target thread and diff settings.
	Thread thread.Config `mapstructure:"thread"`
	// Fetch holds retry/backoff settings for the HTTP fetcher.
	Fetch fetch.Config `mapstructure:"fetch"`
	// State holds the state file, backup and journal settings.
	State state.Config `mapstructure:"state"`
	// Server holds configuration for the watch-mode status server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for off-site state snapshots.
	Storage storage.Config `mapstructure:"storage"`
	// Archive holds configuration for the run archive database.
	Archive database.Config `mapstructure:"archive"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. STATE_PATH -> state.path)
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
