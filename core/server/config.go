package server

// Config holds configuration for the watch-mode status server.
type Config struct {
	// Enabled toggles the HTTP status server in watch mode.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// WatchIntervalMinutes is how often watch mode triggers a run.
	WatchIntervalMinutes int `mapstructure:"watch_interval_minutes" default:"10"`
}
