package database

// Config holds configuration for the run archive database.
type Config struct {
	// Enabled toggles the run archive. Off by default.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Path is the SQLite database file, conventionally colocated with the
	// state file.
	Path string `mapstructure:"path" default:"threadwatch_archive.db"`
}
