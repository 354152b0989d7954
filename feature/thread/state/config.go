package state

// Config holds configuration for the state store.
type Config struct {
	// Path is the primary state file (JSON Lines, one record per line).
	Path string `mapstructure:"path" default:"thread_state.jsonl"`
	// Backups is how many rotated backup files to keep. Backup 1 is the
	// most recent.
	Backups int `mapstructure:"backups" default:"5"`
	// Journal toggles the per-run progress journal used for crash diagnosis.
	Journal bool `mapstructure:"journal" default:"true"`
}
