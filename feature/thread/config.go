package thread

// Config holds the target thread and diff settings.
type Config struct {
	// BaseURL is the address of the paginated thread to harvest. Page 1 is
	// the base itself; later pages append the page query parameter.
	BaseURL string `mapstructure:"base_url" default:""`
	// DiffMode selects the diff semantics: "plain" (new/edited/deleted) or
	// "append" (edits additionally classified as append-only when the new
	// content extends the old). The two are not interchangeable; pick one
	// per deployment.
	DiffMode string `mapstructure:"diff_mode" default:"plain"`
}
