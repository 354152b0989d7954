package fetch

// Config holds configuration for the HTTP fetcher.
type Config struct {
	// Retries is the maximum number of attempts per fetch.
	Retries int `mapstructure:"retries" default:"3"`
	// BackoffSeconds is the base backoff delay; it doubles per attempt.
	BackoffSeconds int `mapstructure:"backoff_seconds" default:"1"`
	// TimeoutSeconds is the per-request timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"20"`
	// UserAgent is sent with every request. Defaults to a browser-like value
	// because the harvested sites reject obvious bot agents.
	UserAgent string `mapstructure:"user_agent" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"`
}
