package storage

// Config holds configuration for the snapshot object storage.
type Config struct {
	// Enabled toggles off-site state snapshots. Off by default; the scraper
	// remains a single-binary tool unless an endpoint is provided.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Endpoint is the URL of the S3-compatible storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the bucket that receives state snapshots.
	Bucket string `mapstructure:"bucket" default:"threadwatch"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// Retain is how many snapshots to keep per thread; older ones are pruned.
	Retain int `mapstructure:"retain" default:"10"`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
