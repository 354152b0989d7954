// Package config provides configuration management for threadwatch.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Thread: target thread address and diff mode
//   - Fetch: retry, backoff, timeout and user agent for page fetches
//   - State: state file path, backup retention, progress journal
//   - Server: watch-mode status server (port, API key, interval)
//   - Storage: S3/MinIO snapshot credentials and bucket
//   - Archive: run archive SQLite database
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Thread.BaseURL)
package config
