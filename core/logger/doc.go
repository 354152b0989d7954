// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance supporting different environments
// (development vs production) and two correlation helpers.
//
// # Correlation
//
// Every reconciliation run carries a run_id; WithRunID attaches it so all
// log lines of one run can be grouped. For the watch-mode status server,
// WithRayID extracts the request's ray_id from the Fiber context the same way.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	l := logger.WithRunID(log, result.Metadata.RunID)
//	l.Info("run finished")
package logger
