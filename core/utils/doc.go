// Package utils provides common utility functions for threadwatch.
// It includes text normalization helpers used when coercing raw markup
// fields into records, and small conversion helpers shared across packages.
package utils
