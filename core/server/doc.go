// Package server holds the status server configuration.
//
// While the watch command handles server startup, this package centralizes
// the settings that define how the read-only HTTP surface behaves: the
// listen port, the optional API key, and the watch interval the server is
// paired with.
package server
