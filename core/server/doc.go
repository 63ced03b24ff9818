// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structures for server settings, such as the listen
// port, the management API key, and the public base URL used to build the
// Withings webhook callback address.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings and by the webhook CLI commands to resolve the callback URL.
package server
