// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines
// the configuration structure (port, API key, request body limit) and its
// validation.
package server
