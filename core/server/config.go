package server

import (
	"fmt"
	"strconv"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// BodyLimitMB caps request bodies, which bounds uploaded workbooks.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"32"`
}

// BodyLimit returns the body limit in bytes.
func (c Config) BodyLimit() int {
	if c.BodyLimitMB <= 0 {
		return 32 * 1024 * 1024
	}
	return c.BodyLimitMB * 1024 * 1024
}

// Validate checks that the port is a usable TCP port.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port %q", c.Port)
	}
	return nil
}
