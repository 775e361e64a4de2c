package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// HeaderName is the request header carrying the API key.
const HeaderName = "X-API-Key"

// Config holds the auth middleware settings.
type Config struct {
	// ApiKey is the expected key. Empty disables the check.
	ApiKey string
	// Skip lists path prefixes that stay public.
	Skip []string
}

// New returns a middleware that rejects requests without the configured key.
func New(cfg Config) fiber.Handler {
	expected := []byte(cfg.ApiKey)
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" || skipped(c.Path(), cfg.Skip) {
			return c.Next()
		}
		given := []byte(c.Get(HeaderName))
		if subtle.ConstantTimeCompare(given, expected) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		return c.Next()
	}
}

func skipped(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if len(path) >= len(p) && path[:len(p)] == p {
			return true
		}
	}
	return false
}
