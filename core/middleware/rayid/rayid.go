package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// HeaderName is the response header carrying the RayID.
	HeaderName = "X-Ray-ID"
	// LocalKey is the Fiber locals key read by logger.WithRayID.
	LocalKey = "ray_id"
)

// New returns a middleware that tags every request with a RayID.
// An incoming X-Ray-ID header is reused so callers can correlate retries.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderName)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Locals(LocalKey, id)
		c.Set(HeaderName, id)
		return c.Next()
	}
}

// FromContext returns the RayID of the request, or "" outside the middleware.
func FromContext(c *fiber.Ctx) string {
	if id, ok := c.Locals(LocalKey).(string); ok {
		return id
	}
	return ""
}
