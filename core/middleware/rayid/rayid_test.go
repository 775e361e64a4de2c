package rayid_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"code-reconciler/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(rayid.New())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(rayid.FromContext(c))
	})
	return app
}

func TestNew_GeneratesID(t *testing.T) {
	resp, err := newApp().Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	header := resp.Header.Get(rayid.HeaderName)
	_, err = uuid.Parse(header)
	assert.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, header, string(body))
}

func TestNew_ReusesValidHeader(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(rayid.HeaderName, id)

	resp, err := newApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, id, resp.Header.Get(rayid.HeaderName))
}

func TestNew_ReplacesInvalidHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(rayid.HeaderName, "not-a-uuid")

	resp, err := newApp().Test(req)
	require.NoError(t, err)
	assert.NotEqual(t, "not-a-uuid", resp.Header.Get(rayid.HeaderName))
}
