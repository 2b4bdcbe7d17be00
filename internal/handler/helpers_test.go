package handler

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserID(t *testing.T) {
	app := fiber.New()
	app.Get("/echo", func(c *fiber.Ctx) error {
		return c.SendString(getUserID(c))
	})
	app.Get("/with-user", func(c *fiber.Ctx) error {
		c.Locals("user_id", "user-1")
		return c.SendString(getUserID(c))
	})
	app.Get("/wrong-type", func(c *fiber.Ctx) error {
		// A non-string local must fall back instead of panicking the request.
		c.Locals("user_id", 42)
		return c.SendString(getUserID(c))
	})

	cases := map[string]string{
		"/echo":       "system",
		"/with-user":  "user-1",
		"/wrong-type": "system",
	}
	for path, expected := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, expected, string(body), path)
	}
}
