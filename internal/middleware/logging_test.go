package middleware

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger_AddsRequestContext(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger
	Logger = NewLogger("production", &buf)
	t.Cleanup(func() { Logger = prev })

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(ContextMiddleware())
	app.Use(StructuredLogger())
	app.Get("/recipes", func(c *fiber.Ctx) error {
		c.Locals("userID", uint(9))
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/recipes", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "request processed", line["msg"])
	assert.Equal(t, "/recipes", line["path"])
	assert.EqualValues(t, 200, line["status"])
	assert.EqualValues(t, 9, line["user_id"])
	assert.NotEmpty(t, line["request_id"])
}

func TestNewLogger_TextOutsideProduction(t *testing.T) {
	var buf bytes.Buffer
	NewLogger("development", &buf).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=v")
}
