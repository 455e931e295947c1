package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_Generates(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		rid, _ := c.Locals(RequestIDLocalKey).(string)
		return c.SendString(rid)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	rid := resp.Header.Get(RequestIDHeader)
	assert.NotEmpty(t, rid)
	_, err = uuid.Parse(rid)
	assert.NoError(t, err)
}

func TestRequestID_PreservesIncoming(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		rid, _ := c.Locals(RequestIDLocalKey).(string)
		return c.SendString(rid)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, "client-supplied-id", resp.Header.Get(RequestIDHeader))
}

func TestNoop(t *testing.T) {
	app := fiber.New()
	app.Use(Noop())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer

	app := fiber.New()
	app.Use(RequestID())
	app.Use(LoggerWithWriter(&buf, time.UTC))
	app.Get("/files", func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/files", nil)
	req.Header.Set(RequestIDHeader, "test-rid")
	_, err := app.Test(req)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "test-rid", entry["request_id"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/files", entry["path"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
	assert.Contains(t, entry, "latency")

	ts, ok := entry["ts"].(string)
	require.True(t, ok)
	_, err = time.Parse(time.RFC3339Nano, ts)
	assert.NoError(t, err)
}

func TestLogger_ErrorStatus(t *testing.T) {
	var buf bytes.Buffer

	app := fiber.New()
	app.Use(LoggerWithWriter(&buf, time.UTC))
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.ErrBadGateway
	})

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, float64(http.StatusBadGateway), entry["status"])
}
