package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/crm-dashboard/internal/config"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/login", http.MethodPost, 200, 2*time.Millisecond)
	m.RecordRequest("/login", http.MethodPost, 200, 4*time.Millisecond)
	m.RecordError("/login", http.MethodPost, "INVALID_CREDENTIALS")
	m.RecordLogin("success")
	m.RecordLogin("success")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/login|POST|200"])
	assert.Equal(t, int64(1), snap.Errors["/login|POST|INVALID_CREDENTIALS"])
	assert.Equal(t, int64(2), snap.LoginOutcomes["success"])
	assert.InDelta(t, 3.0, snap.AvgLatencyMS, 0.001)

	snap.LoginOutcomes["success"] = 99
	assert.Equal(t, int64(2), m.Snapshot().LoginOutcomes["success"])
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", http.MethodGet, 200, time.Millisecond)
	m.RecordError("/", http.MethodGet, "X")
	m.RecordLogin("success")
	assert.Empty(t, m.Snapshot().Requests)
}

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	metrics := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zaptest.NewLogger(t), metrics))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(RequestID(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "req-42", resp.Header.Get(RequestIDHeader))

	assert.Equal(t, int64(2), metrics.Snapshot().Requests["/ping|GET|200"])
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Name: "crm-dashboard", Level: "debug"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	logger, err = NewLogger(config.LoggerConfig{Name: "crm-dashboard", Level: "nonsense"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))
}
