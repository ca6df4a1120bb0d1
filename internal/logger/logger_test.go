package logger

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	fn()
	return buf.String()
}

func TestFormatFields(t *testing.T) {
	assert.Equal(t, "", formatFields(nil))
	assert.Equal(t, "{bpm=120.50, key=C, loop_bars=4}", formatFields(Fields{
		"key":       "C",
		"bpm":       120.5,
		"loop_bars": 4,
	}))
}

func TestLevels(t *testing.T) {
	out := captureLog(t, func() {
		Info("preset saved", Fields{"id": 7})
		Warn("tempo clamped", Fields{"bpm": 300.0})
		Debug("resolving", nil)
		Error("export failed", errors.New("boom"), Fields{"kind": "click"})
	})

	assert.Contains(t, out, "[INFO] preset saved {id=7}")
	assert.Contains(t, out, "[WARN] tempo clamped {bpm=300.00}")
	assert.Contains(t, out, "[DEBUG] resolving")
	assert.Contains(t, out, "[ERROR] export failed: boom {kind=click}")
}

func TestWithContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/theory/scale", nil)
	c.Set("request_id", "req-1")
	c.Set("user_id_str", "42")

	fields := WithContext(c)
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, http.MethodGet, fields["method"])
	assert.Equal(t, "/api/v1/theory/scale", fields["path"])
	assert.Equal(t, "42", fields["user_id"])
}

func TestLogAPIRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		statusCode int
		expected   string
	}{
		{"success", http.StatusOK, "[INFO] Request completed"},
		{"client error", http.StatusBadRequest, "[WARN] Request failed with client error"},
		{"server error", http.StatusInternalServerError, "[ERROR] Request failed with server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/export/click.mid", nil)
			c.Set("request_id", "req-9")

			out := captureLog(t, func() {
				LogAPIRequest(c, 1500*time.Millisecond, tt.statusCode, Fields{"endpoint": "/api/v1/export/click.mid"})
			})

			assert.Contains(t, out, tt.expected)
			assert.Contains(t, out, "duration_ms=1500")
			assert.Contains(t, out, "request_id=req-9")
			assert.Contains(t, out, "endpoint=/api/v1/export/click.mid")
		})
	}
}
