package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLogger(buf *bytes.Buffer) *Logger {
	return New(Config{Level: slog.LevelDebug, Format: "json", Output: buf, Component: "test"})
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal(line, &m))
		out = append(out, m)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf)
	l.Info("hello", "k", "v")
	l.WithComponent(ComponentStorage).Warn("careful")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "test", lines[0][FieldComponent])
	assert.Equal(t, "v", lines[0]["k"])
	assert.Equal(t, ComponentStorage, lines[1][FieldComponent])
	assert.Equal(t, "WARN", lines[1]["level"])
}

func TestStructuredLoggerRecordEvents(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(jsonLogger(&buf))
	ctx := context.Background()

	sl.LogRecordCreated(ctx, "expense", "id-1", 12345, "Rent/EMI", "2026-10")
	sl.LogRecordDeleted(ctx, "income", "id-2", false)
	sl.LogError(ctx, "persist failed", errors.New("disk full"), ComponentStorage, OpPersist, nil)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, ComponentLedger, lines[0][FieldComponent])
	assert.Equal(t, "expense", lines[0][FieldRecordKind])
	assert.EqualValues(t, 12345, lines[0][FieldAmountCents])
	assert.Equal(t, "Delete ignored, record not found", lines[1]["msg"])
	assert.Equal(t, "disk full", lines[2][FieldError])
	assert.Equal(t, ComponentStorage, lines[2][FieldComponent])
}

func TestLogHTTPEndLevels(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(jsonLogger(&buf))
	r := httptest.NewRequest(http.MethodGet, "/api/month?month=2026-10", nil)

	sl.LogHTTPEnd(context.Background(), r, 200, 3, "req_1", "10.0.0.1")
	sl.LogHTTPEnd(context.Background(), r, 422, 3, "req_2", "10.0.0.1")
	sl.LogHTTPEnd(context.Background(), r, 500, 3, "req_3", "10.0.0.1")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "WARN", lines[1]["level"])
	assert.Equal(t, "ERROR", lines[2]["level"])
	assert.Equal(t, "month=2026-10", lines[0][FieldQuery])
}

func TestContextPropagation(t *testing.T) {
	var buf bytes.Buffer
	base := jsonLogger(&buf)

	var got *Logger
	h := Middleware(base)(RequestIDMiddleware(func(*http.Request) string { return "req_x" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = FromContext(r.Context())
			got.Info("inside")
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, got)
	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "req_x", lines[0][FieldRequestID])

	assert.Equal(t, "unknown", FromContext(context.Background()).Component())
}
