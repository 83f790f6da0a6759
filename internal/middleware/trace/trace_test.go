package trace

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paisa/internal/log"
)

func TestMiddlewareTagsRequests(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Format: "json", Output: &buf})
	tm := NewMiddleware(logger, func(*http.Request) string { return "9.9.9.9" })

	var seenID string
	h := tm.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		log.FromContext(r.Context()).Info("handler ran")
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK) // ignored by the recorder wrapper
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.True(t, strings.HasPrefix(seenID, "req_"))
	assert.Equal(t, seenID, rr.Header().Get(HeaderRequestID))

	out := buf.String()
	assert.Contains(t, out, `"msg":"HTTP request started"`)
	assert.Contains(t, out, `"status_code":418`)
	assert.Contains(t, out, `"msg":"handler ran"`)
	assert.Equal(t, 3, strings.Count(out, seenID))

	m := tm.GetMetrics()
	assert.Equal(t, int64(1), m.TotalRequests)
	assert.Zero(t, m.ServerErrors)
}
