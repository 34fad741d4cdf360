package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLoggerEmitsRequestLine(t *testing.T) {
	var buf bytes.Buffer
	lg := zerolog.New(&buf).Level(zerolog.DebugLevel)
	h := Logger(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health?x=1", nil))

	assert.Contains(t, buf.String(), `"path":"/health?x=1"`)
	assert.Contains(t, buf.String(), `"method":"GET"`)
}
