package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/school-directory/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger_RecordsStatusAndPath(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := logger.Replace(zap.New(core))
	defer restore()

	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/schools", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/api/schools", fields["path"])
	assert.Equal(t, int64(http.StatusCreated), fields["status"])
	assert.Equal(t, int64(2), fields["bytes"])
}
