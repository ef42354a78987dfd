package logging

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitReplacesGlobals(t *testing.T) {
	logger, err := Init(Options{Level: "debug"})
	require.NoError(t, err)
	defer zap.ReplaceGlobals(zap.NewNop())
	assert.Same(t, logger, zap.L())
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestInitWithFileAndBadLevel(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	logger, err := Init(Options{Production: true, Level: "nonsense", File: file})
	require.NoError(t, err)
	defer zap.ReplaceGlobals(zap.NewNop())
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestMiddlewareLogsStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/products", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}
