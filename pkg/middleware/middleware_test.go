package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"tripwizard/pkg/middleware"
)

func newEngine(logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.TraceIDMiddleware(), middleware.CORSMiddleware(), middleware.RequestLogger(logger))
	r.GET("/sessions/:id", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("trace_id"))
	})
	return r
}

func TestTraceIDMiddleware(t *testing.T) {
	r := newEngine(zap.NewNop())

	t.Run("mints an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/abc", nil))

		id := w.Header().Get(middleware.TraceIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("keeps a valid incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/sessions/abc", nil)
		req.Header.Set(middleware.TraceIDHeader, "6f1c2a7e-3b7d-4a8e-9a51-0c5d1f2e3a4b")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "6f1c2a7e-3b7d-4a8e-9a51-0c5d1f2e3a4b", w.Header().Get(middleware.TraceIDHeader))
	})

	t.Run("replaces a malformed incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/sessions/abc", nil)
		req.Header.Set(middleware.TraceIDHeader, "<script>")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.NotEqual(t, "<script>", w.Header().Get(middleware.TraceIDHeader))
	})
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	r := newEngine(zap.NewNop())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/sessions/abc", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := newEngine(zap.New(core))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/abc", nil))

	entries := logs.FilterMessage("request").All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "/sessions/:id", ctx["route"])
		assert.Equal(t, "abc", ctx["session_id"])
		assert.EqualValues(t, http.StatusOK, ctx["status"])
	}
}
