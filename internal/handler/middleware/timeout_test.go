//go:build unit

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smart-parking/internal/handler/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timeoutEngine(timeout time.Duration, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.RequestTimeout(timeout))
	engine.GET("/ping", handler)
	return engine
}

func TestRequestTimeout(t *testing.T) {
	t.Run("handler sees a bounded deadline", func(t *testing.T) {
		var deadline time.Time
		var ok bool
		engine := timeoutEngine(5*time.Second, func(c *gin.Context) {
			deadline, ok = c.Request.Context().Deadline()
			c.Status(http.StatusOK)
		})

		before := time.Now()
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, ok, "request context should carry a deadline")
		assert.WithinDuration(t, before.Add(5*time.Second), deadline, time.Second)
	})

	t.Run("slow handler observes expiry", func(t *testing.T) {
		var ctxErr error
		engine := timeoutEngine(10*time.Millisecond, func(c *gin.Context) {
			select {
			case <-c.Request.Context().Done():
				ctxErr = c.Request.Context().Err()
			case <-time.After(time.Second):
			}
			c.Status(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.ErrorIs(t, ctxErr, context.DeadlineExceeded)
	})

	t.Run("zero timeout leaves the context unbounded", func(t *testing.T) {
		var ok bool
		engine := timeoutEngine(0, func(c *gin.Context) {
			_, ok = c.Request.Context().Deadline()
			c.Status(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, ok)
	})
}
