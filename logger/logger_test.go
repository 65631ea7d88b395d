package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestContextWithLogger_KeepsExisting(t *testing.T) {
	ctx, first := ContextWithLogger(context.Background(), "abc")
	ctx2, second := ContextWithLogger(ctx, "other")

	assert.Same(t, first, second)
	assert.Equal(t, "abc", RequestIDFromContext(ctx2))
}

func TestContextWithLogger_GeneratesID(t *testing.T) {
	ctx, _ := ContextWithLogger(context.Background(), "")
	assert.Len(t, RequestIDFromContext(ctx), 36)
}

func TestContextWithUser(t *testing.T) {
	ctx, _ := ContextWithLogger(context.Background(), "req-1")
	ctx = ContextWithUser(ctx, 7)

	entry := FromContext(ctx)
	assert.Equal(t, uint(7), entry.Data[userIDLoggerKey])
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
}

func TestFromContext_Default(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
}

func TestRequestLogger_EchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fixed-id", seen)
	assert.Equal(t, "fixed-id", w.Header().Get(RequestIDHeader))
}
