package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/dtroode/storefront-identity/internal/api/http/handler"
	"github.com/dtroode/storefront-identity/internal/apierrors"
	"github.com/dtroode/storefront-identity/internal/logger"
	"github.com/dtroode/storefront-identity/internal/testutil"
)

func TestLogging_HandleHTTP(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewLogging(logger.NewWithWriter(&buf, -4, "text"))

	r := gin.New()
	r.Use(l.HandleHTTP)
	r.GET("/user/:id", func(c *gin.Context) {
		c.Status(http.StatusTeapot)
	})
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Status(http.StatusInternalServerError)
	})
	r.GET("/reject", func(c *gin.Context) {
		handler.AbortWithError(c, apierrors.NewErrValidation("email: cannot be blank"), testutil.MakeNoopLogger())
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/42", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)

	out := buf.String()
	assert.Contains(t, out, "HTTP request started")
	assert.Contains(t, out, "HTTP request completed")
	assert.Contains(t, out, "route=/user/:id")
	assert.Contains(t, out, "status=418")
	assert.NotContains(t, out, "HTTP request failed")

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))
	out = buf.String()
	assert.Contains(t, out, "HTTP request failed")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "kind=internal")

	buf.Reset()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reject", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	out = buf.String()
	assert.Contains(t, out, "HTTP request failed")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "kind=validation")
	assert.NotContains(t, out, "level=ERROR")
}
