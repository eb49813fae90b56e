package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/enrollment-wizard/pkg/registry"
)

func TestRegistrySessionForwardsCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var forwarded string
	r.GET("/x", RegistrySession("registry_session"), func(c *gin.Context) {
		forwarded = registry.SessionFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(&http.Cookie{Name: "registry_session", Value: "abc"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "abc", forwarded)
}

func TestRegistrySessionRejectsMissingCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RegistrySession("registry_session"), func(c *gin.Context) {
		t.Fatal("handler must not run")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestOptionalRegistrySession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", OptionalRegistrySession("registry_session"), func(c *gin.Context) {
		_, exists := c.Get(ContextSessionKey)
		assert.False(t, exists)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
