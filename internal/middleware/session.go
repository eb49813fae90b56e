package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/enrollment-wizard/pkg/errors"
	"github.com/noah-isme/enrollment-wizard/pkg/registry"
	"github.com/noah-isme/enrollment-wizard/pkg/response"
)

// ContextSessionKey is the gin context key storing the forwarded registry session.
const ContextSessionKey = "registrySession"

func sessionValue(c *gin.Context, cookieName string) string {
	if cookieName == "" {
		return ""
	}
	value, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

// RegistrySession requires the registry session cookie and forwards it on
// every registry call made with the request context. The gateway never
// inspects the cookie; the registry decides whether it is valid.
func RegistrySession(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessionValue(c, cookieName)
		if session == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "sign in to the registry first"))
			c.Abort()
			return
		}
		c.Set(ContextSessionKey, session)
		c.Request = c.Request.WithContext(registry.WithSession(c.Request.Context(), session))
		c.Next()
	}
}

// OptionalRegistrySession forwards the cookie when present but does not block.
func OptionalRegistrySession(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session := sessionValue(c, cookieName); session != "" {
			c.Set(ContextSessionKey, session)
			c.Request = c.Request.WithContext(registry.WithSession(c.Request.Context(), session))
		}
		c.Next()
	}
}
