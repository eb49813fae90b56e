package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/enrollment-wizard/internal/models"
	"github.com/noah-isme/enrollment-wizard/pkg/response"
)

type sessionChecker interface {
	CheckSession(ctx context.Context) (*models.SessionStatus, error)
}

// AuthHandler reports whether the caller's registry session is still valid.
// Login itself happens against the registry.
type AuthHandler struct {
	registry sessionChecker
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(registry sessionChecker) *AuthHandler {
	return &AuthHandler{registry: registry}
}

// Session godoc
// @Summary Check registry session
// @Description Answers authenticated=false instead of 401 so the UI can redirect to login.
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	status, err := h.registry.CheckSession(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status)
}
