package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vmakarenko/contactvault/internal/common"
	"github.com/vmakarenko/contactvault/internal/server/models"
)

const (
	authHeaderKey  = "Authorization"
	authTypeBearer = "bearer"
	contextUserKey = "currentUser"
)

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The empty string means no usable header was present.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader(authHeaderKey)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], authTypeBearer) {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// authMiddleware resolves the bearer access token to a user and stores it in
// the request context. Every rejection, whatever its cause, renders the same
// 401 body.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Detail: "Not authenticated"})
			return
		}

		user, err := s.auth.ResolveIdentity(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, common.ErrorUnauthorized) {
				s.logger.Error(c.Request.Context(), "identity resolution failed", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Detail: "Not authenticated"})
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// currentUser returns the user stored by authMiddleware.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet(contextUserKey).(*models.User)
}

// renderError maps a service error to its HTTP response.
func (s *Server) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, errorResponse{Detail: "Email already registered"})
	case errors.Is(err, common.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorResponse{Detail: "Invalid credentials"})
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrWrongTokenScope),
		errors.Is(err, common.ErrTokenMismatch),
		errors.Is(err, common.ErrorUnauthorized):
		c.JSON(http.StatusUnauthorized, errorResponse{Detail: "Invalid refresh token"})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Detail: "Not found"})
	default:
		s.logger.Error(c.Request.Context(), "request failed", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}
}
