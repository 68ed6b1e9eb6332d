package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Detail: err.Error()})
		return
	}

	user, err := s.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(user, ""))
}

func (s *Server) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Detail: err.Error()})
		return
	}

	pair, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTokenResponse(pair.AccessToken, pair.RefreshToken))
}

// refreshToken rotates a bearer refresh token into a new pair. It does not go
// through authMiddleware: the presented credential is a refresh token, not an
// access token.
func (s *Server) refreshToken(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, errorResponse{Detail: "Not authenticated"})
		return
	}

	pair, err := s.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTokenResponse(pair.AccessToken, pair.RefreshToken))
}

func (s *Server) logout(c *gin.Context) {
	if err := s.auth.Logout(c.Request.Context(), currentUser(c)); err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Logged out"})
}
