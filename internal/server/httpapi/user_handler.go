package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) me(c *gin.Context) {
	user := currentUser(c)

	avatarURL, err := s.profile.AvatarURL(c.Request.Context(), user)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user, avatarURL))
}

func (s *Server) avatarUploadURL(c *gin.Context) {
	key, url, err := s.profile.AvatarUploadURL(c.Request.Context(), currentUser(c))
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, avatarUploadResponse{Key: key, UploadURL: url})
}

func (s *Server) avatarURL(c *gin.Context) {
	user := currentUser(c)

	url, err := s.profile.AvatarURL(c.Request.Context(), user)
	if err != nil {
		s.renderError(c, err)
		return
	}
	if url == "" {
		c.JSON(http.StatusNotFound, errorResponse{Detail: "No avatar uploaded"})
		return
	}

	c.JSON(http.StatusOK, avatarResponse{URL: url})
}
