package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.GET("/healthchecker", s.healthcheck)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", s.signup)
			authGroup.POST("/login", s.login)
			authGroup.GET("/refresh_token", s.refreshToken)
			authGroup.POST("/logout", s.authMiddleware(), s.logout)
		}

		contacts := api.Group("/contacts", s.authMiddleware())
		{
			contacts.GET("", s.listContacts)
			contacts.POST("", s.createContact)
			contacts.GET("/search", s.searchContacts)
			contacts.GET("/birthdays", s.upcomingBirthdays)
			contacts.GET("/:id", s.getContact)
			contacts.PUT("/:id", s.updateContact)
			contacts.DELETE("/:id", s.deleteContact)
		}

		users := api.Group("/users", s.authMiddleware())
		{
			users.GET("/me", s.me)
			users.POST("/avatar", s.avatarUploadURL)
			users.GET("/avatar", s.avatarURL)
		}
	}

	return router
}

func (s *Server) healthcheck(c *gin.Context) {
	if err := s.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Detail: "Database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
