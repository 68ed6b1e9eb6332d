package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

func contactID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Detail: "Invalid contact id"})
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *Server) listContacts(c *gin.Context) {
	limit, offset := pagination(c)

	contacts, err := s.contacts.List(c.Request.Context(), limit, offset)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, newContactListResponse(contacts))
}

func (s *Server) getContact(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}

	contact, err := s.contacts.Get(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, newContactResponse(contact))
}

func (s *Server) createContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Detail: err.Error()})
		return
	}

	contact, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Detail: "Invalid birthday, expected YYYY-MM-DD"})
		return
	}

	created, err := s.contacts.Create(c.Request.Context(), contact)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newContactResponse(created))
}

func (s *Server) updateContact(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}

	var req contactPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Detail: err.Error()})
		return
	}

	patch, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Detail: "Invalid birthday, expected YYYY-MM-DD"})
		return
	}

	updated, err := s.contacts.Update(c.Request.Context(), id, patch)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, newContactResponse(updated))
}

func (s *Server) deleteContact(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}

	if err := s.contacts.Delete(c.Request.Context(), id); err != nil {
		s.renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) searchContacts(c *gin.Context) {
	contacts, err := s.contacts.Search(
		c.Request.Context(),
		c.Query("first_name"),
		c.Query("last_name"),
		c.Query("email"),
	)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, newContactListResponse(contacts))
}

func (s *Server) upcomingBirthdays(c *gin.Context) {
	contacts, err := s.contacts.UpcomingBirthdays(c.Request.Context(), time.Now())
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, newContactListResponse(contacts))
}
