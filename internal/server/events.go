package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	eventdomain "github.com/clubkosh/clubkosh/internal/event/domain"
)

func (s *Server) CreateEvent(c *gin.Context) {
	var input eventdomain.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	event, err := s.eventSvc.Create(c.Request.Context(), currentMember(c), input)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (s *Server) ListEvents(c *gin.Context) {
	var status *eventdomain.Status
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		parsed := eventdomain.Status(raw)
		if !parsed.Valid() {
			AbortWithError(c, newValidationError("status", "invalid_status", "invalid value"))
			return
		}
		status = &parsed
	}

	events, err := s.eventSvc.List(c.Request.Context(), currentMember(c), status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}

func (s *Server) GetEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, eventdomain.ErrNotFound)
		return
	}

	event, err := s.eventSvc.Get(c.Request.Context(), currentMember(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (s *Server) UpdateEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, eventdomain.ErrNotFound)
		return
	}

	var input eventdomain.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	event, err := s.eventSvc.Update(c.Request.Context(), currentMember(c), id, input)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}
