package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	postdomain "github.com/clubkosh/clubkosh/internal/post/domain"
)

func (s *Server) CreatePost(c *gin.Context) {
	var input postdomain.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	post, err := s.postSvc.Create(c.Request.Context(), currentMember(c), input)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (s *Server) ListPosts(c *gin.Context) {
	var status *postdomain.Status
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		parsed := postdomain.Status(raw)
		if !parsed.Valid() {
			AbortWithError(c, newValidationError("status", "invalid_status", "invalid value"))
			return
		}
		status = &parsed
	}

	posts, err := s.postSvc.List(c.Request.Context(), currentMember(c), status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

func (s *Server) GetPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, postdomain.ErrNotFound)
		return
	}

	post, err := s.postSvc.Get(c.Request.Context(), currentMember(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (s *Server) UpdatePost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, postdomain.ErrNotFound)
		return
	}

	var input postdomain.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	post, err := s.postSvc.Update(c.Request.Context(), currentMember(c), id, input)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (s *Server) PublishPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, postdomain.ErrNotFound)
		return
	}

	post, err := s.postSvc.Publish(c.Request.Context(), currentMember(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (s *Server) DeletePost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, postdomain.ErrNotFound)
		return
	}

	if err := s.postSvc.Delete(c.Request.Context(), currentMember(c), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
