package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
)

func (s *Server) GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, currentMember(c))
}

func (s *Server) UpdateMe(c *gin.Context) {
	var input memberdomain.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	actor := currentMember(c)
	member, err := s.memberSvc.UpdateProfile(c.Request.Context(), actor, actor.ID, input)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (s *Server) ListMembers(c *gin.Context) {
	members, err := s.memberSvc.List(c.Request.Context(), currentMember(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": members})
}

func (s *Server) GetMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, memberdomain.ErrNotFound)
		return
	}

	member, err := s.memberSvc.Get(c.Request.Context(), currentMember(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (s *Server) UpdateMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, memberdomain.ErrNotFound)
		return
	}

	var input memberdomain.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	member, err := s.memberSvc.UpdateProfile(c.Request.Context(), currentMember(c), id, input)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

type setRoleRequest struct {
	Role memberdomain.Role `json:"role"`
}

func (s *Server) SetMemberRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, memberdomain.ErrNotFound)
		return
	}

	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	member, err := s.memberSvc.SetRole(c.Request.Context(), currentMember(c), id, req.Role)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

type setActiveRequest struct {
	Active *bool `json:"active"`
}

func (s *Server) SetMemberActive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, memberdomain.ErrNotFound)
		return
	}

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	member, err := s.memberSvc.SetActive(c.Request.Context(), currentMember(c), id, *req.Active)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}
