package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	invitedomain "github.com/clubkosh/clubkosh/internal/invite/domain"
)

func (s *Server) CreateInvite(c *gin.Context) {
	var input invitedomain.CreateInviteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	invite, err := s.inviteSvc.Create(c.Request.Context(), currentMember(c), input)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invite)
}

func (s *Server) ListInvites(c *gin.Context) {
	invites, err := s.inviteSvc.List(c.Request.Context(), currentMember(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invites})
}

func (s *Server) RevokeInvite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, invitedomain.ErrNotFound)
		return
	}

	if err := s.inviteSvc.Revoke(c.Request.Context(), currentMember(c), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ResolveInviteToken is the only unauthenticated endpoint: the invitee has
// no account yet when they open the invite link.
func (s *Server) ResolveInviteToken(c *gin.Context) {
	info, err := s.inviteSvc.ResolveToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
