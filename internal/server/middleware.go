package server

import (
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/clubkosh/clubkosh/internal/gate"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
	obscontext "github.com/clubkosh/clubkosh/internal/observability/context"
)

const contextMemberKey = "member"

// MemberRequired resolves the authenticated principal to a member profile
// and stores it on the request. Runs after IdentityRequired.
func (s *Server) MemberRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, ok := c.Get(contextPrincipalKey)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		principal, ok := value.(gate.Principal)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		member, err := s.gate.Resolve(c.Request.Context(), principal)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		stampMember(c, member)
		c.Next()
	}
}

// MemberOptional resolves the principal like MemberRequired but never
// aborts. Fail-open handlers behind it see a nil member when resolution
// fails and degrade instead of surfacing an auth error.
func (s *Server) MemberOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, ok := c.Get(contextPrincipalKey)
		if !ok {
			c.Next()
			return
		}
		principal, ok := value.(gate.Principal)
		if !ok {
			c.Next()
			return
		}

		if member, err := s.gate.Resolve(c.Request.Context(), principal); err == nil {
			stampMember(c, member)
		}
		c.Next()
	}
}

func stampMember(c *gin.Context, member *memberdomain.Member) {
	ctx := obscontext.WithActor(c.Request.Context(), "member", strconv.FormatInt(member.ID.Int64(), 10))
	ctx = obscontext.WithClubID(ctx, strconv.FormatInt(member.ClubID.Int64(), 10))
	c.Request = c.Request.WithContext(ctx)
	c.Set(contextMemberKey, member)
}

// RequireRole rejects the request up front when the member lacks every
// listed role. Services enforce the same rule again; this just fails fast.
func (s *Server) RequireRole(roles ...memberdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := gate.RequireRole(currentMember(c), roles...); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func currentMember(c *gin.Context) *memberdomain.Member {
	value, ok := c.Get(contextMemberKey)
	if !ok {
		return nil
	}
	member, ok := value.(*memberdomain.Member)
	if !ok {
		return nil
	}
	return member
}

func pathID(c *gin.Context, name string) (snowflake.ID, bool) {
	raw := c.Param(name)
	parsed, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
