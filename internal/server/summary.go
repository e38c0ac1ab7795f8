package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetPendingCount always succeeds; non-reviewers get zeros rather than an
// error so clients can render the badge unconditionally.
func (s *Server) GetPendingCount(c *gin.Context) {
	c.JSON(http.StatusOK, s.summarySvc.PendingCount(c.Request.Context(), currentMember(c)))
}

func (s *Server) GetFundSummary(c *gin.Context) {
	summary, err := s.summarySvc.FundSummary(c.Request.Context(), currentMember(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetPaymentLink returns the club's configured payment page, if any.
func (s *Server) GetPaymentLink(c *gin.Context) {
	url, ok := s.payments.PaymentLink(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrPaymentLinkNotConfigured)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
