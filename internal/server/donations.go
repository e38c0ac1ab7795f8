package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/clubkosh/clubkosh/internal/approval"
	donationdomain "github.com/clubkosh/clubkosh/internal/donation/domain"
	"github.com/clubkosh/clubkosh/internal/providers/pdf"
	"github.com/clubkosh/clubkosh/pkg/db/pagination"
)

func (s *Server) SubmitDonation(c *gin.Context) {
	var input donationdomain.SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	donation, err := s.donationSvc.Submit(c.Request.Context(), currentMember(c), input)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, donation)
}

func (s *Server) ListDonations(c *gin.Context) {
	input, err := bindDonationList(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	donations, pageInfo, err := s.donationSvc.List(c.Request.Context(), currentMember(c), input)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": donations, "page_info": pageInfo})
}

func (s *Server) ListPendingDonations(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	donations, pageInfo, err := s.donationSvc.ListPending(c.Request.Context(), currentMember(c), page)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": donations, "page_info": pageInfo})
}

func (s *Server) GetDonation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, donationdomain.ErrNotFound)
		return
	}

	donation, err := s.donationSvc.Get(c.Request.Context(), currentMember(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, donation)
}

func (s *Server) UpdateDonation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, donationdomain.ErrNotFound)
		return
	}

	var input donationdomain.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	donation, err := s.donationSvc.Update(c.Request.Context(), currentMember(c), id, input)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, donation)
}

func (s *Server) ApproveDonation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, donationdomain.ErrNotFound)
		return
	}

	donation, err := s.donationSvc.Approve(c.Request.Context(), currentMember(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, donation)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) RejectDonation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, donationdomain.ErrNotFound)
		return
	}

	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	donation, err := s.donationSvc.Reject(c.Request.Context(), currentMember(c), id, req.Reason)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, donation)
}

func (s *Server) ResubmitDonation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, donationdomain.ErrNotFound)
		return
	}

	var input donationdomain.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil && c.Request.ContentLength > 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	donation, err := s.donationSvc.Resubmit(c.Request.Context(), currentMember(c), id, input)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, donation)
}

// DonationReceipt renders an approved donation as a PDF receipt. Visibility
// follows the same rules as reading the donation itself.
func (s *Server) DonationReceipt(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, donationdomain.ErrNotFound)
		return
	}

	actor := currentMember(c)
	donation, err := s.donationSvc.Get(c.Request.Context(), actor, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if donation.Status != approval.StatusApproved {
		AbortWithError(c, approval.ErrInvalidTransition)
		return
	}

	club, err := s.clubSvc.Default(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	collectorName := strconv.FormatInt(donation.CollectedBy.Int64(), 10)
	if collector, err := s.members.GetByID(c.Request.Context(), donation.ClubID, donation.CollectedBy); err == nil {
		if collector.DisplayName != "" {
			collectorName = collector.DisplayName
		} else {
			collectorName = collector.Email
		}
	}

	eventTitle := ""
	if donation.EventID != nil {
		if ev, err := s.eventSvc.Get(c.Request.Context(), actor, *donation.EventID); err == nil {
			eventTitle = ev.Title
		}
	}

	data := pdf.ReceiptData{
		ClubName:      club.Name,
		ReceiptNumber: donation.ID.String(),
		DonorName:     donation.DonorName,
		Amount:        formatAmount(donation.Amount),
		Mode:          string(donation.Mode),
		CollectedBy:   collectorName,
		Date:          donation.CreatedAt.UTC().Format("Jan 2, 2006"),
		EventTitle:    eventTitle,
		Note:          donation.Note,
	}

	doc, err := s.receipts.GenerateReceipt(c.Request.Context(), data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", donation.ID.String()))
	c.DataFromReader(http.StatusOK, -1, "application/pdf", doc, nil)
}

func bindDonationList(c *gin.Context) (donationdomain.ListInput, error) {
	var input donationdomain.ListInput
	if err := c.ShouldBindQuery(&input.Page); err != nil {
		return input, invalidRequestError()
	}

	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := approval.Status(raw)
		if !status.Valid() {
			return input, newValidationError("status", "invalid_status", "invalid value")
		}
		input.Status = &status
	}
	if raw := strings.TrimSpace(c.Query("event_id")); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return input, newValidationError("event_id", "invalid_event_id", "invalid value")
		}
		input.EventID = &id
	}
	input.Mine = c.Query("mine") == "true"
	return input, nil
}

func formatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s₹%d.%02d", sign, minor/100, minor%100)
}
