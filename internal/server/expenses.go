package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/clubkosh/clubkosh/internal/approval"
	expensedomain "github.com/clubkosh/clubkosh/internal/expense/domain"
	"github.com/clubkosh/clubkosh/pkg/db/pagination"
)

func (s *Server) SubmitExpense(c *gin.Context) {
	var input expensedomain.SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	expense, err := s.expenseSvc.Submit(c.Request.Context(), currentMember(c), input)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (s *Server) ListExpenses(c *gin.Context) {
	input, err := bindExpenseList(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	expenses, pageInfo, err := s.expenseSvc.List(c.Request.Context(), currentMember(c), input)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": expenses, "page_info": pageInfo})
}

func (s *Server) ListPendingExpenses(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	expenses, pageInfo, err := s.expenseSvc.ListPending(c.Request.Context(), currentMember(c), page)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": expenses, "page_info": pageInfo})
}

func (s *Server) GetExpense(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, expensedomain.ErrNotFound)
		return
	}

	expense, err := s.expenseSvc.Get(c.Request.Context(), currentMember(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func (s *Server) UpdateExpense(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, expensedomain.ErrNotFound)
		return
	}

	var input expensedomain.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	expense, err := s.expenseSvc.Update(c.Request.Context(), currentMember(c), id, input)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func (s *Server) ApproveExpense(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, expensedomain.ErrNotFound)
		return
	}

	expense, err := s.expenseSvc.Approve(c.Request.Context(), currentMember(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func (s *Server) RejectExpense(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, expensedomain.ErrNotFound)
		return
	}

	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	expense, err := s.expenseSvc.Reject(c.Request.Context(), currentMember(c), id, req.Reason)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func (s *Server) ResubmitExpense(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, expensedomain.ErrNotFound)
		return
	}

	var input expensedomain.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil && c.Request.ContentLength > 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	expense, err := s.expenseSvc.Resubmit(c.Request.Context(), currentMember(c), id, input)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func bindExpenseList(c *gin.Context) (expensedomain.ListInput, error) {
	var input expensedomain.ListInput
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
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		category := expensedomain.Category(raw)
		if !category.Valid() {
			return input, newValidationError("category", "invalid_category", "invalid value")
		}
		input.Category = &category
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
