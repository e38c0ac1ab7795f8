package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/clubkosh/clubkosh/internal/approval"
	clubdomain "github.com/clubkosh/clubkosh/internal/club/domain"
	donationdomain "github.com/clubkosh/clubkosh/internal/donation/domain"
	eventdomain "github.com/clubkosh/clubkosh/internal/event/domain"
	expensedomain "github.com/clubkosh/clubkosh/internal/expense/domain"
	"github.com/clubkosh/clubkosh/internal/gate"
	invitedomain "github.com/clubkosh/clubkosh/internal/invite/domain"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
	postdomain "github.com/clubkosh/clubkosh/internal/post/domain"
	"github.com/clubkosh/clubkosh/internal/providers/storage"
	"github.com/clubkosh/clubkosh/pkg/db/pagination"
	"gorm.io/gorm"
)

var (
	ErrUnauthorized             = errors.New("not_authenticated")
	ErrPaymentLinkNotConfigured = errors.New("payment_link_not_configured")
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "not_authenticated",
			Message: "authentication required",
		}
	case errors.Is(err, gate.ErrProfileNotFound):
		return http.StatusForbidden, errorPayload{
			Type:    "profile_not_found",
			Message: "no member profile for this account",
		}
	case errors.Is(err, gate.ErrAccountInactive):
		return http.StatusForbidden, errorPayload{
			Type:    "account_inactive",
			Message: "account is deactivated",
		}
	case errors.Is(err, gate.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "insufficient role",
		}
	case errors.Is(err, approval.ErrNotOwner):
		return http.StatusForbidden, errorPayload{
			Type:    "not_owner",
			Message: "only the record owner may do this",
		}
	case errors.Is(err, approval.ErrInvalidTransition):
		return http.StatusConflict, errorPayload{
			Type:    "invalid_transition",
			Message: "record status does not allow this",
		}
	case errors.Is(err, invitedomain.ErrAlreadyMember):
		return http.StatusConflict, errorPayload{
			Type:    "already_member",
			Message: "a member with this email already exists",
		}
	case errors.Is(err, invitedomain.ErrInvitePending):
		return http.StatusConflict, errorPayload{
			Type:    "invite_pending",
			Message: "an invitation for this email is already pending",
		}
	case errors.Is(err, invitedomain.ErrSendFailed):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "invite_send_failed",
			Message: "invitation email could not be delivered",
		}
	case errors.Is(err, ErrPaymentLinkNotConfigured):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "no payment page configured",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, approval.ErrInvalidAmount),
		errors.Is(err, memberdomain.ErrInvalidRole),
		errors.Is(err, donationdomain.ErrInvalidMode),
		errors.Is(err, donationdomain.ErrInvalidDonor),
		errors.Is(err, expensedomain.ErrInvalidCategory),
		errors.Is(err, expensedomain.ErrInvalidPayee),
		errors.Is(err, eventdomain.ErrInvalidTitle),
		errors.Is(err, eventdomain.ErrInvalidStatus),
		errors.Is(err, postdomain.ErrInvalidTitle),
		errors.Is(err, invitedomain.ErrInvalidEmail),
		errors.Is(err, pagination.ErrInvalidCursor):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, clubdomain.ErrNotFound),
		errors.Is(err, memberdomain.ErrNotFound),
		errors.Is(err, invitedomain.ErrNotFound),
		errors.Is(err, donationdomain.ErrNotFound),
		errors.Is(err, expensedomain.ErrNotFound),
		errors.Is(err, eventdomain.ErrNotFound),
		errors.Is(err, postdomain.ErrNotFound),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

// classifyErrorForLog reduces request errors to stable type/code strings for
// the access log.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		return "internal", payload.Type
	}
	return "client", payload.Type
}
