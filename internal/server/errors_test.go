package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clubkosh/clubkosh/internal/approval"
	donationdomain "github.com/clubkosh/clubkosh/internal/donation/domain"
	"github.com/clubkosh/clubkosh/internal/gate"
	invitedomain "github.com/clubkosh/clubkosh/internal/invite/domain"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
	"github.com/clubkosh/clubkosh/pkg/db/pagination"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"unauthenticated", ErrUnauthorized, http.StatusUnauthorized, "not_authenticated"},
		{"no profile", gate.ErrProfileNotFound, http.StatusForbidden, "profile_not_found"},
		{"inactive", gate.ErrAccountInactive, http.StatusForbidden, "account_inactive"},
		{"forbidden", gate.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"not owner", approval.ErrNotOwner, http.StatusForbidden, "not_owner"},
		{"bad transition", approval.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
		{"already member", invitedomain.ErrAlreadyMember, http.StatusConflict, "already_member"},
		{"invite pending", invitedomain.ErrInvitePending, http.StatusConflict, "invite_pending"},
		{"send failed", invitedomain.ErrSendFailed, http.StatusServiceUnavailable, "invite_send_failed"},
		{"bad amount", approval.ErrInvalidAmount, http.StatusBadRequest, "validation_error"},
		{"bad role", memberdomain.ErrInvalidRole, http.StatusBadRequest, "validation_error"},
		{"bad mode", donationdomain.ErrInvalidMode, http.StatusBadRequest, "validation_error"},
		{"bad cursor", pagination.ErrInvalidCursor, http.StatusBadRequest, "validation_error"},
		{"domain not found", donationdomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"gorm not found", gorm.ErrRecordNotFound, http.StatusNotFound, "not_found"},
		{"payment link unset", ErrPaymentLinkNotConfigured, http.StatusNotFound, "not_found"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantType, payload.Type)
		})
	}
}

func TestMapErrorValidationPayload(t *testing.T) {
	status, payload := mapError(newValidationError("status", "invalid_status", "invalid value"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", payload.Type)
	if assert.Len(t, payload.Errors, 1) {
		assert.Equal(t, "status", payload.Errors[0].Field)
		assert.Equal(t, "invalid_status", payload.Errors[0].Code)
	}
}

func TestMapErrorWrappedSentinel(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), donationdomain.ErrNotFound)
	status, payload := mapError(wrapped)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", payload.Type)
}

func TestClassifyErrorForLog(t *testing.T) {
	class, code := classifyErrorForLog(gate.ErrForbidden)
	assert.Equal(t, "client", class)
	assert.Equal(t, "forbidden", code)

	class, code = classifyErrorForLog(errors.New("boom"))
	assert.Equal(t, "internal", class)
	assert.Equal(t, "internal_error", code)

	class, code = classifyErrorForLog(nil)
	assert.Empty(t, class)
	assert.Empty(t, code)
}
