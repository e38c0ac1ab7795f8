// Package domain contains persistence models for the invitation service.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
)

var (
	ErrNotFound      = errors.New("invite_not_found")
	ErrAlreadyMember = errors.New("already_member")
	ErrInvitePending = errors.New("invite_pending")
	ErrInvalidEmail  = errors.New("invalid_email")
	ErrSendFailed    = errors.New("invite_send_failed")
)

// Invitation tracks a pending invite into the club. The token is the only
// secret; possession of an unexpired token plus a verified email match is
// what admits the invitee.
type Invitation struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	ClubID     snowflake.ID      `gorm:"not null;index:idx_invitations_club_email,priority:1" json:"club_id"`
	Email      string            `gorm:"type:text;not null;index:idx_invitations_club_email,priority:2" json:"email"`
	Role       memberdomain.Role `gorm:"type:text;not null" json:"role"`
	Token      string            `gorm:"type:text;not null;uniqueIndex:ux_invitations_token" json:"-"`
	InvitedBy  snowflake.ID      `gorm:"column:invited_by;not null" json:"invited_by"`
	ExpiresAt  time.Time         `gorm:"not null" json:"expires_at"`
	AcceptedAt *time.Time        `json:"accepted_at,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invitation) TableName() string { return "invitations" }

// Pending reports whether the invitation can still be accepted at now.
func (i Invitation) Pending(now time.Time) bool {
	return i.AcceptedAt == nil && now.Before(i.ExpiresAt)
}
