// Package domain contains persistence models for the member service.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrNotFound    = errors.New("member_not_found")
	ErrInvalidRole = errors.New("invalid_role")
)

// Role is the closed set of member roles. There is no free-form role input
// anywhere; unknown values are rejected at the edge.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleTreasurer   Role = "treasurer"
	RoleCoordinator Role = "coordinator"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTreasurer, RoleCoordinator:
		return true
	default:
		return false
	}
}

// Privileged reports whether the role may review and see pending records
// submitted by others.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleTreasurer
}

// Member represents a club member profile. ExternalID is the subject id of
// the identity provider account the profile is bound to; it is nil until the
// member signs in for the first time.
type Member struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	ClubID       snowflake.ID `gorm:"not null;index;uniqueIndex:uq_members_club_email,priority:1" json:"club_id"`
	ExternalID   *string      `gorm:"type:text;uniqueIndex:uq_members_external_id" json:"external_id,omitempty"`
	Email        string       `gorm:"type:text;not null;uniqueIndex:uq_members_club_email,priority:2" json:"email"`
	DisplayName  string       `gorm:"type:text;not null;default:''" json:"display_name"`
	Phone        string       `gorm:"type:text;not null;default:''" json:"phone"`
	Role         Role         `gorm:"type:text;not null" json:"role"`
	Active       bool         `gorm:"not null;default:true" json:"active"`
	// RefreshToken is opaque state from the identity provider, stored so a
	// future session refresh flow has somewhere to keep it. Never serialized.
	RefreshToken string       `gorm:"column:refresh_token;type:text;not null;default:''" json:"-"`
	JoinedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"joined_at"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Member) TableName() string { return "members" }
