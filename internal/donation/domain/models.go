// Package domain contains persistence models for the donation service.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clubkosh/clubkosh/internal/approval"
)

var (
	ErrNotFound     = errors.New("donation_not_found")
	ErrInvalidMode  = errors.New("invalid_mode")
	ErrInvalidDonor = errors.New("invalid_donor_name")
)

// Mode is how the donor handed over the money.
type Mode string

const (
	ModeCash         Mode = "cash"
	ModeUPI          Mode = "upi"
	ModeBankTransfer Mode = "bank_transfer"
	ModeCheque       Mode = "cheque"
	ModeOther        Mode = "other"
)

// Valid reports whether the mode is one of the known values.
func (m Mode) Valid() bool {
	switch m {
	case ModeCash, ModeUPI, ModeBankTransfer, ModeCheque, ModeOther:
		return true
	default:
		return false
	}
}

// Donation is a collected donation awaiting or past review. Amount is in
// minor units (paise) so arithmetic stays exact.
type Donation struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id"`
	ClubID       snowflake.ID    `gorm:"not null;index:idx_donations_club_status,priority:1" json:"club_id"`
	EventID      *snowflake.ID   `gorm:"index" json:"event_id,omitempty"`
	CollectedBy  snowflake.ID    `gorm:"column:collected_by;not null;index" json:"collected_by"`
	DonorName    string          `gorm:"type:text;not null" json:"donor_name"`
	DonorContact string          `gorm:"type:text;not null;default:''" json:"donor_contact"`
	Amount       int64           `gorm:"not null" json:"amount"`
	Mode         Mode            `gorm:"type:text;not null" json:"mode"`
	Note         string          `gorm:"type:text;not null;default:''" json:"note"`
	ReceiptURL   string          `gorm:"column:receipt_url;type:text;not null;default:''" json:"receipt_url"`
	Status       approval.Status `gorm:"type:text;not null;default:'pending';index:idx_donations_club_status,priority:2" json:"status"`
	ReviewedBy   *snowflake.ID   `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time      `json:"reviewed_at,omitempty"`
	RejectReason *string         `gorm:"column:reject_reason;type:text" json:"reject_reason,omitempty"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Donation) TableName() string { return "donations" }
