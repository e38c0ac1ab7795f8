// Package domain contains persistence models for the expense service.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clubkosh/clubkosh/internal/approval"
)

var (
	ErrNotFound        = errors.New("expense_not_found")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrInvalidPayee    = errors.New("invalid_payee")
)

// Category buckets what club money was spent on.
type Category string

const (
	CategorySupplies  Category = "supplies"
	CategoryVenue     Category = "venue"
	CategoryFood      Category = "food"
	CategoryTransport Category = "transport"
	CategoryPrinting  Category = "printing"
	CategoryOther     Category = "other"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategorySupplies, CategoryVenue, CategoryFood, CategoryTransport, CategoryPrinting, CategoryOther:
		return true
	default:
		return false
	}
}

// Expense is money a member spent on the club's behalf, awaiting or past
// review. Amount is in minor units (paise).
type Expense struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id"`
	ClubID       snowflake.ID    `gorm:"not null;index:idx_expenses_club_status,priority:1" json:"club_id"`
	EventID      *snowflake.ID   `gorm:"index" json:"event_id,omitempty"`
	SubmittedBy  snowflake.ID    `gorm:"column:submitted_by;not null;index" json:"submitted_by"`
	PaidTo       string          `gorm:"column:paid_to;type:text;not null" json:"paid_to"`
	Category     Category        `gorm:"type:text;not null" json:"category"`
	Description  string          `gorm:"type:text;not null;default:''" json:"description"`
	Amount       int64           `gorm:"not null" json:"amount"`
	ReceiptURL   string          `gorm:"column:receipt_url;type:text;not null;default:''" json:"receipt_url"`
	Status       approval.Status `gorm:"type:text;not null;default:'pending';index:idx_expenses_club_status,priority:2" json:"status"`
	ReviewedBy   *snowflake.ID   `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time      `json:"reviewed_at,omitempty"`
	RejectReason *string         `gorm:"column:reject_reason;type:text" json:"reject_reason,omitempty"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Expense) TableName() string { return "expenses" }
