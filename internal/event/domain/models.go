// Package domain contains persistence models for the event service.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrNotFound      = errors.New("event_not_found")
	ErrInvalidTitle  = errors.New("invalid_title")
	ErrInvalidStatus = errors.New("invalid_event_status")
)

// Status is the lifecycle state of an event.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Event is a club activity that donations and expenses can be tagged to.
type Event struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	ClubID      snowflake.ID `gorm:"not null;index:idx_events_club_status,priority:1" json:"club_id"`
	Title       string       `gorm:"type:text;not null" json:"title"`
	Slug        string       `gorm:"type:text;not null;default:''" json:"slug"`
	Description string       `gorm:"type:text;not null;default:''" json:"description"`
	Location    string       `gorm:"type:text;not null;default:''" json:"location"`
	StartsAt    time.Time    `gorm:"column:starts_at;not null" json:"starts_at"`
	Status      Status       `gorm:"type:text;not null;default:'upcoming';index:idx_events_club_status,priority:2" json:"status"`
	CreatedBy   snowflake.ID `gorm:"column:created_by;not null" json:"created_by"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Event) TableName() string { return "events" }
