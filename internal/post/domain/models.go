// Package domain contains persistence models for the post service.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrNotFound     = errors.New("post_not_found")
	ErrInvalidTitle = errors.New("invalid_title")
)

// Status is the lifecycle state of a post.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Post is a club announcement. Drafts are only visible to their author and
// admins; published posts are visible to every member.
type Post struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	ClubID      snowflake.ID  `gorm:"not null;index:idx_posts_club_status,priority:1" json:"club_id"`
	EventID     *snowflake.ID `gorm:"index" json:"event_id,omitempty"`
	AuthorID    snowflake.ID  `gorm:"column:author_id;not null" json:"author_id"`
	Title       string        `gorm:"type:text;not null" json:"title"`
	Body        string        `gorm:"type:text;not null;default:''" json:"body"`
	ImageURL    string        `gorm:"column:image_url;type:text;not null;default:''" json:"image_url"`
	Status      Status        `gorm:"type:text;not null;default:'draft';index:idx_posts_club_status,priority:2" json:"status"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Post) TableName() string { return "posts" }
