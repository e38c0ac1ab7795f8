package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clubkosh/clubkosh/internal/approval"
	"github.com/clubkosh/clubkosh/internal/donation/domain"
	"github.com/clubkosh/clubkosh/pkg/db/pagination"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, donation domain.Donation) error {
	return r.db.WithContext(ctx).Create(&donation).Error
}

func (r *repository) GetByID(ctx context.Context, clubID, id snowflake.ID) (*domain.Donation, error) {
	var donation domain.Donation
	err := r.db.WithContext(ctx).
		Where("club_id = ? AND id = ?", clubID, id).
		First(&donation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &donation, nil
}

func (r *repository) Update(ctx context.Context, donation domain.Donation) error {
	return r.db.WithContext(ctx).Save(&donation).Error
}

func (r *repository) List(ctx context.Context, q domain.ListQuery) ([]*domain.Donation, error) {
	tx := r.db.WithContext(ctx).
		Model(&domain.Donation{}).
		Where("club_id = ?", q.ClubID)

	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	if q.EventID != nil {
		tx = tx.Where("event_id = ?", *q.EventID)
	}
	if q.OwnerID != nil {
		tx = tx.Where("collected_by = ?", *q.OwnerID)
	}
	if q.VisibleTo != nil {
		tx = tx.Where("status = ? OR collected_by = ?", "approved", *q.VisibleTo)
	}

	if q.Cursor != nil {
		createdAt, err := time.Parse(time.RFC3339Nano, q.Cursor.CreatedAt)
		if err != nil {
			return nil, pagination.ErrInvalidCursor
		}
		id, err := strconv.ParseInt(q.Cursor.ID, 10, 64)
		if err != nil {
			return nil, pagination.ErrInvalidCursor
		}
		tx = tx.Where("created_at < ? OR (created_at = ? AND id < ?)", createdAt, createdAt, id)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	var donations []*domain.Donation
	err := tx.Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&donations).Error
	if err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *repository) StatsByStatus(ctx context.Context, clubID snowflake.ID, status approval.Status) (domain.StatusStats, error) {
	var stats domain.StatusStats
	err := r.db.WithContext(ctx).
		Model(&domain.Donation{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("club_id = ? AND status = ?", clubID, status).
		Scan(&stats).Error
	if err != nil {
		return domain.StatusStats{}, err
	}
	return stats, nil
}
