package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clubkosh/clubkosh/internal/approval"
	"github.com/clubkosh/clubkosh/internal/expense/domain"
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

func (r *repository) Create(ctx context.Context, expense domain.Expense) error {
	return r.db.WithContext(ctx).Create(&expense).Error
}

func (r *repository) GetByID(ctx context.Context, clubID, id snowflake.ID) (*domain.Expense, error) {
	var expense domain.Expense
	err := r.db.WithContext(ctx).
		Where("club_id = ? AND id = ?", clubID, id).
		First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &expense, nil
}

func (r *repository) Update(ctx context.Context, expense domain.Expense) error {
	return r.db.WithContext(ctx).Save(&expense).Error
}

func (r *repository) List(ctx context.Context, q domain.ListQuery) ([]*domain.Expense, error) {
	tx := r.db.WithContext(ctx).
		Model(&domain.Expense{}).
		Where("club_id = ?", q.ClubID)

	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	if q.EventID != nil {
		tx = tx.Where("event_id = ?", *q.EventID)
	}
	if q.Category != nil {
		tx = tx.Where("category = ?", *q.Category)
	}
	if q.OwnerID != nil {
		tx = tx.Where("submitted_by = ?", *q.OwnerID)
	}
	if q.VisibleTo != nil {
		tx = tx.Where("status = ? OR submitted_by = ?", "approved", *q.VisibleTo)
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

	var expenses []*domain.Expense
	err := tx.Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *repository) StatsByStatus(ctx context.Context, clubID snowflake.ID, status approval.Status) (domain.StatusStats, error) {
	var stats domain.StatusStats
	err := r.db.WithContext(ctx).
		Model(&domain.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("club_id = ? AND status = ?", clubID, status).
		Scan(&stats).Error
	if err != nil {
		return domain.StatusStats{}, err
	}
	return stats, nil
}
