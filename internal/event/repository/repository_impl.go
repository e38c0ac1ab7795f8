package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/clubkosh/clubkosh/internal/event/domain"
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

func (r *repository) Create(ctx context.Context, event domain.Event) error {
	return r.db.WithContext(ctx).Create(&event).Error
}

func (r *repository) GetByID(ctx context.Context, clubID, id snowflake.ID) (*domain.Event, error) {
	var event domain.Event
	err := r.db.WithContext(ctx).
		Where("club_id = ? AND id = ?", clubID, id).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) Update(ctx context.Context, event domain.Event) error {
	return r.db.WithContext(ctx).Save(&event).Error
}

func (r *repository) List(ctx context.Context, clubID snowflake.ID, status *domain.Status) ([]domain.Event, error) {
	tx := r.db.WithContext(ctx).Where("club_id = ?", clubID)
	if status != nil {
		tx = tx.Where("status = ?", *status)
	}

	var events []domain.Event
	err := tx.Order("starts_at DESC").Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
