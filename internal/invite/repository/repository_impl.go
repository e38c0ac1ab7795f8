package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clubkosh/clubkosh/internal/invite/domain"
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

func (r *repository) Create(ctx context.Context, invite domain.Invitation) error {
	return r.db.WithContext(ctx).Create(&invite).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Invitation{}, "id = ?", id).Error
}

func (r *repository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	var invite domain.Invitation
	err := r.db.WithContext(ctx).
		Where("token = ?", strings.TrimSpace(token)).
		First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &invite, nil
}

func (r *repository) GetPendingByEmail(ctx context.Context, clubID snowflake.ID, email string) (*domain.Invitation, error) {
	var invite domain.Invitation
	err := r.db.WithContext(ctx).
		Where("club_id = ? AND email = ? AND accepted_at IS NULL", clubID, strings.ToLower(strings.TrimSpace(email))).
		Order("created_at DESC").
		First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &invite, nil
}

func (r *repository) MarkAccepted(ctx context.Context, id snowflake.ID, acceptedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Invitation{}).
		Where("id = ? AND accepted_at IS NULL", id).
		Update("accepted_at", acceptedAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, clubID snowflake.ID) ([]domain.Invitation, error) {
	var invites []domain.Invitation
	err := r.db.WithContext(ctx).
		Where("club_id = ?", clubID).
		Order("created_at DESC").
		Find(&invites).Error
	if err != nil {
		return nil, err
	}
	return invites, nil
}
