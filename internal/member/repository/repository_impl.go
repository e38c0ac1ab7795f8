package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/clubkosh/clubkosh/internal/member/domain"
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

func (r *repository) Create(ctx context.Context, member domain.Member) error {
	return r.db.WithContext(ctx).Create(&member).Error
}

func (r *repository) GetByID(ctx context.Context, clubID, id snowflake.ID) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).
		Where("club_id = ? AND id = ?", clubID, id).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *repository) GetByExternalID(ctx context.Context, externalID string) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *repository) GetByEmail(ctx context.Context, clubID snowflake.ID, email string) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).
		Where("club_id = ? AND email = ?", clubID, strings.ToLower(strings.TrimSpace(email))).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *repository) List(ctx context.Context, clubID snowflake.ID) ([]domain.Member, error) {
	var members []domain.Member
	err := r.db.WithContext(ctx).
		Where("club_id = ?", clubID).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) Update(ctx context.Context, member domain.Member) error {
	return r.db.WithContext(ctx).Save(&member).Error
}

func (r *repository) BindExternalID(ctx context.Context, id snowflake.ID, externalID string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("id = ? AND external_id IS NULL", id).
		Update("external_id", externalID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repository) Count(ctx context.Context, clubID snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("club_id = ?", clubID).
		Count(&count).Error
	return count, err
}
