package repository

import (
	"context"
	"errors"

	"github.com/clubkosh/clubkosh/internal/club/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, club domain.Club) error {
	return r.db.WithContext(ctx).Create(&club).Error
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*domain.Club, error) {
	var club domain.Club
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&club).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &club, nil
}

func (r *repository) GetDefault(ctx context.Context) (*domain.Club, error) {
	var club domain.Club
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&club).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &club, nil
}
