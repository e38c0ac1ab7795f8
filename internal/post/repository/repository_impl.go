package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/clubkosh/clubkosh/internal/post/domain"
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

func (r *repository) Create(ctx context.Context, post domain.Post) error {
	return r.db.WithContext(ctx).Create(&post).Error
}

func (r *repository) GetByID(ctx context.Context, clubID, id snowflake.ID) (*domain.Post, error) {
	var post domain.Post
	err := r.db.WithContext(ctx).
		Where("club_id = ? AND id = ?", clubID, id).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *repository) Update(ctx context.Context, post domain.Post) error {
	return r.db.WithContext(ctx).Save(&post).Error
}

func (r *repository) Delete(ctx context.Context, clubID, id snowflake.ID) error {
	result := r.db.WithContext(ctx).
		Where("club_id = ? AND id = ?", clubID, id).
		Delete(&domain.Post{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, q domain.ListQuery) ([]domain.Post, error) {
	tx := r.db.WithContext(ctx).Where("club_id = ?", q.ClubID)
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	if q.VisibleTo != nil {
		tx = tx.Where("status = ? OR author_id = ?", "published", *q.VisibleTo)
	}

	var posts []domain.Post
	err := tx.Order("created_at DESC").Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}
