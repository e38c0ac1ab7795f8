package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	clubdomain "github.com/clubkosh/clubkosh/internal/club/domain"
	"github.com/clubkosh/clubkosh/internal/config"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnsureDefaultClub seeds the club row on first startup so the app is usable
// out of the box.
func EnsureDefaultClub(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ensureClubTx(ctx, tx, node, cfg.ClubName)
		return err
	})
}

// EnsureBootstrapAdmin seeds an unbound admin profile for the configured
// email. The profile binds to its identity on first sign-in.
func EnsureBootstrapAdmin(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if cfg.BootstrapAdminEmail == "" {
		return nil
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		club, err := ensureClubTx(ctx, tx, node, cfg.ClubName)
		if err != nil {
			return err
		}

		var member memberdomain.Member
		err = tx.WithContext(ctx).
			Where("club_id = ? AND email = ?", club.ID, cfg.BootstrapAdminEmail).
			First(&member).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now().UTC()
		member = memberdomain.Member{
			ID:        node.Generate(),
			ClubID:    club.ID,
			Email:     cfg.BootstrapAdminEmail,
			Role:      memberdomain.RoleAdmin,
			Active:    true,
			JoinedAt:  now,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.WithContext(ctx).Create(&member).Error
	})
}

func ensureClubTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, name string) (*clubdomain.Club, error) {
	if name == "" {
		name = "clubkosh"
	}

	var club clubdomain.Club
	err := tx.WithContext(ctx).Order("created_at ASC").First(&club).Error
	if err == nil {
		return &club, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	club = clubdomain.Club{
		ID:        node.Generate(),
		Name:      name,
		Slug:      slug.Make(name),
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&club).Error; err != nil {
		return nil, err
	}
	return &club, nil
}
