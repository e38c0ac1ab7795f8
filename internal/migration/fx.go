package migration

import (
	"github.com/clubkosh/clubkosh/internal/config"
	clubdomain "github.com/clubkosh/clubkosh/internal/club/domain"
	donationdomain "github.com/clubkosh/clubkosh/internal/donation/domain"
	eventdomain "github.com/clubkosh/clubkosh/internal/event/domain"
	expensedomain "github.com/clubkosh/clubkosh/internal/expense/domain"
	invitedomain "github.com/clubkosh/clubkosh/internal/invite/domain"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
	postdomain "github.com/clubkosh/clubkosh/internal/post/domain"
	"github.com/clubkosh/clubkosh/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Versioned SQL covers postgres; other dialects are for local
			// and test use where schema sync is enough.
			if err := conn.AutoMigrate(
				&clubdomain.Club{},
				&memberdomain.Member{},
				&invitedomain.Invitation{},
				&eventdomain.Event{},
				&donationdomain.Donation{},
				&expensedomain.Expense{},
				&postdomain.Post{},
			); err != nil {
				return err
			}
		}

		if err := seed.EnsureDefaultClub(conn, cfg); err != nil {
			return err
		}
		if cfg.BootstrapAdminEmail != "" {
			return seed.EnsureBootstrapAdmin(conn, cfg)
		}
		return nil
	}),
)
