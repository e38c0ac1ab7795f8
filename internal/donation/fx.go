package donation

import (
	"github.com/clubkosh/clubkosh/internal/donation/repository"
	"github.com/clubkosh/clubkosh/internal/donation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("donation.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
