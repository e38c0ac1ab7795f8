package club

import (
	"github.com/clubkosh/clubkosh/internal/club/repository"
	"github.com/clubkosh/clubkosh/internal/club/service"
	"go.uber.org/fx"
)

var Module = fx.Module("club.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
