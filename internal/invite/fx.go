package invite

import (
	"github.com/clubkosh/clubkosh/internal/invite/repository"
	"github.com/clubkosh/clubkosh/internal/invite/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invite.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
