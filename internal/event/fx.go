package event

import (
	"github.com/clubkosh/clubkosh/internal/event/repository"
	"github.com/clubkosh/clubkosh/internal/event/service"
	"go.uber.org/fx"
)

var Module = fx.Module("event.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
