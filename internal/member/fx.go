package member

import (
	"github.com/clubkosh/clubkosh/internal/member/repository"
	"github.com/clubkosh/clubkosh/internal/member/service"
	"go.uber.org/fx"
)

var Module = fx.Module("member.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
