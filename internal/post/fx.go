package post

import (
	"github.com/clubkosh/clubkosh/internal/post/repository"
	"github.com/clubkosh/clubkosh/internal/post/service"
	"go.uber.org/fx"
)

var Module = fx.Module("post.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
