package summary

import (
	"github.com/clubkosh/clubkosh/internal/summary/service"
	"go.uber.org/fx"
)

var Module = fx.Module("summary.service",
	fx.Provide(service.NewService),
)
