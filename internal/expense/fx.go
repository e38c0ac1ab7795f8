package expense

import (
	"github.com/clubkosh/clubkosh/internal/expense/repository"
	"github.com/clubkosh/clubkosh/internal/expense/service"
	"go.uber.org/fx"
)

var Module = fx.Module("expense.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
