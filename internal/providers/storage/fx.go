package storage

import (
	"github.com/clubkosh/clubkosh/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.storage",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) (Provider, error) {
	return NewLocal(cfg.ReceiptDir, cfg.ReceiptBaseURL)
}
