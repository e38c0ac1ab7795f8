package payment

import (
	"github.com/clubkosh/clubkosh/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.payment",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) Provider {
	return NewStaticLink(cfg.PaymentPageURL)
}
