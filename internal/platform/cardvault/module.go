package cardvault

import (
	"go.uber.org/fx"

	"github.com/fernpay/cashier/pkg/config"
)

func NewVault(cfg *config.Config) Vault {
	return NewSandbox(cfg.Gateway.Card.TokenSigningKey)
}

// Module provides the Vault implementation via Fx.
var Module = fx.Options(
	fx.Provide(NewVault),
)
