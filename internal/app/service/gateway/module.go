package gateway

import "go.uber.org/fx"

// Module exposes the gateway adapters and their registry via Fx.
var Module = fx.Options(
	fx.Provide(NewCardGateway),
	fx.Provide(NewDirectGateway),
	fx.Provide(NewRegistry),
)
