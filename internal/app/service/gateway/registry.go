package gateway

import (
	"fmt"

	"github.com/fernpay/cashier/pkg/config"
	"github.com/fernpay/cashier/pkg/types"
)

// Registry maps gateway kinds to their implementations. It is resolved once at
// construction from the configured enabled list; call sites never dispatch on
// strings.
type Registry struct {
	gateways map[types.GatewayKind]Gateway
}

func NewRegistry(cfg *config.Config, card *CardGateway, direct *DirectGateway) (*Registry, error) {
	all := map[types.GatewayKind]Gateway{
		types.GatewayKindCard:   card,
		types.GatewayKindDirect: direct,
	}
	r := &Registry{gateways: map[types.GatewayKind]Gateway{}}
	for _, kind := range cfg.Gateway.Enabled {
		g, ok := all[kind]
		if !ok {
			return nil, fmt.Errorf("%s: %w", kind, ErrUnknownGateway)
		}
		r.gateways[kind] = g
	}
	return r, nil
}

// Get returns the enabled gateway of the given kind.
func (r *Registry) Get(kind types.GatewayKind) (Gateway, error) {
	g, ok := r.gateways[kind]
	if !ok {
		return nil, fmt.Errorf("%s: %w", kind, ErrUnknownGateway)
	}
	return g, nil
}

// Claimable returns the gateway as a Claimable, or ErrUnsupported.
func (r *Registry) Claimable(kind types.GatewayKind) (Claimable, error) {
	g, err := r.Get(kind)
	if err != nil {
		return nil, err
	}
	c, ok := g.(Claimable)
	if !ok {
		return nil, fmt.Errorf("%s does not support claims: %w", kind, ErrUnsupported)
	}
	return c, nil
}

// CardManager returns the gateway as a CardManager, or ErrUnsupported.
func (r *Registry) CardManager(kind types.GatewayKind) (CardManager, error) {
	g, err := r.Get(kind)
	if err != nil {
		return nil, err
	}
	c, ok := g.(CardManager)
	if !ok {
		return nil, fmt.Errorf("%s does not manage cards: %w", kind, ErrUnsupported)
	}
	return c, nil
}
