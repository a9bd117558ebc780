package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fernpay/cashier/internal/app/service/gateway"
	subsvc "github.com/fernpay/cashier/internal/app/service/subscription"
	"github.com/fernpay/cashier/internal/platform/cardvault"
	"github.com/fernpay/cashier/pkg/plancalc"
	"github.com/fernpay/cashier/pkg/response"
)

func TestErrCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want response.APIResponseCode
	}{
		{"not found", subsvc.ErrNotFound, response.APIResponseCodeNotFound},
		{"wrapped not found", fmt.Errorf("subscription x: %w", subsvc.ErrNotFound), response.APIResponseCodeNotFound},
		{"pending conflict", subsvc.ErrPendingConflict, response.APIResponseCodeConflict},
		{"concurrent modification", subsvc.ErrConcurrentModification, response.APIResponseCodeConflict},
		{"invalid state", subsvc.ErrInvalidState, response.APIResponseCodeBadRequest},
		{"incompatible plan", plancalc.ErrIncompatiblePlan, response.APIResponseCodeBadRequest},
		{"unknown gateway", gateway.ErrUnknownGateway, response.APIResponseCodeBadRequest},
		{"unsupported capability", gateway.ErrUnsupported, response.APIResponseCodeBadRequest},
		{"payment declined", gateway.ErrPaymentDeclined, response.APIResponseCodePaymentDeclined},
		{"no card on file", cardvault.ErrNoCard, response.APIResponseCodePaymentDeclined},
		{"gateway unavailable", gateway.ErrGatewayUnavailable, response.APIResponseCodeGatewayUnavailable},
		{"anything else", errors.New("boom"), response.APIResponseCodeError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errCode(tc.err))
		})
	}
}
