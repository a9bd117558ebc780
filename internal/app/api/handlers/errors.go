package handlers

import (
	"errors"

	"github.com/fernpay/cashier/internal/app/service/gateway"
	subsvc "github.com/fernpay/cashier/internal/app/service/subscription"
	"github.com/fernpay/cashier/internal/platform/cardvault"
	"github.com/fernpay/cashier/pkg/plancalc"
	"github.com/fernpay/cashier/pkg/response"
)

// errCode maps service errors to envelope codes. Unknown errors stay generic
// so internals never leak verbatim classifications.
func errCode(err error) response.APIResponseCode {
	switch {
	case errors.Is(err, subsvc.ErrNotFound):
		return response.APIResponseCodeNotFound
	case errors.Is(err, subsvc.ErrPendingConflict),
		errors.Is(err, subsvc.ErrConcurrentModification):
		return response.APIResponseCodeConflict
	case errors.Is(err, subsvc.ErrInvalidState),
		errors.Is(err, plancalc.ErrIncompatiblePlan),
		errors.Is(err, gateway.ErrUnknownGateway),
		errors.Is(err, gateway.ErrUnsupported):
		return response.APIResponseCodeBadRequest
	case errors.Is(err, gateway.ErrPaymentDeclined),
		errors.Is(err, cardvault.ErrNoCard):
		return response.APIResponseCodePaymentDeclined
	case errors.Is(err, gateway.ErrGatewayUnavailable):
		return response.APIResponseCodeGatewayUnavailable
	default:
		return response.APIResponseCodeError
	}
}
