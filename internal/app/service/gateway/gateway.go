// Package gateway holds the settlement implementations behind one shared
// interface. Each adapter produces identical effects on the subscription and
// its ledger; only how the money moves differs.
package gateway

import (
	"context"
	"errors"

	"github.com/fernpay/cashier/internal/models"
	"github.com/fernpay/cashier/internal/platform/cardvault"
	"github.com/fernpay/cashier/pkg/types"
)

var (
	// ErrPaymentDeclined is terminal for this attempt; the subscription keeps
	// its pre-attempt state.
	ErrPaymentDeclined = errors.New("gateway: payment declined")
	// ErrGatewayUnavailable is transient; a retry with the same idempotency key
	// cannot double-charge.
	ErrGatewayUnavailable = errors.New("gateway: unavailable")
	// ErrUnknownGateway means the requested kind is not in the registry.
	ErrUnknownGateway = errors.New("gateway: unknown gateway")
	// ErrUnsupported means the gateway does not implement the requested
	// capability (e.g. claiming on the card gateway).
	ErrUnsupported = errors.New("gateway: operation not supported")
)

// CheckoutResult is the outcome of a billing action: the subscription as it
// stands afterwards and the ledger entry the action appended.
type CheckoutResult struct {
	Subscription *models.Subscription            `json:"subscription"`
	Transaction  *models.SubscriptionTransaction `json:"transaction"`
}

// Gateway is the settlement contract every adapter implements.
type Gateway interface {
	Kind() types.GatewayKind

	// Checkout settles the first billing period of a NEW subscription.
	Checkout(ctx context.Context, subscriptionID string) (*CheckoutResult, error)
	// Renew extends the settled period by one plan interval.
	Renew(ctx context.Context, subscriptionID string) (*CheckoutResult, error)
	// ChangePlan switches plans mid-cycle with proration.
	ChangePlan(ctx context.Context, subscriptionID, targetPlanID string) (*CheckoutResult, error)
	// HasPending reports whether an unresolved ledger entry blocks new actions.
	HasPending(ctx context.Context, subscriptionID string) (bool, error)
	// LastTransaction returns the most recent ledger entry, or nil.
	LastTransaction(ctx context.Context, subscriptionID string) (*models.SubscriptionTransaction, error)
	// Sync reconciles local pending state against the gateway. Idempotent;
	// never regresses a settled entry.
	Sync(ctx context.Context, subscriptionID string) (*models.Subscription, error)
	// CancelNow ends the subscription immediately. Not a billing event: one
	// log entry, no ledger entry.
	CancelNow(ctx context.Context, subscriptionID string) (*models.Subscription, error)
}

// Claimable is the capability set of gateways whose payments arrive
// out-of-band and are confirmed by an external authority.
type Claimable interface {
	// Claim marks a pending entry's payment as received. Idempotent.
	Claim(ctx context.Context, subscriptionID, transactionID string) (*models.SubscriptionTransaction, error)
	// Unclaim reverses a claim prior to approval. Idempotent.
	Unclaim(ctx context.Context, subscriptionID, transactionID string) (*models.SubscriptionTransaction, error)
	// ApprovePending finalizes the pending entry: SUCCESS, snapshot applied,
	// subscription ACTIVE.
	ApprovePending(ctx context.Context, subscriptionID string) (*CheckoutResult, error)
}

// CardManager is the capability set of gateways with a stored payment method.
type CardManager interface {
	// ClientToken issues a short-lived token for checkout pages.
	ClientToken(ctx context.Context, subscriptionID string) (string, error)
	// UpdateCard replaces the stored payment method. Vault side effect only,
	// no ledger entry.
	UpdateCard(ctx context.Context, subscriptionID, nonce string) error
	// CardInformation returns the stored payment method.
	CardInformation(ctx context.Context, subscriptionID string) (*cardvault.Card, error)
	// FixPayment re-drives an unresolved settlement with its original
	// idempotency key and applies the snapshot on success.
	FixPayment(ctx context.Context, subscriptionID string) (*CheckoutResult, error)
}

// logTypeFor maps a transaction type to the history event its settlement emits.
func logTypeFor(t types.TransactionType) types.SubscriptionLogType {
	switch t {
	case types.TransactionTypeRenew:
		return types.SubscriptionLogTypeRenew
	case types.TransactionTypePlanChange:
		return types.SubscriptionLogTypePlanChange
	default:
		return types.SubscriptionLogTypeSubscribed
	}
}
