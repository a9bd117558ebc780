// Package cardvault is the boundary to the external card gateway SDK. The
// billing core depends only on the Vault capability set (charge, client token,
// lookup, stored card); the concrete SDK stays behind this interface.
package cardvault

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrDeclined is a terminal decline for this charge attempt.
	ErrDeclined = errors.New("cardvault: charge declined")
	// ErrUnavailable is a transient transport failure; a retry with the same
	// idempotency key is safe.
	ErrUnavailable = errors.New("cardvault: gateway unavailable")
	// ErrNoCard means no payment method is stored for the user.
	ErrNoCard = errors.New("cardvault: no card on file")
	// ErrChargeNotFound means no charge matches the given reference.
	ErrChargeNotFound = errors.New("cardvault: charge not found")
)

type ChargeStatus string

const (
	ChargeStatusSettled  ChargeStatus = "settled"
	ChargeStatusDeclined ChargeStatus = "declined"
)

// Card is the stored payment method as reported by the vault.
type Card struct {
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
}

type ChargeRequest struct {
	UserID      string
	Amount      decimal.Decimal
	Currency    string
	Description string
	// IdempotencyKey makes a retried request resolve to the original charge
	// instead of creating a second one.
	IdempotencyKey string
}

// Charge is the vault-side settlement record.
type Charge struct {
	ID             string          `json:"id"`
	IdempotencyKey string          `json:"idempotency_key"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Status         ChargeStatus    `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Vault is the capability set the billing core needs from a card gateway.
type Vault interface {
	// Charge executes an immediate charge against the user's stored card.
	Charge(ctx context.Context, req *ChargeRequest) (*Charge, error)
	// FindCharge looks a charge up by idempotency key.
	FindCharge(ctx context.Context, idempotencyKey string) (*Charge, error)
	// GenerateClientToken issues a short-lived token for checkout pages.
	GenerateClientToken(ctx context.Context, userID string) (string, error)
	// UpdateCard replaces the stored payment method from a tokenized nonce.
	UpdateCard(ctx context.Context, userID, nonce string) error
	// GetCard returns the stored payment method, or ErrNoCard.
	GetCard(ctx context.Context, userID string) (*Card, error)
}
