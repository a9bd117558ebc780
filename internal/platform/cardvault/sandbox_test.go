package cardvault

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSandboxCharge_Settles(t *testing.T) {
	ctx := context.Background()
	s := NewSandbox("test-key")

	require.NoError(t, s.UpdateCard(ctx, "user-1", "tok_4242424242"))

	charge, err := s.Charge(ctx, &ChargeRequest{
		UserID:         "user-1",
		Amount:         decimal.NewFromInt(10),
		Currency:       "USD",
		IdempotencyKey: "sub-1:txn-1",
	})
	require.NoError(t, err)
	require.NotNil(t, charge)
	assert.Equal(t, ChargeStatusSettled, charge.Status)
	assert.NotEmpty(t, charge.ID)

	found, err := s.FindCharge(ctx, "sub-1:txn-1")
	require.NoError(t, err)
	assert.Equal(t, charge.ID, found.ID)
}

func TestSandboxCharge_IdempotentByKey(t *testing.T) {
	ctx := context.Background()
	s := NewSandbox("test-key")
	require.NoError(t, s.UpdateCard(ctx, "user-1", "tok_4242424242"))

	first, err := s.Charge(ctx, &ChargeRequest{UserID: "user-1", Amount: decimal.NewFromInt(10), Currency: "USD", IdempotencyKey: "k"})
	require.NoError(t, err)
	second, err := s.Charge(ctx, &ChargeRequest{UserID: "user-1", Amount: decimal.NewFromInt(10), Currency: "USD", IdempotencyKey: "k"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same key must resolve to the original charge")
}

func TestSandboxCharge_DeclineNonce(t *testing.T) {
	ctx := context.Background()
	s := NewSandbox("test-key")
	require.NoError(t, s.UpdateCard(ctx, "user-1", "tok_decline_4000"))

	_, err := s.Charge(ctx, &ChargeRequest{UserID: "user-1", Amount: decimal.NewFromInt(10), Currency: "USD", IdempotencyKey: "k"})
	require.ErrorIs(t, err, ErrDeclined)

	// the declined charge is still on record for reconciliation
	found, err := s.FindCharge(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, ChargeStatusDeclined, found.Status)
}

func TestSandboxCharge_RetryAfterDeclineCollects(t *testing.T) {
	ctx := context.Background()
	s := NewSandbox("test-key")
	req := &ChargeRequest{UserID: "user-1", Amount: decimal.NewFromInt(10), Currency: "USD", IdempotencyKey: "k"}

	require.NoError(t, s.UpdateCard(ctx, "user-1", "tok_decline_4000"))
	_, err := s.Charge(ctx, req)
	require.ErrorIs(t, err, ErrDeclined)

	// a declined record must never be replayed as a success
	require.NoError(t, s.UpdateCard(ctx, "user-1", "tok_4242424242"))
	charge, err := s.Charge(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, ChargeStatusSettled, charge.Status)

	found, err := s.FindCharge(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, ChargeStatusSettled, found.Status)
	assert.Equal(t, charge.ID, found.ID)
}

func TestSandboxCharge_NoCard(t *testing.T) {
	s := NewSandbox("test-key")
	_, err := s.Charge(context.Background(), &ChargeRequest{UserID: "nobody", IdempotencyKey: "k"})
	require.ErrorIs(t, err, ErrNoCard)
}

func TestSandboxFindCharge_NotFound(t *testing.T) {
	s := NewSandbox("test-key")
	_, err := s.FindCharge(context.Background(), "missing")
	require.ErrorIs(t, err, ErrChargeNotFound)
}

func TestSandboxGetCard(t *testing.T) {
	ctx := context.Background()
	s := NewSandbox("test-key")

	_, err := s.GetCard(ctx, "user-1")
	require.ErrorIs(t, err, ErrNoCard)

	require.NoError(t, s.UpdateCard(ctx, "user-1", "tok_4242424242"))
	card, err := s.GetCard(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "visa", card.Brand)
	assert.Equal(t, "4242", card.Last4)
}

func TestSandboxGenerateClientToken(t *testing.T) {
	s := NewSandbox("test-key")
	token, err := s.GenerateClientToken(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Len(t, strings.Split(token, "."), 3, "expected a compact JWT")
}
