package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/fernpay/cashier/pkg/types"
)

func TestMarkClaimedAndClearClaim_RoundTrip(t *testing.T) {
	txn := &SubscriptionTransaction{Status: types.TransactionStatusPending}
	require.False(t, txn.IsClaimed())

	now := time.Now()
	require.True(t, txn.MarkClaimed(now))
	require.True(t, txn.IsClaimed())
	assert.True(t, now.Equal(*txn.ClaimedAt))

	// a second claim is a no-op and keeps the original timestamp
	require.False(t, txn.MarkClaimed(now.Add(time.Hour)))
	assert.True(t, now.Equal(*txn.ClaimedAt))

	require.True(t, txn.ClearClaim())
	require.False(t, txn.IsClaimed())
	require.False(t, txn.ClearClaim())

	// claim -> unclaim -> claim lands in the same state as a single claim
	require.True(t, txn.MarkClaimed(now))
	assert.True(t, now.Equal(*txn.ClaimedAt))
}

func TestApplyTo_CopiesSnapshotAndActivates(t *testing.T) {
	endsAt := time.Now().Add(30 * 24 * time.Hour)
	txn := &SubscriptionTransaction{
		Type:                types.TransactionTypeRenew,
		Status:              types.TransactionStatusSuccess,
		EndsAt:              &endsAt,
		CurrentPeriodEndsAt: &endsAt,
	}
	sub := &Subscription{PlanID: "basic", Status: types.SubscriptionStatusPending}

	txn.ApplyTo(sub)

	assert.Equal(t, types.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, &endsAt, sub.EndsAt)
	assert.Equal(t, &endsAt, sub.CurrentPeriodEndsAt)
	assert.Equal(t, "basic", sub.PlanID, "non plan-change settlement keeps the plan")
}

func TestApplyTo_PlanChangeMovesToTargetPlan(t *testing.T) {
	endsAt := time.Now().Add(20 * 24 * time.Hour)
	txn := &SubscriptionTransaction{
		Type:                types.TransactionTypePlanChange,
		Status:              types.TransactionStatusSuccess,
		Amount:              decimal.NewFromInt(15),
		EndsAt:              &endsAt,
		CurrentPeriodEndsAt: &endsAt,
		Payload: datatypes.NewJSONType(&TransactionPayload{
			PlanChange: &PlanChangePayload{FromPlanID: "basic", TargetPlanID: "pro"},
		}),
	}
	sub := &Subscription{PlanID: "basic", Status: types.SubscriptionStatusActive}

	require.Equal(t, "pro", txn.TargetPlanID())
	txn.ApplyTo(sub)

	assert.Equal(t, "pro", sub.PlanID)
	assert.Equal(t, types.SubscriptionStatusActive, sub.Status)
}

func TestTargetPlanID_NonPlanChange(t *testing.T) {
	txn := &SubscriptionTransaction{
		Type:    types.TransactionTypeInitial,
		Payload: datatypes.NewJSONType(&TransactionPayload{Initial: &InitialPayload{PlanID: "basic"}}),
	}
	assert.Equal(t, "", txn.TargetPlanID())

	var nilTxn *SubscriptionTransaction
	assert.Equal(t, "", nilTxn.TargetPlanID())
}

func TestTransactionStatusHelpers_NilSafe(t *testing.T) {
	var txn *SubscriptionTransaction
	assert.False(t, txn.IsPending())
	assert.False(t, txn.IsSuccess())
	assert.False(t, txn.IsFailed())
	assert.False(t, txn.IsClaimed())
}
