package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/fernpay/cashier/pkg/types"
)

// InitialPayload is carried by the first settlement of a subscription.
type InitialPayload struct {
	PlanID string `json:"plan_id"`
}

// RenewPayload is carried by a period renewal.
type RenewPayload struct {
	PlanID string `json:"plan_id"`
}

// PlanChangePayload is carried by a mid-cycle plan change. TargetPlanID makes
// the effect replayable without any external state.
type PlanChangePayload struct {
	FromPlanID   string `json:"from_plan_id"`
	TargetPlanID string `json:"target_plan_id"`
}

// TransactionPayload is a tagged union over transaction types: exactly one
// field is set, matching SubscriptionTransaction.Type.
type TransactionPayload struct {
	Initial    *InitialPayload    `json:"initial,omitempty"`
	Renew      *RenewPayload      `json:"renew,omitempty"`
	PlanChange *PlanChangePayload `json:"plan_change,omitempty"`
}

// SubscriptionTransaction is one entry of the append-only billing ledger.
// EndsAt/CurrentPeriodEndsAt snapshot the subscription state this transaction
// produces once settled; entries are never deleted.
type SubscriptionTransaction struct {
	ID             string                  `gorm:"column:id;type:uuid;primary_key;index:idx_subscription_id_id,priority:2,sort:desc" json:"id"`
	SubscriptionID string                  `gorm:"column:subscription_id;type:uuid;not null;index:idx_subscription_id_id,priority:1" json:"subscription_id"`
	Type           types.TransactionType   `gorm:"column:type;type:varchar(64);not null" json:"type"`
	Status         types.TransactionStatus `gorm:"column:status;type:varchar(64);not null" json:"status"`
	Amount         decimal.Decimal         `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	Currency       string                  `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
	Title          string                  `gorm:"column:title;type:varchar(255)" json:"title"`
	Description    string                  `gorm:"column:description;type:varchar(255)" json:"description"`
	// EndsAt/CurrentPeriodEndsAt are the subscription fields to apply on settlement.
	EndsAt              *time.Time `gorm:"column:ends_at;default:null" json:"ends_at"`
	CurrentPeriodEndsAt *time.Time `gorm:"column:current_period_ends_at;default:null" json:"current_period_ends_at"`
	// ClaimedAt is set when an out-of-band payment was reported for this
	// transaction; nil until claimed and after an unclaim.
	ClaimedAt *time.Time `gorm:"column:claimed_at;default:null" json:"claimed_at"`
	// GatewayRef is the remote settlement reference, when one exists.
	GatewayRef *string `gorm:"column:gateway_ref;type:varchar(128);default:null" json:"gateway_ref"`

	Payload   datatypes.JSONType[*TransactionPayload] `gorm:"column:payload;type:jsonb;default:'{}'" json:"payload"`
	CreatedAt time.Time                               `json:"created_at"`
	UpdatedAt time.Time                               `json:"updated_at"`
}

func (SubscriptionTransaction) TableName() string {
	return "subscription_transaction"
}

func (t *SubscriptionTransaction) IsPending() bool {
	return t != nil && t.Status == types.TransactionStatusPending
}

func (t *SubscriptionTransaction) IsSuccess() bool {
	return t != nil && t.Status == types.TransactionStatusSuccess
}

func (t *SubscriptionTransaction) IsFailed() bool {
	return t != nil && t.Status == types.TransactionStatusFailed
}

func (t *SubscriptionTransaction) IsClaimed() bool {
	return t != nil && t.ClaimedAt != nil
}

// TargetPlanID returns the plan this transaction switches to, or "" when it is
// not a plan change.
func (t *SubscriptionTransaction) TargetPlanID() string {
	if t == nil {
		return ""
	}
	if p := t.Payload.Data(); p != nil && p.PlanChange != nil {
		return p.PlanChange.TargetPlanID
	}
	return ""
}

// MarkClaimed records an out-of-band payment claim. Returns false when the
// transaction was already claimed (idempotent no-op).
func (t *SubscriptionTransaction) MarkClaimed(at time.Time) bool {
	if t.ClaimedAt != nil {
		return false
	}
	t.ClaimedAt = &at
	return true
}

// ClearClaim reverses a claim. Returns false when there was nothing to reverse.
func (t *SubscriptionTransaction) ClearClaim() bool {
	if t.ClaimedAt == nil {
		return false
	}
	t.ClaimedAt = nil
	return true
}

// ApplyTo copies the transaction's snapshot fields onto the subscription and
// activates it. Plan changes also move the subscription to the target plan.
func (t *SubscriptionTransaction) ApplyTo(s *Subscription) {
	s.Status = types.SubscriptionStatusActive
	s.EndsAt = t.EndsAt
	s.CurrentPeriodEndsAt = t.CurrentPeriodEndsAt
	if target := t.TargetPlanID(); target != "" {
		s.PlanID = target
	}
}
