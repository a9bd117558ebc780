package models

import (
	"time"

	"github.com/fernpay/cashier/pkg/types"
)

// Subscription stores one user's subscription to a plan.
// Use Valid() to determine whether the subscription currently grants access.
type Subscription struct {
	ID     string                   `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID string                   `gorm:"column:user_id;type:varchar(64);not null;index" json:"user_id"`
	PlanID string                   `gorm:"column:plan_id;type:varchar(64);not null" json:"plan_id"`
	Status types.SubscriptionStatus `gorm:"column:status;type:varchar(64);not null" json:"status"`
	// EndsAt is the subscription end time; nil means non-expiring.
	EndsAt *time.Time `gorm:"column:ends_at;default:null" json:"ends_at"`
	// CurrentPeriodEndsAt is the end of the billing period already settled.
	CurrentPeriodEndsAt *time.Time `gorm:"column:current_period_ends_at;default:null" json:"current_period_ends_at"`
	// CreatedAt is managed by GORM and records the creation time.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is managed by GORM and records the update time.
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscription"
}

func (s *Subscription) IsNew() bool {
	return s != nil && s.Status == types.SubscriptionStatusNew
}

func (s *Subscription) IsActive() bool {
	return s != nil && s.Status == types.SubscriptionStatusActive
}

func (s *Subscription) IsPending() bool {
	return s != nil && s.Status == types.SubscriptionStatusPending
}

func (s *Subscription) IsEnded() bool {
	return s != nil && s.Status == types.SubscriptionStatusEnded
}

func (s *Subscription) Valid() bool {
	return s.IsActive() &&
		(s.EndsAt == nil || s.EndsAt.After(time.Now()))
}
