package models

import (
	"time"

	"github.com/fernpay/cashier/pkg/types"
)

// SubscriptionDailySnapshot is a daily per-subscription state snapshot for analytics.
type SubscriptionDailySnapshot struct {
	ID             string                   `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SubscriptionID string                   `gorm:"column:subscription_id;type:uuid;not null;uniqueIndex:idx_subscription_snapshot_date,priority:1" json:"subscription_id"`
	UserID         string                   `gorm:"column:user_id;type:varchar(64);not null" json:"user_id"`
	PlanID         string                   `gorm:"column:plan_id;type:varchar(64);not null" json:"plan_id"`
	Status         types.SubscriptionStatus `gorm:"column:status;type:varchar(64);not null" json:"status"`
	// EndsAt is the subscription end time at snapshot time.
	EndsAt *time.Time `gorm:"column:ends_at;default:null" json:"ends_at"`
	// CurrentPeriodEndsAt is the settled period end at snapshot time.
	CurrentPeriodEndsAt *time.Time `gorm:"column:current_period_ends_at;default:null" json:"current_period_ends_at"`
	SnapshotDate        string     `gorm:"column:snapshot_date;uniqueIndex:idx_subscription_snapshot_date,priority:2" json:"snapshot_date"`
	SnapshotCreatedAt   time.Time  `gorm:"column:snapshot_created_at" json:"snapshot_created_at"`
}

func (SubscriptionDailySnapshot) TableName() string {
	return "subscription_daily_snapshot"
}
