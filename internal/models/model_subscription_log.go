package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fernpay/cashier/pkg/types"
)

// SubscriptionLog records user-facing subscription history events.
// Use case: audit trail and troubleshooting; write-only from the billing core.
type SubscriptionLog struct {
	ID             string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SubscriptionID string `gorm:"column:subscription_id;type:uuid;index:idx_sub_log_subscription_id;not null" json:"subscription_id"`
	// Type is the event kind (renew, plan_change, claimed, cancelled_now, ...).
	Type types.SubscriptionLogType `gorm:"column:type;type:varchar(64);not null" json:"type"`
	// Data stores event context such as plan names and amounts.
	Data      datatypes.JSONMap `gorm:"column:data;type:jsonb;default:'{}'" json:"data"`
	CreatedAt time.Time         `json:"created_at"`
}

func (SubscriptionLog) TableName() string {
	return "subscription_log"
}
