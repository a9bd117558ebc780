package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fernpay/cashier/pkg/types"
)

// TransactionLog records status transitions of ledger entries (pending to
// success, claim, unclaim). Use case: troubleshooting settlement disputes.
type TransactionLog struct {
	ID             string `gorm:"column:id;primary_key;type:uuid;index:idx_txlog_sub_id,priority:2,sort:desc"`
	SubscriptionID string `gorm:"column:subscription_id;type:uuid;index:idx_txlog_sub_id,priority:1;not null"`
	TransactionID  string `gorm:"column:transaction_id;type:uuid;not null"`
	// Reason is the event that caused the transition.
	Reason types.SubscriptionLogType `gorm:"column:reason;type:varchar(64);not null"`
	// Before stores the ledger entry before the change in JSON format.
	Before datatypes.JSONType[*SubscriptionTransaction] `gorm:"column:before;type:jsonb;default:'null'"`
	// After stores the ledger entry after the change in JSON format.
	After     datatypes.JSONType[*SubscriptionTransaction] `gorm:"column:after;type:jsonb;default:'null'"`
	CreatedAt time.Time                                    `json:"created_at"`
}

func (TransactionLog) TableName() string {
	return "transaction_log"
}
