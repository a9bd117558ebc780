package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fernpay/cashier/pkg/types"
)

type PaymentNotificationLogStatus string

const (
	PaymentNotificationLogStatusReceived     PaymentNotificationLogStatus = "received"
	PaymentNotificationLogStatusHandled      PaymentNotificationLogStatus = "handled"
	PaymentNotificationLogStatusHandleFailed PaymentNotificationLogStatus = "handle_failed"
)

// PaymentNotificationLog records every out-of-band gateway notification before
// it is replayed through reconciliation. Notifications are never applied
// blindly; they only trigger a sync against the gateway.
type PaymentNotificationLog struct {
	ID               string                       `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Gateway          types.GatewayKind            `gorm:"column:gateway;type:varchar(64);not null" json:"gateway"`
	SubscriptionID   *string                      `gorm:"column:subscription_id;type:uuid" json:"subscription_id"`
	TraceID          string                       `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	GatewayRef       string                       `gorm:"column:gateway_ref;type:varchar(128)" json:"gateway_ref"`
	NotificationTime time.Time                    `gorm:"column:notification_time" json:"notification_time"`
	Data             datatypes.JSON               `gorm:"column:data;type:jsonb" json:"data"`
	Result           *datatypes.JSON              `gorm:"column:result;type:jsonb" json:"result"`
	Status           PaymentNotificationLogStatus `gorm:"column:status;type:varchar(64);not null" json:"status"`
	CreatedAt        time.Time                    `json:"created_at"`
	UpdatedAt        time.Time                    `json:"updated_at"`
}

func (PaymentNotificationLog) TableName() string { return "payment_notification_log" }
