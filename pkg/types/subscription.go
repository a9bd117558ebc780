package types

type SubscriptionStatus string

const (
	SubscriptionStatusNew     SubscriptionStatus = "new"
	SubscriptionStatusActive  SubscriptionStatus = "active"
	SubscriptionStatusPending SubscriptionStatus = "pending"
	SubscriptionStatusEnded   SubscriptionStatus = "ended"
)

type TransactionType string

const (
	TransactionTypeInitial    TransactionType = "initial"
	TransactionTypeRenew      TransactionType = "renew"
	TransactionTypePlanChange TransactionType = "plan_change"
)

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

type SubscriptionLogType string

const (
	SubscriptionLogTypeSubscribed   SubscriptionLogType = "subscribed"
	SubscriptionLogTypeRenew        SubscriptionLogType = "renew"
	SubscriptionLogTypePlanChange   SubscriptionLogType = "plan_change"
	SubscriptionLogTypeClaimed      SubscriptionLogType = "claimed"
	SubscriptionLogTypeUnclaimed    SubscriptionLogType = "unclaimed"
	SubscriptionLogTypeCancelledNow SubscriptionLogType = "cancelled_now"
)

// GatewayKind identifies a settlement implementation in the gateway registry.
type GatewayKind string

const (
	// GatewayKindCard charges a stored payment method synchronously.
	GatewayKindCard GatewayKind = "card"
	// GatewayKindDirect waits for an out-of-band payment claim.
	GatewayKindDirect GatewayKind = "direct"
)
