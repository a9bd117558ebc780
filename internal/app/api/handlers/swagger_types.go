package handlers

import (
	"github.com/fernpay/cashier/internal/app/service/gateway"
	"github.com/fernpay/cashier/internal/app/service/statistics"
	"github.com/fernpay/cashier/internal/models"
	"github.com/fernpay/cashier/internal/platform/cardvault"
	"github.com/fernpay/cashier/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespSubscription wraps a subscription in the standard envelope.
type RespSubscription struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Subscription      `json:"data"`
}

// RespTransaction wraps one ledger entry in the standard envelope.
type RespTransaction struct {
	Code    response.APIResponseCode       `json:"code"`
	Message string                         `json:"message"`
	Data    models.SubscriptionTransaction `json:"data"`
}

// RespTransactions wraps a ledger listing in the standard envelope.
type RespTransactions struct {
	Code    response.APIResponseCode          `json:"code"`
	Message string                            `json:"message"`
	Data    []*models.SubscriptionTransaction `json:"data"`
}

// RespSubscriptionLogs wraps a history listing in the standard envelope.
type RespSubscriptionLogs struct {
	Code    response.APIResponseCode  `json:"code"`
	Message string                    `json:"message"`
	Data    []*models.SubscriptionLog `json:"data"`
}

// RespCheckoutResult wraps a gateway action outcome in the standard envelope.
type RespCheckoutResult struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    gateway.CheckoutResult   `json:"data"`
}

// RespHasPending wraps the pending flag in the standard envelope.
type RespHasPending struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    HasPendingResponse       `json:"data"`
}

// RespClientToken wraps a vault client token in the standard envelope.
type RespClientToken struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ClientTokenResponse      `json:"data"`
}

// RespCard wraps the stored payment method in the standard envelope.
type RespCard struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    cardvault.Card           `json:"data"`
}

// RespListTransactions wraps ListTransactionsResponse in the standard envelope.
type RespListTransactions struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ListTransactionsResponse `json:"data"`
}

// RespListLogs wraps ListLogsResponse in the standard envelope.
type RespListLogs struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ListLogsResponse         `json:"data"`
}

// RespBillingStatistic wraps BillingStatisticResponse in the standard envelope.
type RespBillingStatistic struct {
	Code    response.APIResponseCode            `json:"code"`
	Message string                              `json:"message"`
	Data    statistics.BillingStatisticResponse `json:"data"`
}

// RespRunDailySnapshot wraps RunDailySnapshotResponse in the standard envelope.
type RespRunDailySnapshot struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    RunDailySnapshotResponse `json:"data"`
}
