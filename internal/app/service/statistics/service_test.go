package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernpay/cashier/pkg/types"
)

func TestGetFilters_KeepsOnlyApplicableFilters(t *testing.T) {
	req := &BillingStatisticRequest{Filters: []*types.CommonFilter{
		{Field: "currency", Operator: types.CommonFilterOperatorEq, Values: []any{"USD"}},
		{Field: "plan_id", Operator: types.CommonFilterOperatorEq, Values: []any{"basic"}},
	}}

	// currency applies to revenue, plan_id does not
	got := req.GetFilters(StatisticTypeDailyRevenue)
	require.Len(t, got.Filters, 1)
	assert.Equal(t, "currency", got.Filters[0].Field)

	// plan_id applies to subscription counts, currency does not
	got = req.GetFilters(StatisticTypeDailySubscriptionCount)
	require.Len(t, got.Filters, 1)
	assert.Equal(t, "plan_id", got.Filters[0].Field)
}

func TestGetFilters_UnknownFieldPassesThrough(t *testing.T) {
	req := &BillingStatisticRequest{Filters: []*types.CommonFilter{
		{Field: "subscription_id", Operator: types.CommonFilterOperatorEq, Values: []any{"s-1"}},
	}}

	got := req.GetFilters(StatisticTypeDailyTransactionCount)
	require.Len(t, got.Filters, 1)
}

func TestGetFilters_NilAndEmpty(t *testing.T) {
	var nilReq *BillingStatisticRequest
	assert.Nil(t, nilReq.GetFilters(StatisticTypeDailyRevenue))

	empty := &BillingStatisticRequest{}
	assert.Equal(t, empty, empty.GetFilters(StatisticTypeDailyRevenue))
}
