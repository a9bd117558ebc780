package config

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernpay/cashier/pkg/types"
)

func TestDecimalDecodeHook(t *testing.T) {
	decType := reflect.TypeOf(decimal.Decimal{})
	strType := reflect.TypeOf("")

	tests := []struct {
		name string
		in   interface{}
		want decimal.Decimal
	}{
		{"string", "9.99", decimal.RequireFromString("9.99")},
		{"int", 10, decimal.NewFromInt(10)},
		{"int64", int64(10), decimal.NewFromInt(10)},
		{"float64", 9.99, decimal.NewFromFloat(9.99)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecimalDecodeHook(reflect.TypeOf(tc.in), decType, tc.in)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got.(decimal.Decimal)), "got %v", got)
		})
	}

	t.Run("non-decimal target passes through", func(t *testing.T) {
		got, err := DecimalDecodeHook(strType, strType, "9.99")
		require.NoError(t, err)
		assert.Equal(t, "9.99", got)
	})

	t.Run("bad string", func(t *testing.T) {
		_, err := DecimalDecodeHook(strType, decType, "not-a-number")
		require.Error(t, err)
	})
}

func TestGetPlanByID(t *testing.T) {
	cfg := &Config{Plans: []*types.Plan{
		{ID: "basic", Price: decimal.NewFromInt(10)},
		{ID: "pro", Price: decimal.NewFromInt(20)},
	}}

	p := cfg.GetPlanByID("pro")
	require.NotNil(t, p)
	assert.Equal(t, "pro", p.ID)

	assert.Nil(t, cfg.GetPlanByID("missing"))
}

func TestGatewayEnabled(t *testing.T) {
	cfg := &Config{Gateway: GatewayConfig{Enabled: []types.GatewayKind{types.GatewayKindCard}}}

	assert.True(t, cfg.GatewayEnabled(types.GatewayKindCard))
	assert.False(t, cfg.GatewayEnabled(types.GatewayKindDirect))
}
