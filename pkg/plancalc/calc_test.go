package plancalc

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernpay/cashier/pkg/types"
)

func dayPlan(id string, price int64) *types.Plan {
	return &types.Plan{
		ID:            id,
		Name:          id,
		Price:         decimal.NewFromInt(price),
		Currency:      "USD",
		Interval:      types.PlanIntervalDay,
		IntervalCount: 30,
	}
}

func TestCalcChangePlan_UpgradeMidPeriod(t *testing.T) {
	// $10/30d, 15 days used, switching to $20/30d: half the old price is
	// credited, $15 is due, and $15 at $20/30d buys 22.5 days.
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := dayPlan("basic", 10)
	target := dayPlan("pro", 20)
	periodEndsAt := now.Add(15 * 24 * time.Hour)

	quote, err := CalcChangePlan(periodEndsAt, current, target, now)
	require.NoError(t, err)

	assert.True(t, quote.Credit.Equal(decimal.NewFromInt(5)), "credit = %s", quote.Credit)
	assert.True(t, quote.Amount.Equal(decimal.NewFromInt(15)), "amount = %s", quote.Amount)
	assert.WithinDuration(t, now.Add(time.Duration(22.5*24)*time.Hour), quote.EndsAt, time.Minute)
}

func TestCalcChangePlan_DowngradeFullCredit(t *testing.T) {
	// $20/30d with 15 days left is worth $10, which fully covers a $10/30d
	// plan: nothing due, and the surplus-free credit buys a full 30 days.
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := dayPlan("pro", 20)
	target := dayPlan("basic", 10)
	periodEndsAt := now.Add(15 * 24 * time.Hour)

	quote, err := CalcChangePlan(periodEndsAt, current, target, now)
	require.NoError(t, err)

	assert.True(t, quote.Amount.IsZero(), "amount = %s", quote.Amount)
	assert.True(t, quote.Credit.Equal(decimal.NewFromInt(10)), "credit = %s", quote.Credit)
	assert.WithinDuration(t, now.Add(30*24*time.Hour), quote.EndsAt, time.Minute)
}

func TestCalcChangePlan_ExpiredPeriodNoCredit(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := dayPlan("basic", 10)
	target := dayPlan("pro", 20)
	periodEndsAt := now.Add(-24 * time.Hour)

	quote, err := CalcChangePlan(periodEndsAt, current, target, now)
	require.NoError(t, err)

	assert.True(t, quote.Credit.IsZero())
	assert.True(t, quote.Amount.Equal(target.Price))
	assert.WithinDuration(t, target.PeriodEnd(now), quote.EndsAt, time.Minute)
}

func TestCalcChangePlan_FreeTarget(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := dayPlan("basic", 10)
	target := dayPlan("free", 0)
	periodEndsAt := now.Add(15 * 24 * time.Hour)

	quote, err := CalcChangePlan(periodEndsAt, current, target, now)
	require.NoError(t, err)

	assert.True(t, quote.Amount.IsZero())
	assert.WithinDuration(t, target.PeriodEnd(now), quote.EndsAt, time.Minute)
}

func TestCalcChangePlan_IncompatibleIntervals(t *testing.T) {
	now := time.Now()
	current := dayPlan("basic", 10)
	target := &types.Plan{
		ID:            "monthly",
		Price:         decimal.NewFromInt(20),
		Currency:      "USD",
		Interval:      types.PlanIntervalMonth,
		IntervalCount: 1,
	}

	_, err := CalcChangePlan(now.Add(15*24*time.Hour), current, target, now)
	require.ErrorIs(t, err, ErrIncompatiblePlan)
}

func TestCalcChangePlan_NilPlan(t *testing.T) {
	now := time.Now()
	_, err := CalcChangePlan(now, nil, dayPlan("pro", 20), now)
	require.Error(t, err)
	_, err = CalcChangePlan(now, dayPlan("basic", 10), nil, now)
	require.Error(t, err)
}

func TestCalcChangePlan_AmountBoundsAndMonotonicity(t *testing.T) {
	// As the current period is consumed the credit shrinks, so the amount due
	// never decreases and always stays within [0, target price].
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	current := dayPlan("basic", 10)
	target := dayPlan("pro", 20)
	periodEndsAt := start.Add(30 * 24 * time.Hour)

	prev := decimal.NewFromInt(-1)
	for elapsed := 0; elapsed <= 30; elapsed++ {
		now := start.Add(time.Duration(elapsed) * 24 * time.Hour)
		quote, err := CalcChangePlan(periodEndsAt, current, target, now)
		require.NoError(t, err)

		assert.False(t, quote.Amount.IsNegative(), "day %d: amount = %s", elapsed, quote.Amount)
		assert.True(t, quote.Amount.LessThanOrEqual(target.Price), "day %d: amount = %s", elapsed, quote.Amount)
		assert.True(t, quote.Amount.GreaterThanOrEqual(prev), "day %d: amount %s < previous %s", elapsed, quote.Amount, prev)
		prev = quote.Amount
	}
}

func TestCalcChangePlan_EndOfPeriodCostsFullPrice(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	current := dayPlan("basic", 10)
	target := dayPlan("pro", 20)
	periodEndsAt := start.Add(30 * 24 * time.Hour)

	quote, err := CalcChangePlan(periodEndsAt, current, target, periodEndsAt)
	require.NoError(t, err)
	assert.True(t, quote.Amount.Equal(target.Price))
	assert.True(t, quote.Credit.IsZero())
}
