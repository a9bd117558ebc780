package types

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPlanPeriodEnd(t *testing.T) {
	from := time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		plan Plan
		want time.Time
	}{
		{"30 days", Plan{Interval: PlanIntervalDay, IntervalCount: 30}, from.AddDate(0, 0, 30)},
		{"2 weeks", Plan{Interval: PlanIntervalWeek, IntervalCount: 2}, from.AddDate(0, 0, 14)},
		{"1 month", Plan{Interval: PlanIntervalMonth, IntervalCount: 1}, from.AddDate(0, 1, 0)},
		{"1 year", Plan{Interval: PlanIntervalYear, IntervalCount: 1}, from.AddDate(1, 0, 0)},
		{"unknown interval", Plan{Interval: "fortnight", IntervalCount: 1}, from},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.want.Equal(tc.plan.PeriodEnd(from)))
		})
	}
}

func TestPlanPeriodStart_InvertsPeriodEnd(t *testing.T) {
	from := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	plans := []Plan{
		{Interval: PlanIntervalDay, IntervalCount: 7},
		{Interval: PlanIntervalWeek, IntervalCount: 1},
		{Interval: PlanIntervalMonth, IntervalCount: 3},
		{Interval: PlanIntervalYear, IntervalCount: 1},
	}
	for _, p := range plans {
		end := p.PeriodEnd(from)
		assert.True(t, from.Equal(p.PeriodStart(end)), "%s x%d", p.Interval, p.IntervalCount)
	}
}

func TestPlanDailyRate(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	p := Plan{Price: decimal.NewFromInt(30), Interval: PlanIntervalDay, IntervalCount: 30}
	assert.True(t, p.DailyRate(from).Equal(decimal.NewFromInt(1)))

	zero := Plan{Price: decimal.NewFromInt(30), Interval: "bogus"}
	assert.True(t, zero.DailyRate(from).IsZero())
}

func TestPlanIsFree(t *testing.T) {
	assert.True(t, (&Plan{}).IsFree())
	assert.False(t, (&Plan{Price: decimal.NewFromInt(1)}).IsFree())
}

func TestPlanCompatibleWith(t *testing.T) {
	monthly := &Plan{Interval: PlanIntervalMonth, IntervalCount: 1}

	assert.True(t, monthly.CompatibleWith(&Plan{Interval: PlanIntervalMonth, IntervalCount: 1}))
	assert.False(t, monthly.CompatibleWith(&Plan{Interval: PlanIntervalMonth, IntervalCount: 3}))
	assert.False(t, monthly.CompatibleWith(&Plan{Interval: PlanIntervalYear, IntervalCount: 1}))
	assert.False(t, monthly.CompatibleWith(nil))
}
