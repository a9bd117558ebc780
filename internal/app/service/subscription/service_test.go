package subscription

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fernpay/cashier/internal/models"
	"github.com/fernpay/cashier/pkg/config"
	"github.com/fernpay/cashier/pkg/types"
)

func newTestService(plans ...*types.Plan) *Service {
	return NewService(&config.Config{Plans: plans}, nil, zap.NewNop().Sugar())
}

func TestFindPlan(t *testing.T) {
	svc := newTestService(&types.Plan{ID: "basic", Price: decimal.NewFromInt(10)})

	p, err := svc.FindPlan("basic")
	require.NoError(t, err)
	assert.Equal(t, "basic", p.ID)

	_, err = svc.FindPlan("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPlanOf(t *testing.T) {
	svc := newTestService(&types.Plan{ID: "basic"})

	p, err := svc.PlanOf(&models.Subscription{PlanID: "basic"})
	require.NoError(t, err)
	assert.Equal(t, "basic", p.ID)

	_, err = svc.PlanOf(&models.Subscription{PlanID: "gone"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAcquire_SecondCallerLosesFast(t *testing.T) {
	svc := newTestService()

	release, err := svc.Acquire("sub-1")
	require.NoError(t, err)

	_, err = svc.Acquire("sub-1")
	require.ErrorIs(t, err, ErrConcurrentModification)

	// a different subscription is unaffected
	release2, err := svc.Acquire("sub-2")
	require.NoError(t, err)
	release2()

	release()
	release3, err := svc.Acquire("sub-1")
	require.NoError(t, err)
	release3()
}

func TestNextPeriod(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(10 * 24 * time.Hour)
	past := now.Add(-24 * time.Hour)
	plan := &types.Plan{Interval: types.PlanIntervalDay, IntervalCount: 30}
	svc := newTestService(plan)

	tests := []struct {
		name string
		sub  *models.Subscription
		want time.Time
	}{
		{
			"active extends from the settled period end",
			&models.Subscription{Status: types.SubscriptionStatusActive, CurrentPeriodEndsAt: &future},
			future.AddDate(0, 0, 30),
		},
		{
			"active with elapsed period starts fresh",
			&models.Subscription{Status: types.SubscriptionStatusActive, CurrentPeriodEndsAt: &past},
			now.AddDate(0, 0, 30),
		},
		{
			"active without a settled period starts fresh",
			&models.Subscription{Status: types.SubscriptionStatusActive},
			now.AddDate(0, 0, 30),
		},
		{
			"new starts fresh",
			&models.Subscription{Status: types.SubscriptionStatusNew, CurrentPeriodEndsAt: &future},
			now.AddDate(0, 0, 30),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := svc.NextPeriod(tc.sub, plan, now)
			assert.True(t, tc.want.Equal(got), "got %s", got)
		})
	}
}
