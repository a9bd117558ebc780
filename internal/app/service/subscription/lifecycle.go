package subscription

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fernpay/cashier/internal/models"
	"github.com/fernpay/cashier/pkg/types"
)

// NextPeriod returns the period boundaries a settlement of plan would produce.
// An active subscription extends from its settled period end; anything else
// starts a fresh period at now.
func (s *Service) NextPeriod(sub *models.Subscription, plan *types.Plan, now time.Time) (endsAt time.Time) {
	from := now
	if sub.IsActive() && sub.CurrentPeriodEndsAt != nil && sub.CurrentPeriodEndsAt.After(now) {
		from = *sub.CurrentPeriodEndsAt
	}
	return plan.PeriodEnd(from)
}

// CancelNow ends an unstarted subscription immediately. Valid from NEW and
// PENDING only; a settled period is never cut short here.
func (s *Service) CancelNow(ctx context.Context, id string) (*models.Subscription, error) {
	return s.WithSubscription(ctx, id, func(tx *gorm.DB, sub *models.Subscription) error {
		if !sub.IsNew() && !sub.IsPending() {
			return fmt.Errorf("cancel from status %s: %w", sub.Status, ErrInvalidState)
		}
		// void the open entry so an ENDED subscription leaves no live ledger row
		txn, err := s.pendingTransaction(ctx, tx, sub.ID)
		if err != nil {
			return err
		}
		if txn != nil {
			if err := s.FailTransaction(ctx, tx, txn, types.SubscriptionLogTypeCancelledNow); err != nil {
				return err
			}
		}
		now := time.Now()
		sub.Status = types.SubscriptionStatusEnded
		sub.EndsAt = &now
		return s.AddLog(ctx, tx, sub, types.SubscriptionLogTypeCancelledNow, map[string]interface{}{
			"plan_id":  sub.PlanID,
			"ended_at": now,
		})
	})
}
