package gateway

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fernpay/cashier/internal/app/service/subscription"
	"github.com/fernpay/cashier/internal/models"
	"github.com/fernpay/cashier/pkg/config"
	"github.com/fernpay/cashier/pkg/metrics"
	"github.com/fernpay/cashier/pkg/plancalc"
	"github.com/fernpay/cashier/pkg/types"
)

// DirectGateway models payment reported out-of-band (bank transfer, cash).
// Billing actions write a PENDING snapshot entry and park the subscription in
// PENDING; an external authority claims the payment and approval applies the
// snapshot. Zero-amount actions approve themselves on the spot.
type DirectGateway struct {
	cfg    *config.Config
	log    *zap.SugaredLogger
	subSvc *subscription.Service
}

func NewDirectGateway(cfg *config.Config, log *zap.SugaredLogger, subSvc *subscription.Service) *DirectGateway {
	return &DirectGateway{cfg: cfg, log: log, subSvc: subSvc}
}

func (g *DirectGateway) Kind() types.GatewayKind {
	return types.GatewayKindDirect
}

// Checkout creates-or-returns the single open INITIAL entry of a NEW
// subscription. Calling it again before the payment is approved returns the
// same entry instead of stacking a second one.
func (g *DirectGateway) Checkout(ctx context.Context, subscriptionID string) (*CheckoutResult, error) {
	var result CheckoutResult
	sub, err := g.subSvc.WithSubscription(ctx, subscriptionID, func(tx *gorm.DB, sub *models.Subscription) error {
		if !sub.IsNew() && !sub.IsPending() {
			return fmt.Errorf("checkout from status %s: %w", sub.Status, subscription.ErrInvalidState)
		}
		existing, err := g.subSvc.PendingTransactionTx(ctx, tx, sub)
		if err != nil {
			return err
		}
		if existing != nil {
			result.Transaction = existing
			return nil
		}
		plan, err := g.subSvc.PlanOf(sub)
		if err != nil {
			return err
		}
		now := time.Now()
		periodEnd := plan.PeriodEnd(now)
		txn, err := g.subSvc.AddTransaction(ctx, tx, sub, &subscription.TransactionParams{
			Type:                types.TransactionTypeInitial,
			Status:              types.TransactionStatusPending,
			Amount:              plan.Price,
			Currency:            plan.Currency,
			Title:               plan.Name,
			Description:         fmt.Sprintf("subscribe to %s", plan.Name),
			EndsAt:              &periodEnd,
			CurrentPeriodEndsAt: &periodEnd,
			Payload:             &models.TransactionPayload{Initial: &models.InitialPayload{PlanID: plan.ID}},
		})
		if err != nil {
			return err
		}
		result.Transaction = txn

		if plan.IsFree() {
			return g.settle(ctx, tx, sub, txn)
		}
		sub.Status = types.SubscriptionStatusPending
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Subscription = sub
	return &result, nil
}

func (g *DirectGateway) Renew(ctx context.Context, subscriptionID string) (*CheckoutResult, error) {
	var result CheckoutResult
	sub, err := g.subSvc.WithSubscription(ctx, subscriptionID, func(tx *gorm.DB, sub *models.Subscription) error {
		if !sub.IsActive() {
			return fmt.Errorf("renew from status %s: %w", sub.Status, subscription.ErrInvalidState)
		}
		plan, err := g.subSvc.PlanOf(sub)
		if err != nil {
			return err
		}
		now := time.Now()
		periodEnd := g.subSvc.NextPeriod(sub, plan, now)
		txn, err := g.subSvc.AddTransaction(ctx, tx, sub, &subscription.TransactionParams{
			Type:                types.TransactionTypeRenew,
			Status:              types.TransactionStatusPending,
			Amount:              plan.Price,
			Currency:            plan.Currency,
			Title:               plan.Name,
			Description:         fmt.Sprintf("renew %s", plan.Name),
			EndsAt:              &periodEnd,
			CurrentPeriodEndsAt: &periodEnd,
			Payload:             &models.TransactionPayload{Renew: &models.RenewPayload{PlanID: plan.ID}},
		})
		if err != nil {
			return err
		}
		result.Transaction = txn

		if plan.IsFree() {
			// auto-approve, nothing to wait for
			return g.settle(ctx, tx, sub, txn)
		}
		sub.Status = types.SubscriptionStatusPending
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Subscription = sub
	return &result, nil
}

func (g *DirectGateway) ChangePlan(ctx context.Context, subscriptionID, targetPlanID string) (*CheckoutResult, error) {
	var result CheckoutResult
	sub, err := g.subSvc.WithSubscription(ctx, subscriptionID, func(tx *gorm.DB, sub *models.Subscription) error {
		if !sub.IsActive() {
			return fmt.Errorf("change plan from status %s: %w", sub.Status, subscription.ErrInvalidState)
		}
		current, err := g.subSvc.PlanOf(sub)
		if err != nil {
			return err
		}
		target, err := g.subSvc.FindPlan(targetPlanID)
		if err != nil {
			return err
		}
		now := time.Now()
		periodEnd := now
		if sub.CurrentPeriodEndsAt != nil {
			periodEnd = *sub.CurrentPeriodEndsAt
		}
		quote, err := plancalc.CalcChangePlan(periodEnd, current, target, now)
		if err != nil {
			return err
		}
		txn, err := g.subSvc.AddTransaction(ctx, tx, sub, &subscription.TransactionParams{
			Type:                types.TransactionTypePlanChange,
			Status:              types.TransactionStatusPending,
			Amount:              quote.Amount,
			Currency:            target.Currency,
			Title:               target.Name,
			Description:         fmt.Sprintf("change plan %s to %s", current.Name, target.Name),
			EndsAt:              &quote.EndsAt,
			CurrentPeriodEndsAt: &quote.EndsAt,
			Payload: &models.TransactionPayload{PlanChange: &models.PlanChangePayload{
				FromPlanID:   current.ID,
				TargetPlanID: target.ID,
			}},
		})
		if err != nil {
			return err
		}
		result.Transaction = txn

		if quote.Amount.IsZero() {
			// full credit covers the switch, approve immediately
			return g.settle(ctx, tx, sub, txn)
		}
		sub.Status = types.SubscriptionStatusPending
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Subscription = sub
	return &result, nil
}

func (g *DirectGateway) HasPending(ctx context.Context, subscriptionID string) (bool, error) {
	sub, err := g.subSvc.FindSubscription(ctx, subscriptionID)
	if err != nil {
		return false, err
	}
	return g.subSvc.HasPending(ctx, sub)
}

func (g *DirectGateway) LastTransaction(ctx context.Context, subscriptionID string) (*models.SubscriptionTransaction, error) {
	sub, err := g.subSvc.FindSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	return g.subSvc.LastTransaction(ctx, nil, sub)
}

// Sync has no remote party to reconcile against; the local state is the truth.
func (g *DirectGateway) Sync(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	return g.subSvc.FindSubscription(ctx, subscriptionID)
}

func (g *DirectGateway) CancelNow(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	return g.subSvc.CancelNow(ctx, subscriptionID)
}

// Claim marks a pending entry's payment as received. A second claim is a
// no-op: no duplicate log, no timestamp overwrite.
func (g *DirectGateway) Claim(ctx context.Context, subscriptionID, transactionID string) (*models.SubscriptionTransaction, error) {
	var result *models.SubscriptionTransaction
	_, err := g.subSvc.WithSubscription(ctx, subscriptionID, func(tx *gorm.DB, sub *models.Subscription) error {
		txn, err := g.subSvc.FindTransaction(ctx, tx, sub, transactionID)
		if err != nil {
			return err
		}
		result = txn
		if !txn.IsPending() {
			return fmt.Errorf("claim on %s transaction: %w", txn.Status, subscription.ErrInvalidState)
		}
		before := *txn
		if !txn.MarkClaimed(time.Now()) {
			return nil
		}
		if err := g.subSvc.SaveTransaction(ctx, tx, &before, txn, types.SubscriptionLogTypeClaimed); err != nil {
			return err
		}
		return g.subSvc.AddLog(ctx, tx, sub, types.SubscriptionLogTypeClaimed, map[string]interface{}{
			"transaction_id": txn.ID,
			"amount":         txn.Amount.String(),
			"currency":       txn.Currency,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Unclaim reverses a claim prior to approval, restoring the entry to its
// pre-claim state exactly.
func (g *DirectGateway) Unclaim(ctx context.Context, subscriptionID, transactionID string) (*models.SubscriptionTransaction, error) {
	var result *models.SubscriptionTransaction
	_, err := g.subSvc.WithSubscription(ctx, subscriptionID, func(tx *gorm.DB, sub *models.Subscription) error {
		txn, err := g.subSvc.FindTransaction(ctx, tx, sub, transactionID)
		if err != nil {
			return err
		}
		result = txn
		if !txn.IsPending() {
			return fmt.Errorf("unclaim on %s transaction: %w", txn.Status, subscription.ErrInvalidState)
		}
		before := *txn
		if !txn.ClearClaim() {
			return nil
		}
		if err := g.subSvc.SaveTransaction(ctx, tx, &before, txn, types.SubscriptionLogTypeUnclaimed); err != nil {
			return err
		}
		return g.subSvc.AddLog(ctx, tx, sub, types.SubscriptionLogTypeUnclaimed, map[string]interface{}{
			"transaction_id": txn.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApprovePending finalizes the open entry: SUCCESS, snapshot applied onto the
// subscription, subscription ACTIVE.
func (g *DirectGateway) ApprovePending(ctx context.Context, subscriptionID string) (*CheckoutResult, error) {
	var result CheckoutResult
	sub, err := g.subSvc.WithSubscription(ctx, subscriptionID, func(tx *gorm.DB, sub *models.Subscription) error {
		txn, err := g.subSvc.PendingTransactionTx(ctx, tx, sub)
		if err != nil {
			return err
		}
		if txn == nil {
			return fmt.Errorf("no pending transaction: %w", subscription.ErrNotFound)
		}
		result.Transaction = txn
		return g.settle(ctx, tx, sub, txn)
	})
	if err != nil {
		return nil, err
	}
	result.Subscription = sub
	return &result, nil
}

func (g *DirectGateway) settle(ctx context.Context, tx *gorm.DB, sub *models.Subscription, txn *models.SubscriptionTransaction) error {
	logType := logTypeFor(txn.Type)
	if err := g.subSvc.SettleTransaction(ctx, tx, sub, txn, logType); err != nil {
		return err
	}
	metrics.Settlements.WithLabelValues(string(g.Kind()), string(txn.Type)).Inc()
	return g.subSvc.AddLog(ctx, tx, sub, logType, map[string]interface{}{
		"transaction_id": txn.ID,
		"plan_id":        sub.PlanID,
		"amount":         txn.Amount.String(),
		"currency":       txn.Currency,
	})
}
