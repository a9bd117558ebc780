package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fernpay/cashier/internal/app/service/subscription"
	"github.com/fernpay/cashier/internal/models"
	"github.com/fernpay/cashier/internal/platform/cardvault"
	"github.com/fernpay/cashier/pkg/config"
	"github.com/fernpay/cashier/pkg/logctx"
	"github.com/fernpay/cashier/pkg/metrics"
	"github.com/fernpay/cashier/pkg/plancalc"
	"github.com/fernpay/cashier/pkg/types"
)

// CardGateway settles synchronously against a stored payment method. A pending
// ledger entry is committed before the remote charge so an interrupted call is
// recoverable through Sync; the subscription status itself never goes PENDING
// on this gateway.
type CardGateway struct {
	cfg    *config.Config
	log    *zap.SugaredLogger
	subSvc *subscription.Service
	vault  cardvault.Vault
}

func NewCardGateway(cfg *config.Config, log *zap.SugaredLogger, subSvc *subscription.Service, vault cardvault.Vault) *CardGateway {
	return &CardGateway{cfg: cfg, log: log, subSvc: subSvc, vault: vault}
}

func (g *CardGateway) Kind() types.GatewayKind {
	return types.GatewayKindCard
}

// idempotencyKey is stable across retries of one settlement attempt.
func idempotencyKey(subscriptionID, transactionID string) string {
	return subscriptionID + ":" + transactionID
}

func (g *CardGateway) Checkout(ctx context.Context, subscriptionID string) (*CheckoutResult, error) {
	return g.chargePending(ctx, subscriptionID, func(tx *gorm.DB, sub *models.Subscription) (*models.SubscriptionTransaction, error) {
		if !sub.IsNew() {
			return nil, fmt.Errorf("checkout from status %s: %w", sub.Status, subscription.ErrInvalidState)
		}
		plan, err := g.subSvc.PlanOf(sub)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		periodEnd := plan.PeriodEnd(now)
		return g.subSvc.AddTransaction(ctx, tx, sub, &subscription.TransactionParams{
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
	})
}

func (g *CardGateway) Renew(ctx context.Context, subscriptionID string) (*CheckoutResult, error) {
	return g.chargePending(ctx, subscriptionID, func(tx *gorm.DB, sub *models.Subscription) (*models.SubscriptionTransaction, error) {
		if !sub.IsActive() {
			return nil, fmt.Errorf("renew from status %s: %w", sub.Status, subscription.ErrInvalidState)
		}
		plan, err := g.subSvc.PlanOf(sub)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		periodEnd := g.subSvc.NextPeriod(sub, plan, now)
		return g.subSvc.AddTransaction(ctx, tx, sub, &subscription.TransactionParams{
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
	})
}

func (g *CardGateway) ChangePlan(ctx context.Context, subscriptionID, targetPlanID string) (*CheckoutResult, error) {
	return g.chargePending(ctx, subscriptionID, func(tx *gorm.DB, sub *models.Subscription) (*models.SubscriptionTransaction, error) {
		if !sub.IsActive() {
			return nil, fmt.Errorf("change plan from status %s: %w", sub.Status, subscription.ErrInvalidState)
		}
		current, err := g.subSvc.PlanOf(sub)
		if err != nil {
			return nil, err
		}
		target, err := g.subSvc.FindPlan(targetPlanID)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		periodEnd := now
		if sub.CurrentPeriodEndsAt != nil {
			periodEnd = *sub.CurrentPeriodEndsAt
		}
		quote, err := plancalc.CalcChangePlan(periodEnd, current, target, now)
		if err != nil {
			return nil, err
		}
		return g.subSvc.AddTransaction(ctx, tx, sub, &subscription.TransactionParams{
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
	})
}

// chargePending drives one settlement attempt. prepare appends (or re-selects)
// the pending ledger entry and its transaction commits before the vault is
// called, so the idempotency key survives a crash mid-charge and Sync can
// reconcile instead of a fresh checkout minting a second charge. The remote
// charge itself runs with no transaction open; the outcome is applied in a
// second pass. Zero-amount entries settle in the first pass without touching
// the vault.
func (g *CardGateway) chargePending(ctx context.Context, subscriptionID string, prepare func(tx *gorm.DB, sub *models.Subscription) (*models.SubscriptionTransaction, error)) (*CheckoutResult, error) {
	release, err := g.subSvc.Acquire(subscriptionID)
	if err != nil {
		return nil, err
	}
	defer release()

	var txn *models.SubscriptionTransaction
	sub, err := g.subSvc.WithSubscriptionLocked(ctx, subscriptionID, func(tx *gorm.DB, sub *models.Subscription) error {
		t, err := prepare(tx, sub)
		if err != nil {
			return err
		}
		txn = t
		if txn.Amount.IsZero() {
			// nothing to collect, settle without touching the vault
			return g.settle(ctx, tx, sub, txn)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if txn.IsSuccess() {
		return &CheckoutResult{Subscription: sub, Transaction: txn}, nil
	}

	charge, chargeErr := g.chargeRemote(ctx, &cardvault.ChargeRequest{
		UserID:         sub.UserID,
		Amount:         txn.Amount,
		Currency:       txn.Currency,
		Description:    txn.Description,
		IdempotencyKey: idempotencyKey(sub.ID, txn.ID),
	})
	if chargeErr != nil && !errors.Is(chargeErr, ErrPaymentDeclined) {
		// unresolved: the committed entry stays pending, Sync reconciles later
		return nil, chargeErr
	}

	sub, err = g.subSvc.WithSubscriptionLocked(ctx, subscriptionID, func(tx *gorm.DB, sub *models.Subscription) error {
		if chargeErr != nil {
			return g.subSvc.FailTransaction(ctx, tx, txn, logTypeFor(txn.Type))
		}
		txn.GatewayRef = &charge.ID
		return g.settle(ctx, tx, sub, txn)
	})
	if err != nil {
		return nil, err
	}
	if chargeErr != nil {
		return nil, chargeErr
	}
	return &CheckoutResult{Subscription: sub, Transaction: txn}, nil
}

func (g *CardGateway) HasPending(ctx context.Context, subscriptionID string) (bool, error) {
	sub, err := g.subSvc.FindSubscription(ctx, subscriptionID)
	if err != nil {
		return false, err
	}
	return g.subSvc.HasPending(ctx, sub)
}

func (g *CardGateway) LastTransaction(ctx context.Context, subscriptionID string) (*models.SubscriptionTransaction, error) {
	sub, err := g.subSvc.FindSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	return g.subSvc.LastTransaction(ctx, nil, sub)
}

// Sync reconciles a pending entry against the vault by idempotency key. A
// charge the vault never saw stays pending; a settled or declined charge is
// applied exactly as a live response would have been.
func (g *CardGateway) Sync(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	return g.subSvc.WithSubscription(ctx, subscriptionID, func(tx *gorm.DB, sub *models.Subscription) error {
		txn, err := g.subSvc.PendingTransactionTx(ctx, tx, sub)
		if err != nil {
			return err
		}
		if txn == nil {
			return nil
		}
		charge, err := g.vault.FindCharge(ctx, idempotencyKey(sub.ID, txn.ID))
		if err != nil {
			if errors.Is(err, cardvault.ErrChargeNotFound) {
				logctx.FromCtx(ctx, g.log).Infow("sync: charge not found at vault, leaving pending",
					"subscription_id", sub.ID, "transaction_id", txn.ID)
				return nil
			}
			return fmt.Errorf("failed to look up charge: %w", err)
		}
		switch charge.Status {
		case cardvault.ChargeStatusSettled:
			txn.GatewayRef = &charge.ID
			return g.settle(ctx, tx, sub, txn)
		case cardvault.ChargeStatusDeclined:
			return g.subSvc.FailTransaction(ctx, tx, txn, logTypeFor(txn.Type))
		}
		return nil
	})
}

func (g *CardGateway) CancelNow(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	return g.subSvc.CancelNow(ctx, subscriptionID)
}

func (g *CardGateway) ClientToken(ctx context.Context, subscriptionID string) (string, error) {
	sub, err := g.subSvc.FindSubscription(ctx, subscriptionID)
	if err != nil {
		return "", err
	}
	return g.vault.GenerateClientToken(ctx, sub.UserID)
}

func (g *CardGateway) UpdateCard(ctx context.Context, subscriptionID, nonce string) error {
	sub, err := g.subSvc.FindSubscription(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if err := g.vault.UpdateCard(ctx, sub.UserID, nonce); err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	return nil
}

func (g *CardGateway) CardInformation(ctx context.Context, subscriptionID string) (*cardvault.Card, error) {
	sub, err := g.subSvc.FindSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	return g.vault.GetCard(ctx, sub.UserID)
}

// FixPayment re-drives the latest unresolved settlement. The original
// idempotency key is reused, so a charge that actually went through earlier is
// found rather than repeated.
func (g *CardGateway) FixPayment(ctx context.Context, subscriptionID string) (*CheckoutResult, error) {
	return g.chargePending(ctx, subscriptionID, func(tx *gorm.DB, sub *models.Subscription) (*models.SubscriptionTransaction, error) {
		txn, err := g.subSvc.PendingTransactionTx(ctx, tx, sub)
		if err != nil {
			return nil, err
		}
		if txn != nil {
			return txn, nil
		}
		last, err := g.subSvc.LastTransaction(ctx, tx, sub)
		if err != nil {
			return nil, err
		}
		if !last.IsFailed() {
			return nil, fmt.Errorf("no transaction to fix: %w", subscription.ErrNotFound)
		}
		return last, nil
	})
}

// settle finalizes txn, applies its snapshot and writes the history event.
func (g *CardGateway) settle(ctx context.Context, tx *gorm.DB, sub *models.Subscription, txn *models.SubscriptionTransaction) error {
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

// chargeRemote executes a bounded remote charge with one automatic retry on
// transient unavailability. Any further retry is the caller's decision.
func (g *CardGateway) chargeRemote(ctx context.Context, req *cardvault.ChargeRequest) (*cardvault.Charge, error) {
	charge, err := g.chargeOnce(ctx, req)
	if err != nil && errors.Is(err, ErrGatewayUnavailable) {
		logctx.FromCtx(ctx, g.log).Warnw("charge failed, retrying once",
			"idempotency_key", req.IdempotencyKey, "error", err)
		charge, err = g.chargeOnce(ctx, req)
	}
	return charge, err
}

func (g *CardGateway) chargeOnce(ctx context.Context, req *cardvault.ChargeRequest) (*cardvault.Charge, error) {
	timeout := g.cfg.Gateway.Card.ChargeTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	charge, err := g.vault.Charge(cctx, req)
	if err != nil {
		switch {
		case errors.Is(err, cardvault.ErrDeclined):
			metrics.ChargeAttempts.WithLabelValues(string(g.Kind()), "declined").Inc()
			return nil, fmt.Errorf("%w: %v", ErrPaymentDeclined, err)
		case errors.Is(err, cardvault.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
			metrics.ChargeAttempts.WithLabelValues(string(g.Kind()), "unavailable").Inc()
			return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
		default:
			metrics.ChargeAttempts.WithLabelValues(string(g.Kind()), "error").Inc()
			return nil, err
		}
	}
	// a vault may answer an idempotent retry with the recorded outcome instead
	// of an error; anything short of settled is no money collected
	if charge.Status != cardvault.ChargeStatusSettled {
		metrics.ChargeAttempts.WithLabelValues(string(g.Kind()), "declined").Inc()
		return nil, fmt.Errorf("%w: charge %s is %s", ErrPaymentDeclined, charge.ID, charge.Status)
	}
	metrics.ChargeAttempts.WithLabelValues(string(g.Kind()), "ok").Inc()
	return charge, nil
}
