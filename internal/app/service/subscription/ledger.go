package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fernpay/cashier/internal/models"
	"github.com/fernpay/cashier/pkg/logctx"
	"github.com/fernpay/cashier/pkg/tool"
	"github.com/fernpay/cashier/pkg/types"
)

// TransactionParams describes one ledger entry to append.
type TransactionParams struct {
	Type                types.TransactionType
	Status              types.TransactionStatus
	Amount              decimal.Decimal
	Currency            string
	Title               string
	Description         string
	EndsAt              *time.Time
	CurrentPeriodEndsAt *time.Time
	Payload             *models.TransactionPayload
}

// AddTransaction appends a ledger entry for sub inside tx. At most one pending
// entry may exist per subscription; a second one fails with ErrPendingConflict.
func (s *Service) AddTransaction(ctx context.Context, tx *gorm.DB, sub *models.Subscription, p *TransactionParams) (*models.SubscriptionTransaction, error) {
	if p.Status == types.TransactionStatusPending {
		pending, err := s.pendingTransaction(ctx, tx, sub.ID)
		if err != nil {
			return nil, err
		}
		if pending != nil {
			return nil, fmt.Errorf("subscription %s: %w", sub.ID, ErrPendingConflict)
		}
	}

	txn := &models.SubscriptionTransaction{
		ID:                  tool.GenerateUUIDV7(),
		SubscriptionID:      sub.ID,
		Type:                p.Type,
		Status:              p.Status,
		Amount:              p.Amount,
		Currency:            p.Currency,
		Title:               p.Title,
		Description:         p.Description,
		EndsAt:              p.EndsAt,
		CurrentPeriodEndsAt: p.CurrentPeriodEndsAt,
		Payload:             datatypes.NewJSONType(p.Payload),
	}
	if err := tx.WithContext(ctx).Create(txn).Error; err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return txn, nil
}

// SettleTransaction marks txn successful and applies its snapshot to sub.
// Settling an already-successful entry is a no-op: settlement never regresses.
func (s *Service) SettleTransaction(ctx context.Context, tx *gorm.DB, sub *models.Subscription, txn *models.SubscriptionTransaction, reason types.SubscriptionLogType) error {
	if txn.IsSuccess() {
		return nil
	}
	before := *txn
	txn.Status = types.TransactionStatusSuccess
	if err := tx.WithContext(ctx).Save(txn).Error; err != nil {
		return fmt.Errorf("failed to settle transaction: %w", err)
	}
	txn.ApplyTo(sub)
	s.logTransactionChange(ctx, &before, txn, reason)
	return nil
}

// FailTransaction marks txn failed. The subscription keeps its current state;
// the caller decides any further transition.
func (s *Service) FailTransaction(ctx context.Context, tx *gorm.DB, txn *models.SubscriptionTransaction, reason types.SubscriptionLogType) error {
	if txn.IsFailed() {
		return nil
	}
	before := *txn
	txn.Status = types.TransactionStatusFailed
	if err := tx.WithContext(ctx).Save(txn).Error; err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	s.logTransactionChange(ctx, &before, txn, reason)
	return nil
}

// SaveTransaction persists in-place edits to a ledger entry (claim marks,
// gateway references) and records the change.
func (s *Service) SaveTransaction(ctx context.Context, tx *gorm.DB, before, after *models.SubscriptionTransaction, reason types.SubscriptionLogType) error {
	if err := tx.WithContext(ctx).Save(after).Error; err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	s.logTransactionChange(ctx, before, after, reason)
	return nil
}

// logTransactionChange writes the before/after audit record asynchronously;
// errors are logged but never fail the settlement path.
func (s *Service) logTransactionChange(ctx context.Context, before, after *models.SubscriptionTransaction, reason types.SubscriptionLogType) {
	go func(before, after *models.SubscriptionTransaction, reason types.SubscriptionLogType) {
		log := &models.TransactionLog{
			ID:             tool.GenerateUUIDV7(),
			SubscriptionID: after.SubscriptionID,
			TransactionID:  after.ID,
			Reason:         reason,
			Before:         datatypes.NewJSONType(before),
			After:          datatypes.NewJSONType(after),
		}
		if err := s.db.Save(log).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save transaction log: %v", err)
		}
	}(before, after, reason)
}

// AddLog appends a subscription history event inside tx.
func (s *Service) AddLog(ctx context.Context, tx *gorm.DB, sub *models.Subscription, typ types.SubscriptionLogType, data map[string]interface{}) error {
	if data == nil {
		data = map[string]interface{}{}
	}
	log := &models.SubscriptionLog{
		ID:             tool.GenerateUUIDV7(),
		SubscriptionID: sub.ID,
		Type:           typ,
		Data:           datatypes.JSONMap(data),
	}
	if err := tx.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to create subscription log: %w", err)
	}
	return nil
}

// PendingTransaction returns the pending ledger entry, or nil when none exists.
func (s *Service) PendingTransaction(ctx context.Context, sub *models.Subscription) (*models.SubscriptionTransaction, error) {
	return s.pendingTransaction(ctx, s.db, sub.ID)
}

// PendingTransactionTx is PendingTransaction inside an open transaction.
func (s *Service) PendingTransactionTx(ctx context.Context, tx *gorm.DB, sub *models.Subscription) (*models.SubscriptionTransaction, error) {
	return s.pendingTransaction(ctx, tx, sub.ID)
}

func (s *Service) pendingTransaction(ctx context.Context, q *gorm.DB, subID string) (*models.SubscriptionTransaction, error) {
	var txn models.SubscriptionTransaction
	err := q.WithContext(ctx).
		Where("subscription_id = ? AND status = ?", subID, types.TransactionStatusPending).
		Order("id desc").First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load pending transaction: %w", err)
	}
	return &txn, nil
}

// HasPending reports whether a pending ledger entry exists for sub.
func (s *Service) HasPending(ctx context.Context, sub *models.Subscription) (bool, error) {
	txn, err := s.pendingTransaction(ctx, s.db, sub.ID)
	if err != nil {
		return false, err
	}
	return txn != nil, nil
}

// LastTransaction returns the most recent ledger entry, or nil when the ledger
// is empty. q may be nil to read outside any transaction.
func (s *Service) LastTransaction(ctx context.Context, q *gorm.DB, sub *models.Subscription) (*models.SubscriptionTransaction, error) {
	if q == nil {
		q = s.db
	}
	var txn models.SubscriptionTransaction
	err := q.WithContext(ctx).
		Where("subscription_id = ?", sub.ID).
		Order("id desc").First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load last transaction: %w", err)
	}
	return &txn, nil
}

// FindTransaction loads one ledger entry belonging to sub.
func (s *Service) FindTransaction(ctx context.Context, q *gorm.DB, sub *models.Subscription, txnID string) (*models.SubscriptionTransaction, error) {
	if q == nil {
		q = s.db
	}
	var txn models.SubscriptionTransaction
	err := q.WithContext(ctx).
		Where("subscription_id = ? AND id = ?", sub.ID, txnID).
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("transaction %s: %w", txnID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}
	return &txn, nil
}

// ListTransactions returns the subscription's ledger, newest first.
func (s *Service) ListTransactions(ctx context.Context, sub *models.Subscription) ([]*models.SubscriptionTransaction, error) {
	var items []*models.SubscriptionTransaction
	if err := s.db.WithContext(ctx).
		Where("subscription_id = ?", sub.ID).
		Order("id desc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return items, nil
}

// ListLogs returns the subscription's history events, newest first.
func (s *Service) ListLogs(ctx context.Context, sub *models.Subscription) ([]*models.SubscriptionLog, error) {
	var items []*models.SubscriptionLog
	if err := s.db.WithContext(ctx).
		Where("subscription_id = ?", sub.ID).
		Order("created_at desc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscription logs: %w", err)
	}
	return items, nil
}
