package subscription

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fernpay/cashier/internal/models"
	"github.com/fernpay/cashier/pkg/config"
	"github.com/fernpay/cashier/pkg/tool"
	"github.com/fernpay/cashier/pkg/types"
)

var (
	// ErrNotFound means the subscription or plan id is unknown.
	ErrNotFound = errors.New("subscription: not found")
	// ErrPendingConflict means an action requiring no pending transaction was
	// attempted while one exists.
	ErrPendingConflict = errors.New("subscription: pending transaction exists")
	// ErrConcurrentModification is returned to the loser of two concurrent
	// mutating operations on the same subscription.
	ErrConcurrentModification = errors.New("subscription: concurrent modification")
	// ErrInvalidState means the subscription status does not allow the transition.
	ErrInvalidState = errors.New("subscription: invalid state for transition")
)

// Service owns the subscription lifecycle: status transitions, the
// append-only transaction ledger and the subscription log. All mutating
// operations on one subscription are serialized through WithSubscription.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
	log *zap.SugaredLogger

	// locks holds one mutex per subscription id. Entries are never evicted;
	// the map is bounded by the number of live subscriptions in this process.
	locks sync.Map
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{cfg: cfg, db: db, log: log}
}

// FindPlan resolves a plan id against the configured catalog.
func (s *Service) FindPlan(id string) (*types.Plan, error) {
	if p := s.cfg.GetPlanByID(id); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("plan %s: %w", id, ErrNotFound)
}

// PlanOf returns the plan the subscription is currently on.
func (s *Service) PlanOf(sub *models.Subscription) (*types.Plan, error) {
	return s.FindPlan(sub.PlanID)
}

func (s *Service) FindSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subscription %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	return &sub, nil
}

// FindByUser returns the user's most recent subscription.
func (s *Service) FindByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	return &sub, nil
}

// Create records a NEW subscription for user and plan. Settlement happens
// later through a gateway checkout.
func (s *Service) Create(ctx context.Context, userID, planID string) (*models.Subscription, error) {
	if _, err := s.FindPlan(planID); err != nil {
		return nil, err
	}
	sub := &models.Subscription{
		ID:     tool.GenerateUUIDV7(),
		UserID: userID,
		PlanID: planID,
		Status: types.SubscriptionStatusNew,
	}
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	return sub, nil
}

// WithSubscription runs fn with exclusive ownership of one subscription: an
// in-process try-lock plus a row lock inside a DB transaction. A concurrent
// caller fails fast with ErrConcurrentModification instead of interleaving
// read-then-write sequences. fn's changes to sub are persisted on success.
func (s *Service) WithSubscription(ctx context.Context, id string, fn func(tx *gorm.DB, sub *models.Subscription) error) (*models.Subscription, error) {
	release, err := s.Acquire(id)
	if err != nil {
		return nil, err
	}
	defer release()
	return s.WithSubscriptionLocked(ctx, id, fn)
}

// WithSubscriptionLocked is WithSubscription for a caller that already holds
// the subscription's mutex through Acquire, letting it span several
// transactions under one reservation.
func (s *Service) WithSubscriptionLocked(ctx context.Context, id string, fn func(tx *gorm.DB, sub *models.Subscription) error) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("subscription %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to lock subscription: %w", err)
		}
		if err := fn(tx, &sub); err != nil {
			return err
		}
		if err := tx.Save(&sub).Error; err != nil {
			return fmt.Errorf("failed to save subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Acquire reserves the subscription's in-process mutex. The loser of a race
// fails fast with ErrConcurrentModification instead of queueing behind the
// holder.
func (s *Service) Acquire(id string) (release func(), err error) {
	m, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	if !mu.TryLock() {
		return nil, fmt.Errorf("subscription %s: %w", id, ErrConcurrentModification)
	}
	return mu.Unlock, nil
}
