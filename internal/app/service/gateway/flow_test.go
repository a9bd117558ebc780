package gateway

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/fernpay/cashier/internal/app/service/subscription"
	"github.com/fernpay/cashier/internal/models"
	"github.com/fernpay/cashier/internal/platform/cardvault"
	"github.com/fernpay/cashier/pkg/config"
	"github.com/fernpay/cashier/pkg/gormlog"
	"github.com/fernpay/cashier/pkg/types"
)

// Statement shapes the flows below produce. Matching stays loose on purpose:
// the tests pin the order and kind of ledger statements, not gorm's SQL.
const (
	qSelectSub  = `SELECT \* FROM "subscription" WHERE id = \$1`
	qSelectPend = `FROM "subscription_transaction" WHERE subscription_id = \$1 AND status = \$2`
	qSelectLast = `FROM "subscription_transaction" WHERE subscription_id = \$1 ORDER BY`
	qInsertTxn  = `INSERT INTO "subscription_transaction"`
	qUpdateTxn  = `UPDATE "subscription_transaction" SET`
	qInsertLog  = `INSERT INTO "subscription_log"`
	qUpdateSub  = `UPDATE "subscription" SET`
)

func newFlowService(t *testing.T, plans ...*types.Plan) (*subscription.Service, *config.Config, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, WithoutReturning: true}), &gorm.Config{
		Logger: gormlog.New(zap.NewNop().Sugar()),
	})
	require.NoError(t, err)

	cfg := &config.Config{
		Plans:   plans,
		Gateway: config.GatewayConfig{Card: config.CardGatewayConfig{ChargeTimeout: time.Second}},
	}
	return subscription.NewService(cfg, gdb, zap.NewNop().Sugar()), cfg, mock
}

func freePlan() *types.Plan {
	return &types.Plan{ID: "free", Name: "Free", Currency: "USD", Interval: types.PlanIntervalDay, IntervalCount: 30}
}

func proPlan() *types.Plan {
	return &types.Plan{ID: "pro", Name: "Pro", Price: decimal.NewFromInt(10), Currency: "USD", Interval: types.PlanIntervalDay, IntervalCount: 30}
}

func subRows(id, userID, planID string, status types.SubscriptionStatus, periodEnd *time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "plan_id", "status", "ends_at", "current_period_ends_at"}).
		AddRow(id, userID, planID, string(status), nil, timeValue(periodEnd))
}

func txnRows(txn *models.SubscriptionTransaction) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "subscription_id", "type", "status", "amount", "currency"}).
		AddRow(txn.ID, txn.SubscriptionID, string(txn.Type), string(txn.Status), txn.Amount.String(), txn.Currency)
}

func emptyTxnRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id"})
}

func timeValue(t *time.Time) driver.Value {
	if t == nil {
		return nil
	}
	return *t
}

var execOK = sqlmock.NewResult(0, 1)

func TestCardCheckout_FreePlanActivatesWithoutCharge(t *testing.T) {
	svc, cfg, mock := newFlowService(t, freePlan())
	v := &scriptedVault{}
	g := NewCardGateway(cfg, zap.NewNop().Sugar(), svc, v)

	mock.ExpectBegin()
	mock.ExpectQuery(qSelectSub).WillReturnRows(subRows("sub-1", "u1", "free", types.SubscriptionStatusNew, nil))
	mock.ExpectQuery(qSelectPend).WillReturnRows(emptyTxnRows())
	mock.ExpectExec(qInsertTxn).WillReturnResult(execOK)
	mock.ExpectExec(qUpdateTxn).WillReturnResult(execOK)
	mock.ExpectExec(qInsertLog).WillReturnResult(execOK)
	mock.ExpectExec(qUpdateSub).WillReturnResult(execOK)
	mock.ExpectCommit()

	res, err := g.Checkout(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.True(t, res.Subscription.IsActive())
	assert.True(t, res.Transaction.IsSuccess())
	assert.Equal(t, 0, v.calls, "free plan never touches the vault")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRenew_ChargeRunsBetweenLedgerCommits(t *testing.T) {
	svc, cfg, mock := newFlowService(t, proPlan())
	v := &scriptedVault{}
	g := NewCardGateway(cfg, zap.NewNop().Sugar(), svc, v)
	periodEnd := time.Now().Add(24 * time.Hour)

	// the pending entry commits before the vault sees the charge
	mock.ExpectBegin()
	mock.ExpectQuery(qSelectSub).WillReturnRows(subRows("sub-1", "u1", "pro", types.SubscriptionStatusActive, &periodEnd))
	mock.ExpectQuery(qSelectPend).WillReturnRows(emptyTxnRows())
	mock.ExpectExec(qInsertTxn).WillReturnResult(execOK)
	mock.ExpectExec(qUpdateSub).WillReturnResult(execOK)
	mock.ExpectCommit()

	// the outcome lands in a second transaction
	mock.ExpectBegin()
	mock.ExpectQuery(qSelectSub).WillReturnRows(subRows("sub-1", "u1", "pro", types.SubscriptionStatusActive, &periodEnd))
	mock.ExpectExec(qUpdateTxn).WillReturnResult(execOK)
	mock.ExpectExec(qInsertLog).WillReturnResult(execOK)
	mock.ExpectExec(qUpdateSub).WillReturnResult(execOK)
	mock.ExpectCommit()

	res, err := g.Renew(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.True(t, res.Subscription.IsActive())
	assert.True(t, res.Transaction.IsSuccess())
	assert.NotNil(t, res.Transaction.GatewayRef)
	assert.Equal(t, 1, v.calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRenew_UnavailableLeavesPendingForSync(t *testing.T) {
	svc, cfg, mock := newFlowService(t, proPlan())
	v := &scriptedVault{script: []error{cardvault.ErrUnavailable, cardvault.ErrUnavailable}}
	g := NewCardGateway(cfg, zap.NewNop().Sugar(), svc, v)
	periodEnd := time.Now().Add(24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(qSelectSub).WillReturnRows(subRows("sub-1", "u1", "pro", types.SubscriptionStatusActive, &periodEnd))
	mock.ExpectQuery(qSelectPend).WillReturnRows(emptyTxnRows())
	mock.ExpectExec(qInsertTxn).WillReturnResult(execOK)
	mock.ExpectExec(qUpdateSub).WillReturnResult(execOK)
	mock.ExpectCommit()

	_, err := g.Renew(context.Background(), "sub-1")
	require.ErrorIs(t, err, ErrGatewayUnavailable)
	assert.Equal(t, 2, v.calls, "exactly one automatic retry")

	// the committed entry blocks further paid actions until reconciled
	pending := &models.SubscriptionTransaction{
		ID: "txn-1", SubscriptionID: "sub-1",
		Type: types.TransactionTypeRenew, Status: types.TransactionStatusPending,
		Amount: decimal.NewFromInt(10), Currency: "USD",
	}
	mock.ExpectBegin()
	mock.ExpectQuery(qSelectSub).WillReturnRows(subRows("sub-1", "u1", "pro", types.SubscriptionStatusActive, &periodEnd))
	mock.ExpectQuery(qSelectPend).WillReturnRows(txnRows(pending))
	mock.ExpectRollback()

	_, err = g.Renew(context.Background(), "sub-1")
	require.ErrorIs(t, err, subscription.ErrPendingConflict)
	assert.Equal(t, 2, v.calls, "no charge while an entry is unresolved")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCardSync_ResolvedLedgerIsUntouched(t *testing.T) {
	svc, cfg, mock := newFlowService(t, proPlan())
	v := &scriptedVault{}
	g := NewCardGateway(cfg, zap.NewNop().Sugar(), svc, v)
	periodEnd := time.Now().Add(24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(qSelectSub).WillReturnRows(subRows("sub-1", "u1", "pro", types.SubscriptionStatusActive, &periodEnd))
	mock.ExpectQuery(qSelectPend).WillReturnRows(emptyTxnRows())
	mock.ExpectExec(qUpdateSub).WillReturnResult(execOK)
	mock.ExpectCommit()

	sub, err := g.Sync(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.True(t, sub.IsActive())
	assert.Equal(t, 0, v.finds, "nothing pending, vault not queried")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectRenew_FreePlanAutoApproves(t *testing.T) {
	svc, cfg, mock := newFlowService(t, freePlan())
	g := NewDirectGateway(cfg, zap.NewNop().Sugar(), svc)
	periodEnd := time.Now().Add(24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(qSelectSub).WillReturnRows(subRows("sub-1", "u1", "free", types.SubscriptionStatusActive, &periodEnd))
	mock.ExpectQuery(qSelectPend).WillReturnRows(emptyTxnRows())
	mock.ExpectExec(qInsertTxn).WillReturnResult(execOK)
	mock.ExpectExec(qUpdateTxn).WillReturnResult(execOK)
	mock.ExpectExec(qInsertLog).WillReturnResult(execOK)
	mock.ExpectExec(qUpdateSub).WillReturnResult(execOK)
	mock.ExpectCommit()

	res, err := g.Renew(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.True(t, res.Subscription.IsActive(), "zero amount never parks the subscription")
	assert.True(t, res.Transaction.IsSuccess())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectRenew_PaidPlanParksPending(t *testing.T) {
	svc, cfg, mock := newFlowService(t, proPlan())
	g := NewDirectGateway(cfg, zap.NewNop().Sugar(), svc)
	periodEnd := time.Now().Add(24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(qSelectSub).WillReturnRows(subRows("sub-1", "u1", "pro", types.SubscriptionStatusActive, &periodEnd))
	mock.ExpectQuery(qSelectPend).WillReturnRows(emptyTxnRows())
	mock.ExpectExec(qInsertTxn).WillReturnResult(execOK)
	mock.ExpectExec(qUpdateSub).WillReturnResult(execOK)
	mock.ExpectCommit()

	res, err := g.Renew(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.True(t, res.Subscription.IsPending())
	assert.True(t, res.Transaction.IsPending())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelNow_VoidsOpenEntry(t *testing.T) {
	svc, cfg, mock := newFlowService(t, proPlan())
	g := NewDirectGateway(cfg, zap.NewNop().Sugar(), svc)
	open := &models.SubscriptionTransaction{
		ID: "txn-1", SubscriptionID: "sub-1",
		Type: types.TransactionTypeInitial, Status: types.TransactionStatusPending,
		Amount: decimal.NewFromInt(10), Currency: "USD",
	}

	mock.ExpectBegin()
	mock.ExpectQuery(qSelectSub).WillReturnRows(subRows("sub-1", "u1", "pro", types.SubscriptionStatusPending, nil))
	mock.ExpectQuery(qSelectPend).WillReturnRows(txnRows(open))
	mock.ExpectExec(qUpdateTxn).WillReturnResult(execOK)
	mock.ExpectExec(qInsertLog).WillReturnResult(execOK)
	mock.ExpectExec(qUpdateSub).WillReturnResult(execOK)
	mock.ExpectCommit()

	sub, err := g.CancelNow(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.True(t, sub.IsEnded())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelNow_NewSubscriptionEndsWithSingleLog(t *testing.T) {
	svc, cfg, mock := newFlowService(t, proPlan())
	g := NewDirectGateway(cfg, zap.NewNop().Sugar(), svc)

	mock.ExpectBegin()
	mock.ExpectQuery(qSelectSub).WillReturnRows(subRows("sub-1", "u1", "pro", types.SubscriptionStatusNew, nil))
	mock.ExpectQuery(qSelectPend).WillReturnRows(emptyTxnRows())
	mock.ExpectExec(qInsertLog).WillReturnResult(execOK)
	mock.ExpectExec(qUpdateSub).WillReturnResult(execOK)
	mock.ExpectCommit()

	sub, err := g.CancelNow(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.True(t, sub.IsEnded())
	require.NoError(t, mock.ExpectationsWereMet())
}

// A decline, a fixed card, then FixPayment under the original idempotency key:
// the retry must collect real money, not resurrect the declined record.
func TestFixPayment_CollectsAfterCardFixed(t *testing.T) {
	svc, cfg, mock := newFlowService(t, proPlan())
	vault := cardvault.NewSandbox("test-key")
	g := NewCardGateway(cfg, zap.NewNop().Sugar(), svc, vault)
	ctx := context.Background()
	key := idempotencyKey("sub-1", "txn-1")

	require.NoError(t, vault.UpdateCard(ctx, "u1", "tok_decline_4000"))
	_, err := vault.Charge(ctx, &cardvault.ChargeRequest{
		UserID: "u1", Amount: decimal.NewFromInt(10), Currency: "USD", IdempotencyKey: key,
	})
	require.ErrorIs(t, err, cardvault.ErrDeclined)

	require.NoError(t, vault.UpdateCard(ctx, "u1", "tok_4242424242"))

	failed := &models.SubscriptionTransaction{
		ID: "txn-1", SubscriptionID: "sub-1",
		Type: types.TransactionTypeInitial, Status: types.TransactionStatusFailed,
		Amount: decimal.NewFromInt(10), Currency: "USD",
	}
	mock.ExpectBegin()
	mock.ExpectQuery(qSelectSub).WillReturnRows(subRows("sub-1", "u1", "pro", types.SubscriptionStatusNew, nil))
	mock.ExpectQuery(qSelectPend).WillReturnRows(emptyTxnRows())
	mock.ExpectQuery(qSelectLast).WillReturnRows(txnRows(failed))
	mock.ExpectExec(qUpdateSub).WillReturnResult(execOK)
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery(qSelectSub).WillReturnRows(subRows("sub-1", "u1", "pro", types.SubscriptionStatusNew, nil))
	mock.ExpectExec(qUpdateTxn).WillReturnResult(execOK)
	mock.ExpectExec(qInsertLog).WillReturnResult(execOK)
	mock.ExpectExec(qUpdateSub).WillReturnResult(execOK)
	mock.ExpectCommit()

	res, err := g.FixPayment(ctx, "sub-1")
	require.NoError(t, err)
	assert.True(t, res.Subscription.IsActive())
	assert.True(t, res.Transaction.IsSuccess())

	charge, err := vault.FindCharge(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, cardvault.ChargeStatusSettled, charge.Status, "money actually collected")
	require.NoError(t, mock.ExpectationsWereMet())
}
