package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/fernpay/cashier/internal/app/service/statistics"
	subsvc "github.com/fernpay/cashier/internal/app/service/subscription"
	"github.com/fernpay/cashier/internal/models"
	"github.com/fernpay/cashier/pkg/response"
	"github.com/fernpay/cashier/pkg/types"
)

type ListTransactionsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

// TransactionItem is the admin view of one ledger entry.
type TransactionItem struct {
	ID                  string                  `json:"id"`
	SubscriptionID      string                  `json:"subscription_id"`
	Type                types.TransactionType   `json:"type"`
	Status              types.TransactionStatus `json:"status"`
	Amount              decimal.Decimal         `json:"amount"`
	Currency            string                  `json:"currency"`
	Title               string                  `json:"title"`
	Description         string                  `json:"description"`
	EndsAt              *time.Time              `json:"ends_at"`
	CurrentPeriodEndsAt *time.Time              `json:"current_period_ends_at"`
	ClaimedAt           *time.Time              `json:"claimed_at"`
	GatewayRef          *string                 `json:"gateway_ref"`
	TargetPlanID        string                  `json:"target_plan_id,omitempty"`
	CreatedAt           time.Time               `json:"created_at"`
	UpdatedAt           time.Time               `json:"updated_at"`
}

func toTransactionItem(m *models.SubscriptionTransaction) *TransactionItem {
	return &TransactionItem{
		ID:                  m.ID,
		SubscriptionID:      m.SubscriptionID,
		Type:                m.Type,
		Status:              m.Status,
		Amount:              m.Amount,
		Currency:            m.Currency,
		Title:               m.Title,
		Description:         m.Description,
		EndsAt:              m.EndsAt,
		CurrentPeriodEndsAt: m.CurrentPeriodEndsAt,
		ClaimedAt:           m.ClaimedAt,
		GatewayRef:          m.GatewayRef,
		TargetPlanID:        m.TargetPlanID(),
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

type ListTransactionsResponse struct {
	Items []*TransactionItem `json:"items"`
	Total int64              `json:"total"`
}

// @Summary      List Transactions (Admin)
// @Description  Retrieves a paginated and filterable list of ledger entries across all subscriptions.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ListTransactionsRequest true "List request with filters, pagination and sorting"
// @Success      200  {object}  handlers.RespListTransactions
// @Router       /api/v1/admin/list_transactions [post]
func ApiAdminListTransactions(sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListTransactionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		scanReq := &subsvc.ScanTransactionsRequest{Filters: req.Filters, From: req.From, Size: req.Size, SortBy: req.SortBy, SortOrder: req.SortOrder}
		res, err := sub.ScanTransactions(c.Request.Context(), scanReq)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		items := lo.Map(res.Items, func(it *models.SubscriptionTransaction, _ int) *TransactionItem { return toTransactionItem(it) })
		c.JSON(http.StatusOK, response.OKT(&ListTransactionsResponse{Items: items, Total: res.Total}))
	}
}

type ListLogsResponse struct {
	Items []*models.SubscriptionLog `json:"items"`
	Total int64                     `json:"total"`
}

// @Summary      List Subscription Logs (Admin)
// @Description  Retrieves a paginated and filterable list of subscription history events.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ListTransactionsRequest true "List request with filters, pagination and sorting"
// @Success      200  {object}  handlers.RespListLogs
// @Router       /api/v1/admin/list_subscription_logs [post]
func ApiAdminListSubscriptionLogs(sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListTransactionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		scanReq := &subsvc.ScanLogsRequest{Filters: req.Filters, From: req.From, Size: req.Size, SortBy: req.SortBy, SortOrder: req.SortOrder}
		res, err := sub.ScanLogs(c.Request.Context(), scanReq)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&ListLogsResponse{Items: res.Items, Total: res.Total}))
	}
}

// @Summary      Get Billing Statistics (Admin)
// @Description  Retrieves daily billing statistics over the ledger and snapshots.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body statistics.BillingStatisticRequest true "Statistic request parameters"
// @Success      200  {object}  handlers.RespBillingStatistic
// @Router       /api/v1/admin/get_billing_statistic [post]
func ApiGetBillingStatistic(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.BillingStatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.GetBillingStatistic(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

type RunDailySnapshotRequest struct {
	// Date in YYYY-MM-DD; empty means today.
	Date string `json:"date"`
}

type RunDailySnapshotResponse struct {
	Visited int `json:"visited"`
}

// @Summary      Run Daily Snapshot (Admin)
// @Description  Writes today's (or the given day's) per-subscription state snapshot.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body RunDailySnapshotRequest true "Snapshot date, empty for today"
// @Success      200  {object}  handlers.RespRunDailySnapshot
// @Router       /api/v1/admin/run_daily_snapshot [post]
func ApiRunDailySnapshot(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RunDailySnapshotRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		date := time.Now()
		if req.Date != "" {
			parsed, err := time.Parse(time.DateOnly, req.Date)
			if err != nil {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			date = parsed
		}
		visited, err := svc.SnapshotAll(c.Request.Context(), date)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&RunDailySnapshotResponse{Visited: visited}))
	}
}

func RegisterAdminRoutes(r gin.IRouter, sub *subsvc.Service, stats *statistics.Service) {
	r.POST("/list_transactions", ApiAdminListTransactions(sub))
	r.POST("/list_subscription_logs", ApiAdminListSubscriptionLogs(sub))
	r.POST("/get_billing_statistic", ApiGetBillingStatistic(stats))
	r.POST("/run_daily_snapshot", ApiRunDailySnapshot(stats))
}
