package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fernpay/cashier/internal/app/service/gateway"
	subsvc "github.com/fernpay/cashier/internal/app/service/subscription"
	"github.com/fernpay/cashier/pkg/response"
	"github.com/fernpay/cashier/pkg/types"
)

type CreateSubscriptionRequest struct {
	UserID string `json:"user_id"`
	PlanID string `json:"plan_id"`
}

type SubscriptionRequest struct {
	SubscriptionID string `json:"subscription_id"`
}

// GatewayRequest addresses one subscription through one settlement gateway.
type GatewayRequest struct {
	Gateway        types.GatewayKind `json:"gateway"`
	SubscriptionID string            `json:"subscription_id"`
}

type ChangePlanRequest struct {
	Gateway        types.GatewayKind `json:"gateway"`
	SubscriptionID string            `json:"subscription_id"`
	PlanID         string            `json:"plan_id"`
}

type HasPendingResponse struct {
	HasPending bool `json:"has_pending"`
}

// @Summary      Create Subscription
// @Description  Creates a NEW subscription for a user and plan. Settlement happens through a gateway checkout.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        request body CreateSubscriptionRequest true "User and plan"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/billing/create_subscription [post]
func ApiCreateSubscription(sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateSubscriptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.UserID == "" || req.PlanID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id or plan_id"))
			return
		}
		s, err := sub.Create(c.Request.Context(), req.UserID, req.PlanID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(s))
	}
}

// @Summary      Get Subscription
// @Description  Returns the subscription's current state.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        request body SubscriptionRequest true "Subscription id"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/billing/get_subscription [post]
func ApiGetSubscription(sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscriptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		s, err := sub.FindSubscription(c.Request.Context(), req.SubscriptionID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(s))
	}
}

// @Summary      List Subscription Transactions
// @Description  Returns the subscription's ledger, newest first.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        request body SubscriptionRequest true "Subscription id"
// @Success      200  {object}  handlers.RespTransactions
// @Router       /api/v1/billing/list_transactions [post]
func ApiListSubscriptionTransactions(sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscriptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		s, err := sub.FindSubscription(c.Request.Context(), req.SubscriptionID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		items, err := sub.ListTransactions(c.Request.Context(), s)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

// @Summary      List Subscription Logs
// @Description  Returns the subscription's history events, newest first.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        request body SubscriptionRequest true "Subscription id"
// @Success      200  {object}  handlers.RespSubscriptionLogs
// @Router       /api/v1/billing/list_logs [post]
func ApiListSubscriptionLogs(sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscriptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		s, err := sub.FindSubscription(c.Request.Context(), req.SubscriptionID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		items, err := sub.ListLogs(c.Request.Context(), s)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

// @Summary      Checkout
// @Description  Settles the first billing period of a NEW subscription through the chosen gateway.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        request body GatewayRequest true "Gateway and subscription id"
// @Success      200  {object}  handlers.RespCheckoutResult
// @Router       /api/v1/billing/checkout [post]
func ApiCheckout(reg *gateway.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GatewayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		g, err := reg.Get(req.Gateway)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		res, err := g.Checkout(c.Request.Context(), req.SubscriptionID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Renew
// @Description  Extends the settled billing period by one plan interval.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        request body GatewayRequest true "Gateway and subscription id"
// @Success      200  {object}  handlers.RespCheckoutResult
// @Router       /api/v1/billing/renew [post]
func ApiRenew(reg *gateway.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GatewayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		g, err := reg.Get(req.Gateway)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		res, err := g.Renew(c.Request.Context(), req.SubscriptionID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Change Plan
// @Description  Switches plans mid-cycle with proration through the chosen gateway.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        request body ChangePlanRequest true "Gateway, subscription id and target plan"
// @Success      200  {object}  handlers.RespCheckoutResult
// @Router       /api/v1/billing/change_plan [post]
func ApiChangePlan(reg *gateway.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChangePlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.PlanID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing plan_id"))
			return
		}
		g, err := reg.Get(req.Gateway)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		res, err := g.ChangePlan(c.Request.Context(), req.SubscriptionID, req.PlanID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Cancel Now
// @Description  Ends an unstarted subscription immediately. Not a billing event.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        request body GatewayRequest true "Gateway and subscription id"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/billing/cancel_now [post]
func ApiCancelNow(reg *gateway.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GatewayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		g, err := reg.Get(req.Gateway)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		s, err := g.CancelNow(c.Request.Context(), req.SubscriptionID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(s))
	}
}

// @Summary      Sync
// @Description  Reconciles local pending state against the gateway. Idempotent.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        request body GatewayRequest true "Gateway and subscription id"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/billing/sync [post]
func ApiSync(reg *gateway.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GatewayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		g, err := reg.Get(req.Gateway)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		s, err := g.Sync(c.Request.Context(), req.SubscriptionID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(s))
	}
}

// @Summary      Last Transaction
// @Description  Returns the most recent ledger entry for pending-state introspection.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        request body GatewayRequest true "Gateway and subscription id"
// @Success      200  {object}  handlers.RespTransaction
// @Router       /api/v1/billing/last_transaction [post]
func ApiLastTransaction(reg *gateway.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GatewayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		g, err := reg.Get(req.Gateway)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		txn, err := g.LastTransaction(c.Request.Context(), req.SubscriptionID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(txn))
	}
}

// @Summary      Has Pending
// @Description  Reports whether an unresolved ledger entry blocks new billing actions.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        request body GatewayRequest true "Gateway and subscription id"
// @Success      200  {object}  handlers.RespHasPending
// @Router       /api/v1/billing/has_pending [post]
func ApiHasPending(reg *gateway.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GatewayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		g, err := reg.Get(req.Gateway)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		pending, err := g.HasPending(c.Request.Context(), req.SubscriptionID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&HasPendingResponse{HasPending: pending}))
	}
}

func RegisterBillingRoutes(r gin.IRouter, reg *gateway.Registry, sub *subsvc.Service) {
	r.POST("/create_subscription", ApiCreateSubscription(sub))
	r.POST("/get_subscription", ApiGetSubscription(sub))
	r.POST("/list_transactions", ApiListSubscriptionTransactions(sub))
	r.POST("/list_logs", ApiListSubscriptionLogs(sub))
	r.POST("/checkout", ApiCheckout(reg))
	r.POST("/renew", ApiRenew(reg))
	r.POST("/change_plan", ApiChangePlan(reg))
	r.POST("/cancel_now", ApiCancelNow(reg))
	r.POST("/sync", ApiSync(reg))
	r.POST("/last_transaction", ApiLastTransaction(reg))
	r.POST("/has_pending", ApiHasPending(reg))
}
