package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fernpay/cashier/internal/app/service/gateway"
	"github.com/fernpay/cashier/pkg/response"
	"github.com/fernpay/cashier/pkg/types"
)

type ClaimRequest struct {
	SubscriptionID string `json:"subscription_id"`
	TransactionID  string `json:"transaction_id"`
}

func claimable(reg *gateway.Registry) (gateway.Claimable, error) {
	return reg.Claimable(types.GatewayKindDirect)
}

// @Summary      Claim Payment
// @Description  Marks a pending transaction's out-of-band payment as received. Idempotent; approval happens separately.
// @Tags         Direct
// @Accept       json
// @Produce      json
// @Param        request body ClaimRequest true "Subscription and transaction id"
// @Success      200  {object}  handlers.RespTransaction
// @Router       /api/v1/direct/claim [post]
func ApiClaim(reg *gateway.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ClaimRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		g, err := claimable(reg)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		txn, err := g.Claim(c.Request.Context(), req.SubscriptionID, req.TransactionID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(txn))
	}
}

// @Summary      Unclaim Payment
// @Description  Reverses a claim prior to approval, restoring the transaction to its pre-claim state.
// @Tags         Direct
// @Accept       json
// @Produce      json
// @Param        request body ClaimRequest true "Subscription and transaction id"
// @Success      200  {object}  handlers.RespTransaction
// @Router       /api/v1/direct/unclaim [post]
func ApiUnclaim(reg *gateway.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ClaimRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		g, err := claimable(reg)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		txn, err := g.Unclaim(c.Request.Context(), req.SubscriptionID, req.TransactionID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(txn))
	}
}

// @Summary      Approve Pending
// @Description  Finalizes the pending transaction: marks it SUCCESS, applies its snapshot and activates the subscription.
// @Tags         Direct
// @Accept       json
// @Produce      json
// @Param        request body SubscriptionRequest true "Subscription id"
// @Success      200  {object}  handlers.RespCheckoutResult
// @Router       /api/v1/direct/approve_pending [post]
func ApiApprovePending(reg *gateway.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscriptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		g, err := claimable(reg)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		res, err := g.ApprovePending(c.Request.Context(), req.SubscriptionID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterDirectRoutes(r gin.IRouter, reg *gateway.Registry) {
	r.POST("/claim", ApiClaim(reg))
	r.POST("/unclaim", ApiUnclaim(reg))
	r.POST("/approve_pending", ApiApprovePending(reg))
}
