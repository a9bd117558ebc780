package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fernpay/cashier/internal/app/service/gateway"
	"github.com/fernpay/cashier/pkg/response"
	"github.com/fernpay/cashier/pkg/types"
)

type UpdateCardRequest struct {
	SubscriptionID string `json:"subscription_id"`
	// Nonce is the tokenized payment method minted by the vault's client SDK.
	Nonce string `json:"nonce"`
}

type ClientTokenResponse struct {
	Token string `json:"token"`
}

func cardManager(reg *gateway.Registry) (gateway.CardManager, error) {
	return reg.CardManager(types.GatewayKindCard)
}

// @Summary      Client Token
// @Description  Issues a short-lived vault token for checkout pages.
// @Tags         Card
// @Accept       json
// @Produce      json
// @Param        request body SubscriptionRequest true "Subscription id"
// @Success      200  {object}  handlers.RespClientToken
// @Router       /api/v1/card/client_token [post]
func ApiClientToken(reg *gateway.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscriptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		mgr, err := cardManager(reg)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		token, err := mgr.ClientToken(c.Request.Context(), req.SubscriptionID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&ClientTokenResponse{Token: token}))
	}
}

// @Summary      Update Card
// @Description  Replaces the stored payment method from a tokenized nonce. Vault side effect only, no ledger entry.
// @Tags         Card
// @Accept       json
// @Produce      json
// @Param        request body UpdateCardRequest true "Subscription id and nonce"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/card/update_card [post]
func ApiUpdateCard(reg *gateway.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateCardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.Nonce == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing nonce"))
			return
		}
		mgr, err := cardManager(reg)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		if err := mgr.UpdateCard(c.Request.Context(), req.SubscriptionID, req.Nonce); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Card Information
// @Description  Returns the stored payment method as reported by the vault.
// @Tags         Card
// @Accept       json
// @Produce      json
// @Param        request body SubscriptionRequest true "Subscription id"
// @Success      200  {object}  handlers.RespCard
// @Router       /api/v1/card/card_information [post]
func ApiCardInformation(reg *gateway.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscriptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		mgr, err := cardManager(reg)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		card, err := mgr.CardInformation(c.Request.Context(), req.SubscriptionID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(card))
	}
}

// @Summary      Fix Payment
// @Description  Re-drives an unresolved settlement with its original idempotency key.
// @Tags         Card
// @Accept       json
// @Produce      json
// @Param        request body SubscriptionRequest true "Subscription id"
// @Success      200  {object}  handlers.RespCheckoutResult
// @Router       /api/v1/card/fix_payment [post]
func ApiFixPayment(reg *gateway.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscriptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		mgr, err := cardManager(reg)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		res, err := mgr.FixPayment(c.Request.Context(), req.SubscriptionID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterCardRoutes(r gin.IRouter, reg *gateway.Registry) {
	r.POST("/client_token", ApiClientToken(reg))
	r.POST("/update_card", ApiUpdateCard(reg))
	r.POST("/card_information", ApiCardInformation(reg))
	r.POST("/fix_payment", ApiFixPayment(reg))
}
