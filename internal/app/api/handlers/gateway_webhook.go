package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/fernpay/cashier/internal/app/service/gateway"
	notificationlog "github.com/fernpay/cashier/internal/app/service/notification_log"
	"github.com/fernpay/cashier/internal/models"
	"github.com/fernpay/cashier/pkg/response"
	"github.com/fernpay/cashier/pkg/types"
)

// gatewayNotification is the part of the payload this service understands.
// Everything else is persisted verbatim for the audit trail.
type gatewayNotification struct {
	SubscriptionID string `json:"subscription_id"`
	GatewayRef     string `json:"gateway_ref"`
}

// @Summary      Gateway Notification
// @Description  Receives an out-of-band settlement notification. The payload is persisted and replayed through reconciliation; it is never applied blindly.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        payload body gatewayNotification true "Gateway notification payload"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/webhook/{gateway} [post]
func ApiGatewayNotification(reg *gateway.Registry, notifLog *notificationlog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := types.GatewayKind(c.Param("gateway"))
		g, err := reg.Get(kind)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}

		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		var notif gatewayNotification
		if err := json.Unmarshal(body, &notif); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		logEntry := &models.PaymentNotificationLog{
			Gateway:          kind,
			TraceID:          c.GetString("traceID"),
			GatewayRef:       notif.GatewayRef,
			NotificationTime: time.Now(),
			Data:             datatypes.JSON(body),
			Status:           models.PaymentNotificationLogStatusReceived,
		}
		if notif.SubscriptionID != "" {
			logEntry.SubscriptionID = &notif.SubscriptionID
		}

		if notif.SubscriptionID == "" {
			notifLog.Save(c.Request.Context(), logEntry)
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing subscription_id"))
			return
		}

		sub, err := g.Sync(c.Request.Context(), notif.SubscriptionID)
		if err != nil {
			logEntry.Status = models.PaymentNotificationLogStatusHandleFailed
			result := datatypes.JSON([]byte(`{"error":` + jsonQuote(err.Error()) + `}`))
			logEntry.Result = &result
			notifLog.Save(c.Request.Context(), logEntry)
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}

		logEntry.Status = models.PaymentNotificationLogStatusHandled
		if out, err := json.Marshal(sub); err == nil {
			result := datatypes.JSON(out)
			logEntry.Result = &result
		}
		notifLog.Save(c.Request.Context(), logEntry)
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func jsonQuote(s string) string {
	out, _ := json.Marshal(s)
	return string(out)
}

func RegisterWebhookRoutes(r gin.IRouter, reg *gateway.Registry, notifLog *notificationlog.Service) {
	r.POST("/:gateway", ApiGatewayNotification(reg, notifLog))
}
