package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func registeredRoutes(r *gin.Engine) map[string]bool {
	routes := map[string]bool{}
	for _, rt := range r.Routes() {
		routes[rt.Method+" "+rt.Path] = true
	}
	return routes
}

func TestRegisterBillingRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterBillingRoutes(r.Group("/api/v1/billing"), nil, nil)

	routes := registeredRoutes(r)
	for _, path := range []string{
		"POST /api/v1/billing/create_subscription",
		"POST /api/v1/billing/get_subscription",
		"POST /api/v1/billing/list_transactions",
		"POST /api/v1/billing/list_logs",
		"POST /api/v1/billing/checkout",
		"POST /api/v1/billing/renew",
		"POST /api/v1/billing/change_plan",
		"POST /api/v1/billing/cancel_now",
		"POST /api/v1/billing/sync",
		"POST /api/v1/billing/last_transaction",
		"POST /api/v1/billing/has_pending",
	} {
		require.True(t, routes[path], "missing %s", path)
	}
}

func TestRegisterCardRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterCardRoutes(r.Group("/api/v1/card"), nil)

	routes := registeredRoutes(r)
	for _, path := range []string{
		"POST /api/v1/card/client_token",
		"POST /api/v1/card/update_card",
		"POST /api/v1/card/card_information",
		"POST /api/v1/card/fix_payment",
	} {
		require.True(t, routes[path], "missing %s", path)
	}
}

func TestRegisterDirectRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterDirectRoutes(r.Group("/api/v1/direct"), nil)

	routes := registeredRoutes(r)
	for _, path := range []string{
		"POST /api/v1/direct/claim",
		"POST /api/v1/direct/unclaim",
		"POST /api/v1/direct/approve_pending",
	} {
		require.True(t, routes[path], "missing %s", path)
	}
}

func TestRegisterAdminRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterAdminRoutes(r.Group("/api/v1/admin"), nil, nil)

	routes := registeredRoutes(r)
	for _, path := range []string{
		"POST /api/v1/admin/list_transactions",
		"POST /api/v1/admin/list_subscription_logs",
		"POST /api/v1/admin/get_billing_statistic",
		"POST /api/v1/admin/run_daily_snapshot",
	} {
		require.True(t, routes[path], "missing %s", path)
	}
}

func TestRegisterWebhookRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterWebhookRoutes(r.Group("/api/v1/webhook"), nil, nil)

	routes := registeredRoutes(r)
	require.True(t, routes["POST /api/v1/webhook/:gateway"])
}
