package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fernpay/cashier/docs"
	"github.com/fernpay/cashier/internal/app/api/handlers"
	mw "github.com/fernpay/cashier/internal/app/api/middleware"
	"github.com/fernpay/cashier/internal/app/service/gateway"
	notificationlog "github.com/fernpay/cashier/internal/app/service/notification_log"
	"github.com/fernpay/cashier/internal/app/service/statistics"
	subsvc "github.com/fernpay/cashier/internal/app/service/subscription"
	cfgpkg "github.com/fernpay/cashier/pkg/config"
	metrics "github.com/fernpay/cashier/pkg/metrics"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

func registerRoutes(r *gin.Engine, log *zap.SugaredLogger, reg *gateway.Registry, sub *subsvc.Service, cfg *cfgpkg.Config, stats *statistics.Service, notifLog *notificationlog.Service) {
	// Prometheus metrics
	if cfg != nil && cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}
	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())

	// Billing APIs (shared across gateways)
	handlers.RegisterBillingRoutes(apiV1.Group("/billing"), reg, sub)

	// Gateway-specific capability APIs
	handlers.RegisterCardRoutes(apiV1.Group("/card"), reg)
	handlers.RegisterDirectRoutes(apiV1.Group("/direct"), reg)

	// Admin APIs
	handlers.RegisterAdminRoutes(apiV1.Group("/admin"), sub, stats)

	// Gateway notification intake
	handlers.RegisterWebhookRoutes(apiV1.Group("/webhook"), reg, notifLog)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
