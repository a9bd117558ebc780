package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/fernpay/cashier/internal/app/api/server"
	"github.com/fernpay/cashier/internal/app/service/gateway"
	notificationlog "github.com/fernpay/cashier/internal/app/service/notification_log"
	"github.com/fernpay/cashier/internal/app/service/statistics"
	"github.com/fernpay/cashier/internal/app/service/subscription"
	"github.com/fernpay/cashier/internal/platform/cardvault"
	"github.com/fernpay/cashier/internal/platform/db"
	"github.com/fernpay/cashier/pkg/config"
	"github.com/fernpay/cashier/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	server.Module,
	subscription.Module,
	gateway.Module,
	cardvault.Module,
	statistics.Module,
	notificationlog.Module,
)
