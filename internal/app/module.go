package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/lifedash/lifedash/internal/app/api/server"
	"github.com/lifedash/lifedash/internal/app/service/billing"
	"github.com/lifedash/lifedash/internal/app/service/coupon"
	"github.com/lifedash/lifedash/internal/app/service/product"
	"github.com/lifedash/lifedash/internal/app/service/tracker"
	"github.com/lifedash/lifedash/internal/app/service/user"
	"github.com/lifedash/lifedash/internal/platform/db"
	"github.com/lifedash/lifedash/pkg/config"
	"github.com/lifedash/lifedash/pkg/logger"
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
	coupon.Module,
	billing.Module,
	tracker.Module,
	user.Module,
	product.Module,
)
