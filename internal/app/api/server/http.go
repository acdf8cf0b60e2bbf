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

	"github.com/lifedash/lifedash/docs"
	"github.com/lifedash/lifedash/internal/app/api/handlers"
	mw "github.com/lifedash/lifedash/internal/app/api/middleware"
	billingsvc "github.com/lifedash/lifedash/internal/app/service/billing"
	couponsvc "github.com/lifedash/lifedash/internal/app/service/coupon"
	productsvc "github.com/lifedash/lifedash/internal/app/service/product"
	trackersvc "github.com/lifedash/lifedash/internal/app/service/tracker"
	usersvc "github.com/lifedash/lifedash/internal/app/service/user"
	cfgpkg "github.com/lifedash/lifedash/pkg/config"
	metrics "github.com/lifedash/lifedash/pkg/metrics"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

func registerRoutes(
	r *gin.Engine,
	log *zap.SugaredLogger,
	cfg *cfgpkg.Config,
	coupons *couponsvc.Service,
	billing *billingsvc.Service,
	trackers *trackersvc.Service,
	users *usersvc.Service,
	products *productsvc.Service,
) {
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

	// Signed-in routes: tracker dashboards
	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), mw.AuthMiddleware(cfg, users))
	handlers.RegisterTrackerRoutes(apiV1, trackers)

	// Admin back-office, gated server-side on is_admin
	admin := apiV1.Group("/admin")
	admin.Use(mw.AdminRequired())
	handlers.RegisterAdminUserRoutes(admin, users)
	handlers.RegisterAdminProductRoutes(admin, products)
	handlers.RegisterAdminCouponRoutes(admin, coupons)
	handlers.RegisterAdminBillingRoutes(admin, billing)
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
