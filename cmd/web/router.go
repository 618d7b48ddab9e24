package main

import (
	"net/http"
	"strings"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	"github.com/liftmate/liftmate/internal/auth"
	"github.com/liftmate/liftmate/internal/posting"
	"github.com/liftmate/liftmate/internal/realtime"
	"github.com/liftmate/liftmate/internal/rides"
	"github.com/liftmate/liftmate/internal/web"
	"github.com/liftmate/liftmate/pkg/common"
	"github.com/liftmate/liftmate/pkg/config"
	"github.com/liftmate/liftmate/pkg/middleware"
	"github.com/liftmate/liftmate/pkg/ratelimit"
	ws "github.com/liftmate/liftmate/pkg/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const postScope = "post"

// app is everything the router needs. login is nil when posting is open.
type app struct {
	cfg        *config.Config
	production bool
	rides      *rides.Service
	posting    *posting.Service
	login      auth.SessionStarter
	hub        *ws.Hub
	limiter    ratelimit.Allower
	checks     map[string]func() error
}

func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func newRouter(a app) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(a.cfg.Server.ServiceName))
	router.Use(middleware.SecurityHeaders(a.production))

	// Health check and metrics
	router.GET("/healthz", common.HealthCheck(a.cfg.Server.ServiceName, serviceVersion))
	router.GET("/health/ready", common.HealthCheckWithDeps(a.cfg.Server.ServiceName, serviceVersion, a.checks))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// A nil interface keeps the gate open; a typed nil would not
	var provider auth.Provider
	if a.login != nil {
		provider = a.login
		auth.NewHandler(a.login, a.production).RegisterRoutes(router)
	}

	origins := splitOrigins(a.cfg.Server.CORSOrigins)
	maxImage := int64(a.cfg.Storage.MaxFileSizeMB) << 20
	postGuard := middleware.RateLimit(a.limiter, postScope)

	api := router.Group("/api/v1")
	api.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	api.Use(timeout.New(
		timeout.WithTimeout(time.Duration(a.cfg.Server.RequestTimeout)*time.Second),
		timeout.WithResponse(func(c *gin.Context) {
			common.ErrorResponse(c, http.StatusGatewayTimeout, "request timed out")
		}),
	))
	// multipart overhead on top of the selfie itself
	api.Use(middleware.MaxBodySize(maxImage + 1<<20))

	rides.NewHandler(a.rides).RegisterRoutes(api)
	postingAPI := api.Group("", auth.Gate(provider))
	posting.NewHandler(a.posting, maxImage).RegisterRoutes(postingAPI, postGuard)

	realtime.NewHandler(a.hub, origins).RegisterRoutes(router, api)

	pages := web.NewHandler(a.rides, a.posting, provider, web.Options{
		MaxImageBytes: maxImage,
		SecureCookies: a.production,
	})
	pages.RegisterRoutes(router, postGuard)
	router.NoRoute(pages.NotFound)

	return router
}
