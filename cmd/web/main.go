package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/liftmate/liftmate/internal/auth"
	"github.com/liftmate/liftmate/internal/posting"
	"github.com/liftmate/liftmate/internal/posting/capture"
	"github.com/liftmate/liftmate/internal/realtime"
	"github.com/liftmate/liftmate/internal/rides"
	"github.com/liftmate/liftmate/pkg/config"
	"github.com/liftmate/liftmate/pkg/database"
	"github.com/liftmate/liftmate/pkg/events"
	"github.com/liftmate/liftmate/pkg/health"
	"github.com/liftmate/liftmate/pkg/logger"
	"github.com/liftmate/liftmate/pkg/ratelimit"
	"github.com/liftmate/liftmate/pkg/redis"
	"github.com/liftmate/liftmate/pkg/storage"
	"github.com/liftmate/liftmate/pkg/validation"
	ws "github.com/liftmate/liftmate/pkg/websocket"
	"go.uber.org/zap"
)

const (
	serviceName    = "liftmate-web"
	serviceVersion = "1.0.0"
	janitorEvery   = time.Minute
)

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	production := cfg.Server.Environment == "production"
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Server.Environment,
			Release:     serviceName + "@" + serviceVersion,
		}); err != nil {
			logger.Warn("Failed to initialize Sentry", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	validation.SetLocation(cfg.Posting.Location())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Row store
	if cfg.Database.Migrate {
		if err := database.Migrate(cfg.Database.MigrationURL()); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}
	pool, err := database.NewPostgresPool(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(pool)
	logger.Info("Connected to PostgreSQL database")

	checks := map[string]func() error{
		"database": health.DatabaseChecker(pool),
	}

	// Drafts live in Redis when it is configured so any instance can serve them
	var (
		drafts  posting.DraftStore
		limiter ratelimit.Allower
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		logger.Info("Connected to Redis")

		drafts = posting.NewRedisDraftStore(redisClient, cfg.Posting.DraftTTL())
		if cfg.RateLimit.Enabled {
			limiter = ratelimit.NewLimiter(redisClient.Client, cfg.RateLimit)
		}
		checks["redis"] = health.RedisChecker(redisClient.Client)
	} else {
		drafts = posting.NewMemoryDraftStore(cfg.Posting.DraftTTL())
		logger.Info("Redis disabled, keeping drafts in memory")
	}

	var bucket storage.Storage
	if b, err := storage.New(ctx, cfg.Storage); err != nil {
		logger.Warn("Selfie bucket unavailable, selfies will be embedded inline", zap.Error(err))
	} else {
		bucket = b
	}

	// Refresh signal
	hub := ws.NewHub()
	go hub.Run()
	defer hub.Stop()

	var publisher events.Publisher
	if cfg.Events.NATSURL != "" {
		np, err := events.ConnectNATS(cfg.Events.NATSURL, cfg.Events.Subject, instanceName(), realtime.Sink(hub))
		if err != nil {
			logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		publisher = np
		logger.Info("Refresh signal shared over NATS", zap.String("subject", cfg.Events.Subject))
	} else {
		publisher = events.NewLocalPublisher(realtime.Sink(hub))
	}
	defer publisher.Close()

	ridesService := rides.NewService(rides.NewRepository(pool), publisher, cfg.Posting.CountryCode)

	maxImage := int64(cfg.Storage.MaxFileSizeMB) << 20
	postingService := posting.NewService(
		drafts,
		capture.NewRegistry(cfg.Posting.CaptureDir, maxImage),
		ridesService,
		bucket,
		cfg.Posting.DraftTTL(),
	)
	janitorDone := postingService.StartJanitor(ctx, janitorEvery)

	// Posting is open to everyone unless a Facebook app is configured
	var login auth.SessionStarter
	if cfg.Auth.FacebookEnabled() {
		sessions := auth.NewSessions(cfg.Auth.SessionSecret, time.Duration(cfg.Auth.SessionHours)*time.Hour, production)
		login = auth.NewFacebook(auth.FacebookConfig{
			AppID:       cfg.Auth.FacebookAppID,
			AppSecret:   cfg.Auth.FacebookAppSecret,
			RedirectURL: strings.TrimRight(cfg.Server.PublicURL, "/") + "/auth/facebook/callback",
		}, sessions)
	}

	router := newRouter(app{
		cfg:        cfg,
		production: production,
		rides:      ridesService,
		posting:    postingService,
		login:      login,
		hub:        hub,
		limiter:    limiter,
		checks:     checks,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("LiftMate starting", zap.String("port", cfg.Server.Port), zap.Bool("facebook_login", login != nil))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// capture spool files must be gone before the process exits
	select {
	case <-janitorDone:
	case <-shutdownCtx.Done():
		logger.Warn("Capture streams not released before shutdown deadline")
	}
	logger.Info("Server exited")
}

// instanceName tags the refresh signals this instance publishes
func instanceName() string {
	if host, err := os.Hostname(); err == nil && host != "" {
		return host + "-" + uuid.New().String()[:8]
	}
	return uuid.New().String()
}
