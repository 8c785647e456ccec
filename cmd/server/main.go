package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ac-service-backend/internal/analytics"
	"github.com/ukydev/ac-service-backend/internal/audit"
	"github.com/ukydev/ac-service-backend/internal/auth"
	"github.com/ukydev/ac-service-backend/internal/config"
	"github.com/ukydev/ac-service-backend/internal/db"
	"github.com/ukydev/ac-service-backend/internal/events"
	"github.com/ukydev/ac-service-backend/internal/handlers"
	"github.com/ukydev/ac-service-backend/internal/metrics"
	"github.com/ukydev/ac-service-backend/internal/middleware"
	"github.com/ukydev/ac-service-backend/internal/storage"
)

const (
	eventQueueSize  = 256
	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	setupLogger(cfg)

	if err := run(cfg); err != nil {
		log.WithError(err).Fatal("Server stopped with error")
	}
}

func setupLogger(cfg *config.Config) {
	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func run(cfg *config.Config) error {
	logger := log.StandardLogger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	client, err := db.ConnectMongo(connectCtx, cfg.Mongo.URI)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.WithError(err).Warn("Failed to disconnect from MongoDB")
		}
	}()
	logger.Info("Connected to MongoDB")

	database := client.Database(cfg.Mongo.Database)
	indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = db.EnsureIndexes(indexCtx, database)
	cancel()
	if err != nil {
		return err
	}
	store := db.NewStore(database)

	authService, err := auth.NewService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.Security.BcryptCost)
	if err != nil {
		return err
	}

	uploads, err := storage.NewUploads(cfg.Uploads.Dir)
	if err != nil {
		return err
	}

	hub := events.NewHub(logger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	sinks, closeSinks := buildSinks(cfg, hub, logger)
	bus := events.NewBus(logger, eventQueueSize, sinks...)
	bus.Start()

	recorder := audit.NewRecorder(store.AuditLogs, store.Users, logger)

	loc := cfg.Location()
	rollup := analytics.NewRollup(store.Bookings, store.Snapshots, loc, logger)
	scheduler := analytics.NewScheduler(rollup, cfg.Analytics.Schedule, logger)
	if err := scheduler.Start(); err != nil {
		return err
	}

	metrics.Register()

	generalLimiter := middleware.NewRateLimitMiddleware(cfg.RateLimit.GeneralRequests, cfg.RateLimit.Window, "")
	authLimiter := middleware.NewRateLimitMiddleware(cfg.RateLimit.AuthRequests, cfg.RateLimit.Window,
		"Too many authentication attempts, please try again later.")
	go pruneLimiters(ctx, cfg.RateLimit.Window, generalLimiter, authLimiter)

	router := handlers.NewRouter(handlers.Dependencies{
		AuthService: authService,
		Users:       store.Users,
		Bookings:    store.Bookings,
		Inquiries:   store.Inquiries,
		Reviews:     store.Reviews,
		AuditLogs:   store.AuditLogs,
		Reports:     analytics.NewReports(store.Snapshots, loc),
		Files:       uploads,
		Publisher:   bus,
		Auditor:     recorder,
		Hub:         hub,
		UploadDir:   uploads.Root(),
		HealthCheck: func(ctx context.Context) error { return client.Ping(ctx, nil) },

		GeneralLimiter: generalLimiter,
		AuthLimiter:    authLimiter,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.WithFields(log.Fields{
			"port":        cfg.Server.Port,
			"environment": cfg.Server.Environment,
		}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	case err := <-serverErr:
		if err != nil {
			logger.WithError(err).Error("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	scheduler.Stop()
	if err := bus.Close(shutdownCtx); err != nil {
		logger.WithError(err).Warn("Event bus did not drain")
	}
	closeSinks()
	if err := recorder.Wait(shutdownCtx); err != nil {
		logger.WithError(err).Warn("Pending audit writes abandoned")
	}
	stopHub()

	logger.Info("Server exited")
	return nil
}

// buildSinks always includes the websocket hub; MQTT and Telegram are
// enabled by configuration. A sink that fails to start is skipped.
func buildSinks(cfg *config.Config, hub *events.Hub, logger log.FieldLogger) ([]events.Sink, func()) {
	sinks := []events.Sink{hub}
	closers := []func(){}

	if cfg.MQTT.BrokerURL != "" {
		sink, err := events.NewMQTTSink(cfg.MQTT, logger)
		if err != nil {
			logger.WithError(err).Warn("MQTT sink disabled")
		} else {
			sinks = append(sinks, sink)
			closers = append(closers, sink.Close)
		}
	}

	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		sink, err := events.NewTelegramSink(cfg.Telegram.BotToken, cfg.Telegram.ChatID, &http.Client{Timeout: 10 * time.Second})
		if err != nil {
			logger.WithError(err).Warn("Telegram sink disabled")
		} else {
			sinks = append(sinks, sink)
		}
	}

	return sinks, func() {
		for _, closeSink := range closers {
			closeSink()
		}
	}
}

func pruneLimiters(ctx context.Context, every time.Duration, limiters ...*middleware.RateLimitMiddleware) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, limiter := range limiters {
				limiter.Prune()
			}
		}
	}
}
