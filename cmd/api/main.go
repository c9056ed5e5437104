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
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/booking-api/internal/audit"
	"github.com/BruksfildServices01/booking-api/internal/config"
	dbpkg "github.com/BruksfildServices01/booking-api/internal/db"
	"github.com/BruksfildServices01/booking-api/internal/infra/broker"
	"github.com/BruksfildServices01/booking-api/internal/infra/payment"
	"github.com/BruksfildServices01/booking-api/internal/infra/ratelimit"
	"github.com/BruksfildServices01/booking-api/internal/logging"
	"github.com/BruksfildServices01/booking-api/internal/monitoring"
	"github.com/BruksfildServices01/booking-api/internal/routes"
	"github.com/BruksfildServices01/booking-api/internal/timezone"
	"github.com/BruksfildServices01/booking-api/internal/validators"
)

var version = "dev"

func main() {

	cfg := config.Load()
	log := logging.New("booking-api", cfg.AppEnv, cfg.LogLevel)

	if !timezone.IsValid(cfg.Timezone) {
		log.WithField("timezone", cfg.Timezone).Warnf("unknown TIMEZONE, using %s", timezone.DefaultTimezone)
	}

	if err := monitoring.InitSentry(cfg.SentryDSN, cfg.AppEnv, version); err != nil {
		log.WithError(err).Warn("sentry disabled")
	}
	defer monitoring.FlushSentry()

	monitoring.Init()
	validators.Init()

	db := dbpkg.NewDB(cfg, log)

	// ======================================================
	// OPTIONAL INFRA
	// ======================================================
	deps := routes.Deps{Log: log}

	auditDispatcher := audit.NewDispatcher(audit.New(db), log, 256)
	defer auditDispatcher.Close()
	deps.Audit = auditDispatcher

	if len(cfg.KafkaBrokers) > 0 {
		kp, err := broker.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.BrokerPublishTimeout)
		if err != nil {
			log.WithError(err).Warn("kafka unavailable, lifecycle events disabled")
		} else {
			defer func() { _ = kp.Close() }()
			deps.AppointmentEvents = kp
		}
	}

	if cfg.RabbitMQURL != "" {
		rp, err := broker.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitNotificationQueue, cfg.BrokerPublishTimeout)
		if err != nil {
			log.WithError(err).Warn("rabbitmq unavailable, notification fan-out disabled")
		} else {
			defer rp.Close()
			deps.NotificationEvents = rp
		}
	}

	if cfg.MercadoPagoAccessToken != "" {
		mp, err := payment.NewMercadoPago(cfg.MercadoPagoAccessToken)
		if err != nil {
			log.WithError(err).Warn("mercadopago disabled")
		} else {
			deps.Gateway = mp
		}
	}

	if cfg.RedisAddr != "" {
		rdb := ratelimit.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.WithError(err).Warn("redis unreachable, limiter fails open until it recovers")
		}
		cancel()

		deps.Limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimitPerMinute, time.Minute, "booking")
	}

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, db, cfg, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logging.LogInfo(log, "server starting", logrus.Fields{
		"addr":         cfg.Addr(),
		"env":          cfg.AppEnv,
		"timezone":     cfg.Timezone,
		"kafka":        deps.AppointmentEvents != nil,
		"rabbitmq":     deps.NotificationEvents != nil,
		"payments":     deps.Gateway != nil,
		"rate_limiter": deps.Limiter != nil,
	})

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.LogError(log, "server forced to shutdown", err, nil)
	}
	log.Info("server exited")
}
