package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/Alturino/grocery/internal/config"
	"github.com/Alturino/grocery/internal/constants"
	"github.com/Alturino/grocery/internal/infra"
	"github.com/Alturino/grocery/internal/log"
	"github.com/Alturino/grocery/internal/middleware"
	inOtel "github.com/Alturino/grocery/internal/otel"
	"github.com/Alturino/grocery/notification/internal/controller"
	"github.com/Alturino/grocery/notification/internal/otel"
	"github.com/Alturino/grocery/notification/internal/service"
	"github.com/Alturino/grocery/notification/internal/worker"
)

// RunNotificationService consumes order.placed events into the per user feed
// and serves the feed under /api/notifications.
func RunNotificationService(c context.Context) {
	c, span := otel.Tracer.Start(c, "RunNotificationService")
	defer span.End()

	cfg := config.Get(c, "notification")

	logger := log.Get(filepath.Join("/var/log/", constants.AppNotification+".log"), cfg.Application.Env).
		With().
		Str(log.KeyAppName, constants.AppNotification).
		Str(log.KeyTag, "main RunNotificationService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	shutdownFuncs, err := inOtel.InitOtelSdk(c, constants.AppNotification, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		err = inOtel.ShutdownOtel(logger.WithContext(context.WithoutCancel(c)), shutdownFuncs)
		if err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	cache := infra.NewCacheClient(c, cfg.Cache)
	defer func() {
		if err := cache.Close(); err != nil {
			err = fmt.Errorf("failed closing cache with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()
	logger.Info().Msg("initialized cache")

	logger = logger.With().Str(log.KeyProcess, "initializing broker").Logger()
	logger.Info().Msg("initializing broker")
	broker, err := infra.NewBroker(c, cfg.Broker)
	if err != nil {
		err = fmt.Errorf("failed initializing broker with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		if err := broker.Close(); err != nil {
			err = fmt.Errorf("failed closing broker with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()
	if err = broker.DeclareQueue(constants.QueueOrderPlaced); err != nil {
		err = fmt.Errorf("failed declaring queue=%s with error=%w", constants.QueueOrderPlaced, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	deliveries, err := broker.Consume(constants.QueueOrderPlaced, constants.AppNotification)
	if err != nil {
		err = fmt.Errorf("failed consuming queue with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Str(log.KeyQueue, constants.QueueOrderPlaced).Msg("initialized broker")

	notificationService := service.NewNotificationService(cache, cfg.Cache.TTL)

	logger = logger.With().Str(log.KeyProcess, "starting worker").Logger()
	logger.Info().Msg("starting notification worker")
	span.AddEvent("start notification worker")
	notificationWorker := worker.NewNotificationWorker(notificationService, deliveries, worker.DefaultInterval)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go notificationWorker.StartWorker(logger.WithContext(c), &wg)
	defer wg.Wait()

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	api := router.PathPrefix("/api").Subrouter()
	api.Use(
		otelmux.Middleware(constants.AppNotification),
		middleware.Logging,
		middleware.Metrics,
		middleware.RecoverPanic,
		middleware.Auth(cfg.Application.SecretKey),
	)
	controller.AttachNotificationController(api, notificationService)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "serving").Logger()
	infra.Serve(logger.WithContext(c), cfg.Application, router, constants.AppNotification)
}
