package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	addressController "github.com/Alturino/grocery/address/internal/controller"
	addressService "github.com/Alturino/grocery/address/internal/service"
	cartController "github.com/Alturino/grocery/cart/internal/controller"
	cartService "github.com/Alturino/grocery/cart/internal/service"
	helpController "github.com/Alturino/grocery/help/internal/controller"
	helpService "github.com/Alturino/grocery/help/internal/service"
	"github.com/Alturino/grocery/internal/config"
	"github.com/Alturino/grocery/internal/constants"
	"github.com/Alturino/grocery/internal/coupon"
	"github.com/Alturino/grocery/internal/infra"
	"github.com/Alturino/grocery/internal/log"
	"github.com/Alturino/grocery/internal/middleware"
	inOtel "github.com/Alturino/grocery/internal/otel"
	"github.com/Alturino/grocery/internal/pricing"
	"github.com/Alturino/grocery/internal/repository"
	orderController "github.com/Alturino/grocery/order/internal/controller"
	orderService "github.com/Alturino/grocery/order/internal/service"
	userController "github.com/Alturino/grocery/user/internal/controller"
	userService "github.com/Alturino/grocery/user/internal/service"
	wishlistController "github.com/Alturino/grocery/wishlist/internal/controller"
	wishlistService "github.com/Alturino/grocery/wishlist/internal/service"
)

// RunApi serves every storefront endpoint under /api until c is cancelled.
func RunApi(c context.Context) {
	c, span := inOtel.Tracer.Start(c, "RunApi")
	defer span.End()

	cfg := config.Get(c, "api")

	logger := log.Get(filepath.Join("/var/log/", constants.AppApi+".log"), cfg.Application.Env).
		With().
		Str(log.KeyAppName, constants.AppApi).
		Str(log.KeyTag, "main RunApi").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	shutdownFuncs, err := inOtel.InitOtelSdk(c, constants.AppApi, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		c = logger.WithContext(context.WithoutCancel(c))
		err = inOtel.ShutdownOtel(c, shutdownFuncs)
		if err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	db := infra.NewDatabaseClient(c, cfg.Database)
	defer func() {
		logger = logger.With().Str(log.KeyProcess, "closing database").Logger()
		logger.Info().Msg("closing database")
		db.Close()
		logger.Info().Msg("closed database")
	}()
	queries := repository.New(db)
	logger.Info().Msg("initialized database")

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	cache := infra.NewCacheClient(c, cfg.Cache)
	defer func() {
		logger = logger.With().Str(log.KeyProcess, "closing cache").Logger()
		logger.Info().Msg("closing cache")
		if err := cache.Close(); err != nil {
			err = fmt.Errorf("failed closing cache with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("closed cache")
	}()
	logger.Info().Msg("initialized cache")

	logger = logger.With().Str(log.KeyProcess, "initializing broker").Logger()
	logger.Info().Str(log.KeyQueue, constants.QueueOrderPlaced).Msg("initializing broker")
	broker, err := infra.NewBroker(c, cfg.Broker)
	if err != nil {
		err = fmt.Errorf("failed initializing broker with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger = logger.With().Str(log.KeyProcess, "closing broker").Logger()
		logger.Info().Msg("closing broker")
		if err := broker.Close(); err != nil {
			err = fmt.Errorf("failed closing broker with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("closed broker")
	}()
	if err = broker.DeclareQueue(constants.QueueOrderPlaced); err != nil {
		err = fmt.Errorf("failed declaring queue=%s with error=%w", constants.QueueOrderPlaced, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("initialized broker")

	logger = logger.With().Str(log.KeyProcess, "initializing services").Logger()
	logger.Info().Msg("initializing services")
	pricingConfig := pricing.ConfigFrom(cfg.Pricing)
	users := userService.NewUserService(queries, cfg.Application)
	carts := cartService.NewCartService(queries, cache, cfg.Cache.TTL, pricingConfig)
	orders := orderService.NewOrderService(db, queries, cache, broker, coupon.Default, pricingConfig)
	addresses := addressService.NewAddressService(queries)
	wishlists := wishlistService.NewWishlistService(queries)
	helps := helpService.NewHelpService(queries)
	logger.Info().Msg("initialized services")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler())

	api := router.PathPrefix("/api").Subrouter()
	api.Use(otelmux.Middleware(constants.AppApi), middleware.Logging, middleware.Metrics, middleware.RecoverPanic)
	userController.AttachUserController(api, users)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Auth(cfg.Application.SecretKey))
	cartController.AttachCartController(protected, carts)
	orderController.AttachOrderController(protected, orders)
	addressController.AttachAddressController(protected, addresses)
	wishlistController.AttachWishlistController(protected, wishlists)
	helpController.AttachHelpController(protected, helps)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "serving").Logger()
	infra.Serve(logger.WithContext(c), cfg.Application, router, constants.AppApi)
}
