package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fieldworks/fleet-tracking/config"
	"github.com/fieldworks/fleet-tracking/internal/adapter/http/server"
	rabbitadapter "github.com/fieldworks/fleet-tracking/internal/adapter/rabbit"
	"github.com/fieldworks/fleet-tracking/internal/adapter/rediscache"
	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/fieldworks/fleet-tracking/internal/service/auth"
	"github.com/fieldworks/fleet-tracking/internal/service/dispatch"
	gpssvc "github.com/fieldworks/fleet-tracking/internal/service/gps"
	"github.com/fieldworks/fleet-tracking/pkg/logger"
	"github.com/fieldworks/fleet-tracking/pkg/postgres"
	"github.com/fieldworks/fleet-tracking/pkg/rabbit"
	"github.com/fieldworks/fleet-tracking/pkg/trm"
	"github.com/fieldworks/fleet-tracking/pkg/wshub"

	repo "github.com/fieldworks/fleet-tracking/internal/adapter/postgres"
)

// App owns every long-lived resource of the tracking service: the database
// pool, the optional broker and cache, the WebSocket hub and the HTTP server.
type App struct {
	postgresDB *postgres.PostgreDB
	rabbitMQ   *rabbit.RabbitMQ
	cache      *rediscache.LocationCache
	hub        *wshub.Hub
	httpServer *server.API

	cfg config.Config
	log logger.Logger
}

func New(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	postgresDB, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Error(ctx, "Failed to setup database", err)
		return nil, err
	}

	userRepo := repo.NewUserRepo(postgresDB.Pool)
	gpsRepo := repo.NewGPSRepo(postgresDB.Pool)
	jobRepo := repo.NewJobRepo(postgresDB.Pool)
	refreshRepo := repo.NewRefreshTokenRepo(postgresDB.Pool)
	txManager := trm.New(postgresDB.Pool)

	hub := wshub.NewHub(log)

	// RabbitMQ and Redis are optional: the service degrades to
	// database-backed reads and no live feed when they are off.
	var rabbitMQ *rabbit.RabbitMQ
	var broker *rabbitadapter.LocationBroker
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err = rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
		if err != nil {
			log.Error(ctx, "Failed to connect to RabbitMQ", err)
			postgresDB.Pool.Close()
			return nil, err
		}
		broker, err = rabbitadapter.NewLocationBroker(rabbitMQ)
		if err != nil {
			log.Error(ctx, "Failed to setup location broker", err)
			rabbitMQ.Close(ctx)
			postgresDB.Pool.Close()
			return nil, err
		}

		// Every consumed fix goes to all connected dispatch consoles.
		if err := broker.ConsumeLocations(ctx, func(ctx context.Context, update models.LiveLocationUpdate) {
			hub.Broadcast(update)
		}); err != nil {
			log.Error(ctx, "Failed to start location consumer", err)
			rabbitMQ.Close(ctx)
			postgresDB.Pool.Close()
			return nil, err
		}
	}

	var cache *rediscache.LocationCache
	if cfg.Redis.Enabled {
		cache = rediscache.New(cfg.Redis.GetAddr(), cfg.Redis.Password, cfg.Redis.TTL)
		if err := cache.Ping(ctx); err != nil {
			log.Warn(ctx, "Redis unavailable, continuing without location cache", "error", err.Error())
			cache = nil
		}
	}

	tokenService := auth.NewTokenService(
		cfg.Auth.JWTSecret,
		userRepo,
		refreshRepo,
		txManager,
		cfg.Auth.RefreshTokenTTL,
		cfg.Auth.AccessTokenTTL,
		log,
	)
	authService := auth.NewAuthService(userRepo, tokenService, log)

	var dispatchCache dispatch.LocationCache
	var gpsCache gpssvc.LocationCache
	if cache != nil {
		dispatchCache = cache
		gpsCache = cache
	}

	var publisher gpssvc.LocationPublisher
	if broker != nil {
		publisher = broker
	}

	dispatchService := dispatch.New(userRepo, gpsRepo, jobRepo, dispatchCache, log)
	gpsService := gpssvc.New(gpsRepo, jobRepo, publisher, gpsCache, log)

	httpServer, err := server.New(cfg, authService, gpsService, dispatchService, hub, log)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		if rabbitMQ != nil {
			rabbitMQ.Close(ctx)
		}
		postgresDB.Pool.Close()
		return nil, err
	}

	return &App{
		postgresDB: postgresDB,
		rabbitMQ:   rabbitMQ,
		cache:      cache,
		hub:        hub,
		httpServer: httpServer,
		cfg:        cfg,
		log:        log,
	}, nil
}

// Start runs the HTTP server and blocks until a shutdown signal or a fatal
// server error.
func (a *App) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.httpServer.Run(ctx, errCh)
	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "fleet tracking service closed")
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info(ctx, "fleet tracking service started")

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

func (a *App) close(ctx context.Context) {
	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}

	if a.hub != nil {
		a.hub.Close()
	}

	if a.rabbitMQ != nil {
		if err := a.rabbitMQ.Close(ctx); err != nil {
			a.log.Warn(ctx, "Failed to close RabbitMQ connection", "error", err.Error())
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn(ctx, "Failed to close Redis client", "error", err.Error())
		}
	}

	if a.postgresDB != nil && a.postgresDB.Pool != nil {
		a.postgresDB.Pool.Close()
	}
}
