package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fieldworks/fleet-tracking/config"
	"github.com/fieldworks/fleet-tracking/internal/adapter/http/handler"
	"github.com/fieldworks/fleet-tracking/internal/adapter/http/middleware"
	"github.com/fieldworks/fleet-tracking/pkg/logger"
	wrap "github.com/fieldworks/fleet-tracking/pkg/logger/wrapper"
	"github.com/fieldworks/fleet-tracking/pkg/wshub"
)

const serverIPAddress = "%s:%s"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	health   *handler.Health
	auth     *handler.Auth
	gps      *handler.GPS
	dispatch *handler.Dispatch
	ws       *handler.DispatchWS
}

func New(
	cfg config.Config,
	authService handler.AuthService,
	gpsService handler.GPSService,
	dispatchService handler.DispatchService,
	hub *wshub.Hub,
	logger logger.Logger,
) (*API, error) {
	if authService == nil {
		return nil, errors.New("auth service is required")
	}

	addr := fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Server.Port)

	routes := &handlers{
		health:   handler.NewHealth(cfg.ServiceName, logger),
		auth:     handler.NewAuth(authService, logger),
		gps:      handler.NewGPS(gpsService, logger),
		dispatch: handler.NewDispatch(dispatchService, logger),
		ws:       handler.NewDispatchWS(hub, logger),
	}

	mid := middleware.NewMiddleware(authService, logger)

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      mid,
		addr:   addr,
		cfg:    cfg,
		log:    logger,
	}

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	setupRoutes(api.mux, routes, mid)

	return api, nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

// withMiddleware applies the global middleware chain to the mux.
func (a *API) withMiddleware() http.Handler {
	chain := a.m.Metrics(a.cfg.ServiceName)(a.mux)
	chain = a.m.Logging(chain)
	chain = a.m.Auth(chain)
	chain = a.m.RequestID(chain)
	return a.m.Recover(chain)
}
