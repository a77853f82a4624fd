package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/znz-systems/linkboard/internal/backend"
	"github.com/znz-systems/linkboard/internal/browser"
	"github.com/znz-systems/linkboard/internal/config"
	"github.com/znz-systems/linkboard/internal/connection"
	"github.com/znz-systems/linkboard/internal/linkedin"
	"github.com/znz-systems/linkboard/internal/oauthreturn"
	"github.com/znz-systems/linkboard/internal/ratelimit"
	"github.com/znz-systems/linkboard/internal/web"
	"github.com/znz-systems/linkboard/internal/web/handlers"
	"github.com/znz-systems/linkboard/internal/web/render"
	"github.com/znz-systems/linkboard/static"
	"github.com/znz-systems/linkboard/templates"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.LogLevel, cfg.LogFormat))

	// Backend
	client := backend.NewClient(cfg.APIURL, cfg.UserID, &http.Client{})

	// Services
	view := connection.NewView()
	poller := connection.NewPoller(client, view, connection.PollerOptions{
		Interval: cfg.PollInterval,
		Jitter:   cfg.PollJitter,
	})
	controller := connection.NewController(client, poller, view, cfg.UserID)
	people := browser.New(client)
	completer := oauthreturn.NewService(client, cfg.UserID, cfg.OAuthRedirectDelay)

	// Rate limiter
	limiter := ratelimit.NewLimiter(cfg.ActionRateLimitRPS, cfg.ActionRateLimitBurst)

	// Renderer
	renderer := render.NewRenderer(templates.FS, handlers.Funcs())

	// Router
	router := web.NewRouter(web.RouterDeps{
		ConnectionHandler: handlers.NewConnectionHandler(controller, view, renderer, poller.Interval(), cfg.SecureCookies),
		DashboardHandler:  handlers.NewDashboardHandler(people, client, renderer),
		SearchHandler:     handlers.NewSearchHandler(client, renderer),
		AuthReturnHandler: handlers.NewAuthReturnHandler(completer, renderer),
		HealthHandler:     handlers.NewHealthHandler(view),
		Relay:             linkedin.NewRelay(cfg.LinkedInUpstreamURL, &http.Client{}),
		Limiter:           limiter,
		StaticFS:          static.FS,
	})

	// Background work stops when the process is asked to shut down.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go poller.Run(ctx)
	go limiter.Run(ctx)

	// Server
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("linkboard starting", "addr", addr, "backend", client.BaseURL(), "poll_interval", poller.Interval())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
