package cmd

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

	"github.com/frahmantamala/admin-mock-backend/internal"
	"github.com/frahmantamala/admin-mock-backend/internal/auth"
	"github.com/frahmantamala/admin-mock-backend/internal/core/events"
	"github.com/frahmantamala/admin-mock-backend/internal/core/mockdata"
	"github.com/frahmantamala/admin-mock-backend/internal/store"
	"github.com/frahmantamala/admin-mock-backend/internal/transport/rest"
	"github.com/frahmantamala/admin-mock-backend/internal/transport/swagger"
	"github.com/frahmantamala/admin-mock-backend/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	Store    store.Store
	Events   *events.EventBus
	Auth     *auth.Service
	Router   *chi.Mux
	Logger   *slog.Logger
	Accounts []mockdata.User
}

func startHTTPServer() {
	ctx := context.Background()

	deps, err := initializeDependencies(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.close()

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "store", deps.Store.Name())

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.close()
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	cookie := auth.CookieConfig{
		Name:   deps.Config.Security.RefreshCookieName,
		MaxAge: deps.Config.Security.RefreshTokenDuration,
	}
	handlers := rest.NewHandlers(deps.Auth, deps.Store, cookie, deps.Accounts, deps.Logger)
	rest.RegisterAllRoutes(deps.Router, handlers, deps.Config.Server.Origins(), deps.Logger)
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := setupLogger(config)

	if _, err := swagger.Load(ctx); err != nil {
		return nil, err
	}

	dataset := mockdata.Default()
	st, err := store.Open(ctx, config.Store, dataset, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	bus := events.NewEventBus(lg)
	bus.SubscribeAll(events.AuthEventTypes, events.NewAuditHandler(lg))

	authService := auth.NewService(st, st, newTokenGenerator(config),
		auth.WithPublisher(bus),
		auth.WithLogger(lg),
	)

	return &Dependencies{
		Config:   config,
		Store:    st,
		Events:   bus,
		Auth:     authService,
		Router:   chi.NewRouter(),
		Logger:   lg,
		Accounts: dataset.Users,
	}, nil
}

func (d *Dependencies) close() {
	d.Events.Wait()
	if err := d.Store.Close(); err != nil {
		d.Logger.Error("Store close error", "error", err)
	}
}

func setupLogger(cfg *internal.Config) *slog.Logger {
	return logger.Setup(logger.Options{
		Env:    cfg.Observability.Logging.Env,
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
	})
}

func newTokenGenerator(cfg *internal.Config) *auth.JWTTokenGenerator {
	return auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
}
