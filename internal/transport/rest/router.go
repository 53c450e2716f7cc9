package rest

import (
	"log/slog"

	"github.com/frahmantamala/admin-mock-backend/internal/auth"
	"github.com/frahmantamala/admin-mock-backend/internal/core/mockdata"
	"github.com/frahmantamala/admin-mock-backend/internal/menu"
	"github.com/frahmantamala/admin-mock-backend/internal/transport"
	"github.com/frahmantamala/admin-mock-backend/internal/transport/middleware"
	"github.com/frahmantamala/admin-mock-backend/internal/transport/swagger"
	"github.com/frahmantamala/admin-mock-backend/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups everything RegisterAllRoutes mounts.
type Handlers struct {
	Auth   *auth.Handler
	Guard  *auth.Guard
	User   *user.Handler
	Menu   *menu.Handler
	Health *HealthHandler
	Index  *IndexHandler
}

// MenuStore is the part of the data store the routes read from directly.
type MenuStore interface {
	menu.Repository
	Pinger
}

// NewHandlers wires the HTTP handlers on top of the auth service and the store.
func NewHandlers(authService *auth.Service, store MenuStore, cookie auth.CookieConfig, accounts []mockdata.User, logger *slog.Logger) *Handlers {
	base := transport.NewBaseHandler(logger)
	authHandler := auth.NewHandler(authService, cookie)
	authHandler.BaseHandler = base

	return &Handlers{
		Auth:   authHandler,
		Guard:  auth.NewGuard(base, authService),
		User:   user.NewHandler(base),
		Menu:   menu.NewHandler(base, menu.NewService(store, logger)),
		Health: NewHealthHandler(store),
		Index:  NewIndexHandler(logger, accounts),
	}
}

func RegisterAllRoutes(router *chi.Mux, h *Handlers, allowedOrigins []string, logger *slog.Logger) {
	// Apply global middleware
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.TraceID(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Method("GET", "/", h.Index)

	router.Get(swagger.SpecPath, swagger.SpecHandler())
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health.healthCheckHandler)
		r.Get("/ping", h.Health.pingHandler)

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/login", h.Auth.Login)
			ar.Post("/refresh", h.Auth.RefreshToken)
			ar.Post("/logout", h.Auth.Logout)
			ar.Get("/codes", h.Guard.Require(h.Auth.Codes))
		})

		r.Get("/user/info", h.Guard.Require(h.User.GetInfo))
		r.Get("/menu/all", h.Guard.Require(h.Menu.GetAll))
	})
}
