package rest

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/admin-mock-backend/internal/core/mockdata"
)

//go:embed templates/index.html
var templates embed.FS

var indexTemplate = template.Must(template.New("index.html").
	Funcs(template.FuncMap{"join": strings.Join}).
	ParseFS(templates, "templates/index.html"))

type endpoint struct {
	Method      string
	Path        string
	Auth        string
	Description string
}

type indexPage struct {
	Title     string
	Endpoints []endpoint
	Accounts  []mockdata.User
}

var endpoints = []endpoint{
	{http.MethodPost, "/api/auth/login", "none", "Log in, sets the jwt refresh cookie"},
	{http.MethodPost, "/api/auth/refresh", "jwt cookie", "Issue a new access token"},
	{http.MethodPost, "/api/auth/logout", "none", "Clear the refresh cookie"},
	{http.MethodGet, "/api/auth/codes", "Bearer", "Permission codes of the current user"},
	{http.MethodGet, "/api/user/info", "Bearer", "Profile of the current user"},
	{http.MethodGet, "/api/menu/all", "Bearer", "Menu identifiers of the current user"},
	{http.MethodGet, "/api/ping", "none", "Liveness probe"},
	{http.MethodGet, "/api/health", "none", "Readiness probe"},
}

type IndexHandler struct {
	logger   *slog.Logger
	accounts []mockdata.User
}

// NewIndexHandler lists accounts as demo logins on the page.
func NewIndexHandler(logger *slog.Logger, accounts []mockdata.User) *IndexHandler {
	return &IndexHandler{logger: logger, accounts: accounts}
}

func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTemplate.Execute(w, indexPage{
		Title:     "Admin Mock Backend",
		Endpoints: endpoints,
		Accounts:  h.accounts,
	})
	if err != nil {
		h.logger.Error("failed to render index page", "error", err)
	}
}
