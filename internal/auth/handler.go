package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/admin-mock-backend/internal"
	"github.com/frahmantamala/admin-mock-backend/internal/transport"
	"github.com/frahmantamala/admin-mock-backend/internal/user"
	"github.com/frahmantamala/admin-mock-backend/pkg/logger"
)

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context)
	Verify(ctx context.Context, token string, kind TokenKind) Verification
	Codes(ctx context.Context, username string) ([]string, error)
}

// CookieConfig describes the refresh-token cookie.
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Cookie  CookieConfig
}

func NewHandler(svc ServiceAPI, cookie CookieConfig) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	if cookie.Name == "" {
		cookie.Name = internal.DefaultRefreshCookieName
	}
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = internal.DefaultRefreshTokenTTL
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Cookie:      cookie,
	}
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("Login: invalid request body", "error", err)
		h.WriteAppError(w, internal.ErrInvalidBody)
		return
	}

	result, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("Login: authentication failed", "username", dto.Username, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	http.SetCookie(w, h.refreshCookie(result.RefreshToken))
	h.WriteOK(w, LoginResponse{
		User:        result.User,
		AccessToken: result.AccessToken,
	})
}

// RefreshToken handles POST /api/auth/refresh. The refresh token is read from
// the cookie only, never from a header or the body.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var refreshToken string
	if c, err := r.Cookie(h.Cookie.Name); err == nil {
		refreshToken = c.Value
	}

	accessToken, err := h.Service.Refresh(r.Context(), refreshToken)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteOK(w, RefreshResponse{AccessToken: accessToken})
}

// Logout handles POST /api/auth/logout and always succeeds.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Service.Logout(r.Context())

	http.SetCookie(w, h.expiredCookie())
	h.WriteSuccess(w, nil, "Successfully logged out")
}

// Codes handles GET /api/auth/codes for the user resolved by the guard.
func (h *Handler) Codes(w http.ResponseWriter, r *http.Request, current *user.User) {
	codes, err := h.Service.Codes(r.Context(), current.Username)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteOK(w, codes)
}

func (h *Handler) refreshCookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     h.Cookie.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(h.Cookie.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

func (h *Handler) expiredCookie() *http.Cookie {
	c := h.refreshCookie("")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}
