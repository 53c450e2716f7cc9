package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/admin-mock-backend/internal"
	"github.com/frahmantamala/admin-mock-backend/pkg/logger"
)

const (
	CodeSuccess = 0
	CodeFailure = -1
)

// Envelope is the {code, data, error, message} wrapper most endpoints answer with.
type Envelope struct {
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   interface{} `json:"error"`
	Message string      `json:"message"`
}

var (
	ErrMissingAuthorization = errors.New("authorization header is missing")
	ErrMalformedBearer      = errors.New("authorization header is not a bearer token")
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteOK wraps data in a success envelope with message "ok".
func (h *BaseHandler) WriteOK(w http.ResponseWriter, data interface{}) {
	h.WriteSuccess(w, data, "ok")
}

// WriteSuccess wraps data in a success envelope with a custom message.
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, data interface{}, message string) {
	h.WriteJSON(w, http.StatusOK, Envelope{
		Code:    CodeSuccess,
		Data:    data,
		Error:   nil,
		Message: message,
	})
}

// WriteAppError renders an AppError with its own status code.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, appErr *internal.AppError) {
	level := slog.LevelWarn
	if appErr.StatusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.Logger.Log(context.Background(), level, "http error",
		"status", appErr.StatusCode,
		"code", appErr.Code,
		"error", appErr.Error())

	h.WriteJSON(w, appErr.StatusCode, Envelope{
		Code:    CodeFailure,
		Data:    nil,
		Error:   appErr,
		Message: appErr.GetDetailedMessage(),
	})
}

// HandleServiceError maps service errors onto HTTP responses; anything that is
// not an AppError becomes a 500.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		h.WriteAppError(w, appErr)
		return
	}
	h.WriteAppError(w, internal.NewInternalError("internal server error", err))
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) (string, error) {
	return BearerToken(r.Header.Get("Authorization"))
}

// BearerToken parses an Authorization header value of the form "Bearer <token>".
func BearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthorization
	}

	scheme, token, found := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMalformedBearer
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMalformedBearer
	}
	return token, nil
}
