package user

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/admin-mock-backend/internal/transport"
	"github.com/frahmantamala/admin-mock-backend/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
}

func NewHandler(baseHandler *transport.BaseHandler) *Handler {
	if baseHandler == nil {
		lg := logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
		baseHandler = transport.NewBaseHandler(lg)
	}
	return &Handler{BaseHandler: baseHandler}
}

// GetInfo handles GET /api/user/info for the user resolved by the auth guard.
func (h *Handler) GetInfo(w http.ResponseWriter, r *http.Request, current *User) {
	logger.From(r.Context()).Debug("GetInfo: serving user info", "username", current.Username)
	h.WriteOK(w, current.Info())
}
