package menu

import (
	"context"
	"net/http"

	"github.com/frahmantamala/admin-mock-backend/internal/transport"
	"github.com/frahmantamala/admin-mock-backend/internal/user"
)

type ServiceAPI interface {
	GetMenus(ctx context.Context, username string) ([]string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetAll handles GET /api/menu/all. Unlike the other endpoints it answers
// with a bare JSON array, not an envelope.
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request, current *user.User) {
	menus, err := h.Service.GetMenus(r.Context(), current.Username)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, menus)
}
