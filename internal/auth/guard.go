package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/frahmantamala/admin-mock-backend/internal"
	"github.com/frahmantamala/admin-mock-backend/internal/transport"
	"github.com/frahmantamala/admin-mock-backend/internal/user"
	"github.com/frahmantamala/admin-mock-backend/pkg/logger"
)

// AuthenticatedHandler is a handler that runs only for a verified caller,
// which it receives as an explicit argument.
type AuthenticatedHandler func(w http.ResponseWriter, r *http.Request, current *user.User)

type Verifier interface {
	Verify(ctx context.Context, token string, kind TokenKind) Verification
}

// Guard protects routes with a bearer access token.
type Guard struct {
	*transport.BaseHandler
	verifier Verifier
}

func NewGuard(baseHandler *transport.BaseHandler, verifier Verifier) *Guard {
	if baseHandler == nil {
		baseHandler = transport.NewBaseHandler(nil)
	}
	return &Guard{BaseHandler: baseHandler, verifier: verifier}
}

// Require wraps next so it only runs with a valid access token. Every
// failure answers 401; the verification status only reaches the logs.
func (g *Guard) Require(next AuthenticatedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.From(r.Context())

		token, err := g.ExtractTokenFromHeader(r)
		if err != nil {
			log.Warn("auth guard: rejected authorization header", "error", err)
			if errors.Is(err, transport.ErrMissingAuthorization) {
				g.WriteAppError(w, internal.ErrMissingToken)
				return
			}
			g.WriteAppError(w, internal.ErrInvalidToken)
			return
		}

		v := g.verifier.Verify(r.Context(), token, KindAccess)
		if !v.Authenticated() {
			log.Warn("auth guard: token rejected", "status", v.Status, "error", v.Err)
			g.WriteAppError(w, internal.ErrInvalidToken)
			return
		}

		ctx := logger.With(r.Context(), "username", v.User.Username)
		next(w, r.WithContext(ctx), v.User)
	}
}
