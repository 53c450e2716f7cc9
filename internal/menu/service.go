package menu

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/admin-mock-backend/internal"
	"github.com/frahmantamala/admin-mock-backend/internal/core/mockdata"
	"github.com/frahmantamala/admin-mock-backend/pkg/logger"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, lg *slog.Logger) *Service {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Service{
		repo:   repo,
		logger: lg,
	}
}

// GetMenus returns the menus for username; never nil.
func (s *Service) GetMenus(ctx context.Context, username string) ([]string, error) {
	menus, err := s.repo.MenusFor(ctx, username)
	if err != nil {
		s.logger.Error("failed to get menus from repository", "username", username, "error", err)
		return nil, internal.NewInternalError("failed to load menus", err)
	}

	s.logger.Debug("retrieved menus", "username", username, "count", len(menus))
	return mockdata.CopyStrings(menus), nil
}
