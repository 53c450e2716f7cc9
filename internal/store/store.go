// Package store picks the backing implementation for the fixture tables.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/admin-mock-backend/internal"
	"github.com/frahmantamala/admin-mock-backend/internal/core/mockdata"
	"github.com/frahmantamala/admin-mock-backend/internal/store/memory"
	"github.com/frahmantamala/admin-mock-backend/internal/store/sqlstore"
	"github.com/frahmantamala/admin-mock-backend/internal/user"
)

// Store is everything the HTTP layer reads from.
type Store interface {
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	FindByCredentials(ctx context.Context, username, password string) (*user.User, error)
	CodesFor(ctx context.Context, username string) ([]string, error)
	MenusFor(ctx context.Context, username string) ([]string, error)
	Name() string
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*memory.Store)(nil)
	_ Store = (*sqlstore.Store)(nil)
)

// Open builds the store named by cfg.Driver. SQL stores with auto_migrate
// set are migrated and, when still empty, seeded with ds.
func Open(ctx context.Context, cfg internal.StoreConfig, ds mockdata.Dataset, lg *slog.Logger) (Store, error) {
	if !cfg.IsSQL() {
		lg.Info("using in-memory store", "users", len(ds.Users))
		return memory.New(ds), nil
	}

	s, err := sqlstore.Open(cfg)
	if err != nil {
		return nil, err
	}
	lg.Info("connected to sql store", "driver", cfg.Driver)

	if !cfg.AutoMigrate {
		return s, nil
	}

	sqlstore.SetMigrationLogger(lg)
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	empty, err := s.Empty(ctx)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	if empty {
		if err := s.Seed(ctx, ds, false); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("auto seed: %w", err)
		}
		lg.Info("seeded empty sql store", "users", len(ds.Users))
	}

	return s, nil
}
