// Package memory serves the fixture tables straight from process memory.
package memory

import (
	"context"

	"github.com/frahmantamala/admin-mock-backend/internal/core/mockdata"
	"github.com/frahmantamala/admin-mock-backend/internal/user"
)

// Store is immutable after New and safe for concurrent use.
type Store struct {
	data mockdata.Dataset
}

// New copies ds so later changes by the caller do not leak in.
func New(ds mockdata.Dataset) *Store {
	return &Store{data: ds.Clone()}
}

func (s *Store) Name() string { return "memory" }

func (s *Store) FindByUsername(_ context.Context, username string) (*user.User, error) {
	for _, u := range s.data.Users {
		if u.Username == username {
			return user.FromMockData(u), nil
		}
	}
	return nil, user.ErrNotFound
}

// FindByCredentials returns the first user whose username and password both match.
func (s *Store) FindByCredentials(_ context.Context, username, password string) (*user.User, error) {
	for _, u := range s.data.Users {
		if u.Username == username && u.Password == password {
			return user.FromMockData(u), nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *Store) CodesFor(_ context.Context, username string) ([]string, error) {
	for _, c := range s.data.Codes {
		if c.Username == username {
			return mockdata.CopyStrings(c.Codes), nil
		}
	}
	return []string{}, nil
}

func (s *Store) MenusFor(_ context.Context, username string) ([]string, error) {
	for _, m := range s.data.Menus {
		if m.Username == username {
			return mockdata.CopyStrings(m.Menus), nil
		}
	}
	return []string{}, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
