// Package sqlstore serves the fixture tables from a SQL database through gorm.
// The schema is managed by goose; rows are written only by Seed.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frahmantamala/admin-mock-backend/internal"
	userDatamodel "github.com/frahmantamala/admin-mock-backend/internal/core/datamodel/user"
	"github.com/frahmantamala/admin-mock-backend/internal/core/mockdata"
	"github.com/frahmantamala/admin-mock-backend/internal/user"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

const (
	dialectSQLite   = "sqlite3"
	dialectPostgres = "postgres"
)

type Store struct {
	db      *gorm.DB
	sqlDB   *sql.DB
	dialect string
}

// Open connects to the database described by cfg and verifies the connection.
func Open(cfg internal.StoreConfig) (*Store, error) {
	var (
		dialector gorm.Dialector
		dialect   string
	)
	switch cfg.Driver {
	case internal.StoreDriverSQLite:
		dialector, dialect = sqlite.Open(cfg.Source), dialectSQLite
	case internal.StoreDriverPostgres:
		dialector, dialect = postgres.Open(cfg.Source), dialectPostgres
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", cfg.Driver, err)
	}

	s, err := New(db, dialect)
	if err != nil {
		return nil, err
	}

	if dialect == dialectSQLite {
		// every connection to an in-memory sqlite database is a separate database
		s.sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			s.sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			s.sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
	}

	if err := s.sqlDB.Ping(); err != nil {
		_ = s.sqlDB.Close()
		return nil, fmt.Errorf("sqlstore: ping: %w", err)
	}

	return s, nil
}

// New wraps an existing gorm handle. dialect is the goose dialect name.
func New(db *gorm.DB, dialect string) (*Store, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlstore: underlying db: %w", err)
	}
	return &Store{db: db, sqlDB: sqlDB, dialect: dialect}, nil
}

func (s *Store) Name() string { return s.dialect }

func (s *Store) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var row userDatamodel.User
	err := s.db.WithContext(ctx).
		Where("username = ?", username).
		Order("id").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}

	roles, err := s.pluck(ctx, &userDatamodel.UserRole{}, "role", username)
	if err != nil {
		return nil, fmt.Errorf("load roles for %q: %w", username, err)
	}

	return user.FromDataModel(&row, roles), nil
}

func (s *Store) FindByCredentials(ctx context.Context, username, password string) (*user.User, error) {
	u, err := s.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u.Password != password {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (s *Store) CodesFor(ctx context.Context, username string) ([]string, error) {
	codes, err := s.pluck(ctx, &userDatamodel.AccessCode{}, "code", username)
	if err != nil {
		return nil, fmt.Errorf("load codes for %q: %w", username, err)
	}
	return codes, nil
}

func (s *Store) MenusFor(ctx context.Context, username string) ([]string, error) {
	menus, err := s.pluck(ctx, &userDatamodel.Menu{}, "menu", username)
	if err != nil {
		return nil, fmt.Errorf("load menus for %q: %w", username, err)
	}
	return menus, nil
}

// pluck reads one column of a username/position list table in position order.
func (s *Store) pluck(ctx context.Context, model interface{}, column, username string) ([]string, error) {
	var values []string
	err := s.db.WithContext(ctx).
		Model(model).
		Where("username = ?", username).
		Order("position").
		Pluck(column, &values).Error
	if err != nil {
		return nil, err
	}
	return mockdata.CopyStrings(values), nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.sqlDB.Close()
}

// Seed writes ds into the tables. Rows that already exist are left alone;
// with clear set, every table is emptied first.
func (s *Store) Seed(ctx context.Context, ds mockdata.Dataset, clear bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if clear {
			for _, model := range []interface{}{
				&userDatamodel.Menu{},
				&userDatamodel.AccessCode{},
				&userDatamodel.UserRole{},
				&userDatamodel.User{},
			} {
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
					return fmt.Errorf("clear table: %w", err)
				}
			}
		}

		var (
			users []userDatamodel.User
			roles []userDatamodel.UserRole
			codes []userDatamodel.AccessCode
			menus []userDatamodel.Menu
		)
		for _, u := range ds.Users {
			users = append(users, *user.ToDataModel(u))
			for i, role := range u.Roles {
				roles = append(roles, userDatamodel.UserRole{Username: u.Username, Position: i, Role: role})
			}
		}
		for _, c := range ds.Codes {
			for i, code := range c.Codes {
				codes = append(codes, userDatamodel.AccessCode{Username: c.Username, Position: i, Code: code})
			}
		}
		for _, m := range ds.Menus {
			for i, menu := range m.Menus {
				menus = append(menus, userDatamodel.Menu{Username: m.Username, Position: i, Menu: menu})
			}
		}

		if err := insertIgnoring(tx, users, "users"); err != nil {
			return err
		}
		if err := insertIgnoring(tx, roles, "roles"); err != nil {
			return err
		}
		if err := insertIgnoring(tx, codes, "access codes"); err != nil {
			return err
		}
		if err := insertIgnoring(tx, menus, "menus"); err != nil {
			return err
		}
		return nil
	})
}

// insertIgnoring bulk-inserts rows, skipping any that collide with existing keys.
func insertIgnoring[T any](tx *gorm.DB, rows []T, what string) error {
	if len(rows) == 0 {
		return nil
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("seed %s: %w", what, err)
	}
	return nil
}

// Empty reports whether the users table has no rows yet.
func (s *Store) Empty(ctx context.Context) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&userDatamodel.User{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count == 0, nil
}
