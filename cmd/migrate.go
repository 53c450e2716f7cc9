package cmd

import (
	"fmt"

	"github.com/frahmantamala/admin-mock-backend/internal"
	"github.com/frahmantamala/admin-mock-backend/internal/store/sqlstore"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the embedded sql migrations against the configured sql store",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	s, cfg, err := openSQLStore()
	if err != nil {
		return err
	}
	defer s.Close()

	lg := setupLogger(cfg)
	sqlstore.SetMigrationLogger(lg)

	if migrateRollback {
		if err := s.Rollback(ctx); err != nil {
			return err
		}
	} else if err := s.Migrate(ctx); err != nil {
		return err
	}

	version, err := s.Version(ctx)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	lg.Info("migration finished", "driver", cfg.Store.Driver, "version", version)
	return nil
}

// openSQLStore loads the config and connects to its SQL store; the memory
// driver has nothing to migrate or seed.
func openSQLStore() (*sqlstore.Store, *internal.Config, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Store.IsSQL() {
		return nil, nil, fmt.Errorf("store driver %q is not a sql driver; set store.driver to %q or %q",
			cfg.Store.Driver, internal.StoreDriverSQLite, internal.StoreDriverPostgres)
	}

	s, err := sqlstore.Open(cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}
