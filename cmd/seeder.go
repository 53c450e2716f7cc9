package cmd

import (
	"fmt"

	"github.com/frahmantamala/admin-mock-backend/internal/core/mockdata"
	"github.com/spf13/cobra"
)

var clearData bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the sql store with the mock users, codes and menus",
	Long:  `Write the built-in mock dataset into the configured sql store. Existing rows are kept unless --clear is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, cfg, err := openSQLStore()
		if err != nil {
			return err
		}
		defer s.Close()

		lg := setupLogger(cfg)

		ds := mockdata.Default()
		if err := s.Seed(ctx, ds, clearData); err != nil {
			return fmt.Errorf("seed: %w", err)
		}

		for _, u := range ds.Users {
			lg.Info("seeded user", "username", u.Username, "roles", u.Roles)
		}
		lg.Info("seeding finished", "users", len(ds.Users), "cleared", clearData)
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
}
