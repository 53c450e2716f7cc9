package cmd

import (
	"fmt"

	"github.com/frahmantamala/admin-mock-backend/internal/auth"
	"github.com/frahmantamala/admin-mock-backend/internal/core/mockdata"
	"github.com/frahmantamala/admin-mock-backend/internal/store"
	"github.com/frahmantamala/admin-mock-backend/pkg/logger"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Token helpers for frontend development",
}

var issueTokenCmd = &cobra.Command{
	Use:   "issue",
	Short: "Print a signed token for a known user",
	Long:  `Sign an access or refresh token for a user in the configured store without logging in.`,
	Example: `  admin-mock-backend token issue --user vben
  admin-mock-backend token issue --user jack --kind refresh`,
	RunE: runIssueToken,
}

var (
	tokenUser string
	tokenKind string
)

func runIssueToken(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	// keep stdout clean for the token itself
	st, err := store.Open(ctx, cfg.Store, mockdata.Default(), logger.Discard())
	if err != nil {
		return err
	}
	defer st.Close()

	svc := auth.NewService(st, st, newTokenGenerator(cfg), auth.WithLogger(logger.Discard()))

	token, err := svc.IssueToken(ctx, tokenUser, auth.TokenKind(tokenKind))
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

func init() {
	issueTokenCmd.Flags().StringVarP(&tokenUser, "user", "u", "", "username to sign the token for")
	issueTokenCmd.Flags().StringVarP(&tokenKind, "kind", "k", string(auth.KindAccess), "token kind: access or refresh")
	_ = issueTokenCmd.MarkFlagRequired("user")

	tokenCmd.AddCommand(issueTokenCmd)
}
