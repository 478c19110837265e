package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/transport/http/middleware"
)

// Token mints an admin bearer token for local use. It reads JWT_SECRET and
// JWT_ISSUER directly so it works without a database.
func Token() *cobra.Command {
	var (
		uid string
		ttl time.Duration
	)
	command := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin JWT",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return fmt.Errorf("missing JWT_SECRET")
			}
			tok, err := middleware.IssueToken(secret, os.Getenv("JWT_ISSUER"), uid, middleware.RoleAdmin, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	command.Flags().StringVar(&uid, "uid", "admin", "subject user id")
	command.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return command
}
