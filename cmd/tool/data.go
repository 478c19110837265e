package main

import (
	"encoding/json"
	"time"

	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/application/retention"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "analytics data commands",
}

func init() {
	dataCmd.AddCommand(Cleanup())
	dataCmd.AddCommand(Purge())
	dataCmd.AddCommand(Stats())
}

func Cleanup() *cobra.Command {
	var days int
	command := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete sessions older than --days",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			n, err := retention.New(e.repo, e.stats).RemoveSessionsOlderThan(cmd.Context(), days, time.Now())
			if err != nil {
				return err
			}
			zlog.Info().Int64("deleted", n).Int("days", days).Msg("cleanup done")
			return nil
		},
	}
	command.Flags().IntVar(&days, "days", retention.DefaultDays, "age threshold in days")
	return command
}

func Purge() *cobra.Command {
	var yes bool
	command := &cobra.Command{
		Use:   "purge",
		Short: "Delete all sessions and links",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errNotConfirmed
			}
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			if err := retention.New(e.repo, e.stats).PurgeAllData(cmd.Context()); err != nil {
				return err
			}
			zlog.Warn().Msg("all analytics data cleared")
			return nil
		},
	}
	command.Flags().BoolVar(&yes, "yes", false, "confirm deleting everything")
	return command
}

func Stats() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the dashboard as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			d, err := e.stats.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(d)
		},
	}
}
