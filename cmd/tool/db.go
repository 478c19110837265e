package main

import (
	"errors"
	"fmt"

	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var errNotConfirmed = errors.New("refusing to run without --yes")

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "schema commands",
}

func init() {
	dbCmd.AddCommand(Migrate())
	dbCmd.AddCommand(Drop())
	dbCmd.AddCommand(Version())
}

func Migrate() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the tables and record the schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.repo.EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			zlog.Info().Msg("schema ready")
			return nil
		},
	}
}

func Drop() *cobra.Command {
	var yes bool
	command := &cobra.Command{
		Use:   "drop",
		Short: "Drop every table and the schema version record",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errNotConfirmed
			}
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.repo.DropSchema(cmd.Context()); err != nil {
				return err
			}
			zlog.Warn().Msg("schema dropped")
			return nil
		},
	}
	command.Flags().BoolVar(&yes, "yes", false, "confirm dropping all tables")
	return command
}

func Version() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the installed schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			v, err := e.repo.SchemaVersion(cmd.Context())
			if err != nil {
				return err
			}
			if v == "" {
				v = "not installed"
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}
