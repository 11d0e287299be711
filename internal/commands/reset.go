package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCommand(g *globals) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Replace all records in the database with fresh mock data",
		Long: "Deletes every bank, beneficiary, fee structure, transaction, deposit and\n" +
			"withdrawal batch, then loads the mock dataset for TABLE_MOCK_SEED.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !g.cfg.Database.Enabled() {
				return errors.New("reset needs DATABASE_URL; the in-memory store starts fresh on every run")
			}
			if !yes {
				return errors.New("refusing to delete data without --yes")
			}

			a, err := newApp(cmd.Context(), g.cfg)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "DBs reset")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting all records")

	return cmd
}
