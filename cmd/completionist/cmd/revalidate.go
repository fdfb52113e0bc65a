package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/playtrack/completionist/internal/scan"
	"github.com/playtrack/completionist/pkg/constants"
	"github.com/playtrack/completionist/pkg/logging"
)

var revalidateCmd = &cobra.Command{
	Use:     "revalidate",
	GroupID: "maintenance",
	Short:   "Re-check every skip-listed game for newly added achievements",
	Long: `Revalidate re-fetches achievement metadata for every game on the skip
list and removes the ones that now have achievements, so future scans pick
them up again.

A fetch failure never removes an entry: only a successful fetch confirming
achievements exist does. With 10,000+ skip-listed games this pass touches
the whole list and dominates the cost of a full run, which is why it only
runs when explicitly invoked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := steamClient()
		if err != nil {
			return err
		}
		snapshots, skiplist, err := openStores()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), constants.RevalidateTimeout)
		defer cancel()

		runner := scan.New(client, snapshots, skiplist, logging.Default())
		_, err = runner.Revalidate(ctx)
		return err
	},
}

func init() {
	rootCmd.AddCommand(revalidateCmd)
}
