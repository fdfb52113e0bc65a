package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/playtrack/completionist/internal/scan"
	"github.com/playtrack/completionist/pkg/constants"
	"github.com/playtrack/completionist/pkg/logging"
)

var scanVanity string

var scanCmd = &cobra.Command{
	Use:     "scan [steamid]",
	GroupID: "core",
	Short:   "Scan a Steam library for new games and their rarest achievements",
	Args:    cobra.MaximumNArgs(1),
	Long: `Scan fetches the target user's owned games and resolves achievement data
for every game not already in the user's snapshot or on the skip list.

For each new game the scan records the rarest achievement the user has
unlocked and whether the game is fully completed, then merges the results
into the snapshot ranked by rarity. Games confirmed to have no achievements
go on the shared skip list instead and are never fetched again.

Entries already in the snapshot are never re-resolved: completion data
captured on an earlier run stays as-is until a forced percentage refresh.`,
	Example: `  completionist scan 76561198000000000
  completionist scan --vanity gaben
  completionist scan                       # uses STEAM_ID from config`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), constants.CommandTimeout)
		defer cancel()

		steamID, err := resolveSteamID(ctx, args, scanVanity)
		if err != nil {
			return err
		}

		client, err := steamClient()
		if err != nil {
			return err
		}
		snapshots, skiplist, err := openStores()
		if err != nil {
			return err
		}

		runner := scan.New(client, snapshots, skiplist, logging.Default())
		_, err = runner.Scan(ctx, steamID)
		return err
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanVanity, "vanity", "", "resolve a vanity profile name to a SteamID")
	rootCmd.AddCommand(scanCmd)
}
