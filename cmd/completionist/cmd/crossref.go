package cmd

import (
	"github.com/spf13/cobra"

	"github.com/playtrack/completionist/internal/hltb"
	"github.com/playtrack/completionist/pkg/logging"
)

var crossrefCmd = &cobra.Command{
	Use:     "crossref",
	GroupID: "maintenance",
	Short:   "Maintain the Steam-to-HLTB cross-reference table",
	Long: `Crossref maintains the master mapping between Steam app IDs and
HowLongToBeat IDs, shared across all scanned users. The table is kept in
canonical ascending app ID order and never holds two entries for the same
app.`,
}

var crossrefMergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Add app IDs from all snapshots to the cross-reference table",
	Long: `Merge scans every persisted snapshot and inserts an entry for each app
ID the table does not know yet, leaving the HLTB fields unset for the hours
pass to fill in. Existing entries are never modified or removed.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		snapshots, _, err := openStores()
		if err != nil {
			return err
		}
		table, err := openCrossRef()
		if err != nil {
			return err
		}

		added, err := table.MergeFromSnapshots(snapshots)
		if err != nil {
			return err
		}
		table.SortCanonical()
		if err := table.Save(); err != nil {
			return err
		}

		logging.Info().Int("added", added).Int("total", table.Len()).Msg("Cross-reference table merged")
		return nil
	},
}

var crossrefRefreshSnapshots bool

var crossrefRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh cached rarest-achievement percentages for every entry",
	Long: `Refresh re-fetches the global achievement table for every entry and
updates the cached rarest percentage. A failed fetch leaves that entry's
cached value unchanged and the pass continues.

With --snapshots the freshly fetched percentages are also forced into every
user snapshot, overwriting the stored rarity percentages there. Completion
flags and rarest achievement names are never touched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		client, err := steamClient()
		if err != nil {
			return err
		}
		table, err := openCrossRef()
		if err != nil {
			return err
		}

		updated, err := table.RefreshPercentages(ctx, client.GlobalPercentages)
		if err != nil {
			return err
		}
		if err := table.Save(); err != nil {
			return err
		}
		logging.Info().Int("updated", updated).Int("total", table.Len()).Msg("Percentages refreshed")

		if !crossrefRefreshSnapshots {
			return nil
		}

		// Forced refresh: push the fresh percentages into every snapshot.
		pcts := make(map[int64]float64, table.Len())
		for _, entry := range table.Entries() {
			if entry.RarestPercent != nil {
				pcts[entry.AppID] = *entry.RarestPercent
			}
		}

		snapshots, _, err := openStores()
		if err != nil {
			return err
		}
		steamIDs, err := snapshots.List()
		if err != nil {
			return err
		}
		for _, steamID := range steamIDs {
			snap, err := snapshots.Load(steamID)
			if err != nil {
				return err
			}
			snap.RefreshPercentages(pcts)
			if err := snapshots.Save(steamID, snap); err != nil {
				return err
			}
			logging.Debug().Str("steam_id", steamID).Msg("Snapshot percentages refreshed")
		}
		return nil
	},
}

var crossrefHoursCmd = &cobra.Command{
	Use:   "hours",
	Short: "Update HLTB completionist times for every entry",
	Long: `Hours refreshes completionist-time estimates from HowLongToBeat.
Entries with a known HLTB ID are fetched by ID; entries without one get a
single search-by-name attempt to discover the mapping. Per-entry failures
are skipped and the pass continues.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		table, err := openCrossRef()
		if err != nil {
			return err
		}

		client := hltb.New()
		updated, err := table.RefreshHours(cmd.Context(), client.CompletionistHours, client.Lookup)
		if err != nil {
			return err
		}
		if err := table.Save(); err != nil {
			return err
		}

		logging.Info().Int("updated", updated).Int("total", table.Len()).Msg("Completionist times refreshed")
		return nil
	},
}

func init() {
	crossrefRefreshCmd.Flags().BoolVar(&crossrefRefreshSnapshots, "snapshots", false,
		"also force the fresh percentages into every user snapshot")

	crossrefCmd.AddCommand(crossrefMergeCmd)
	crossrefCmd.AddCommand(crossrefRefreshCmd)
	crossrefCmd.AddCommand(crossrefHoursCmd)
	rootCmd.AddCommand(crossrefCmd)
}
