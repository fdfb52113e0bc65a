package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/playtrack/completionist/pkg/library"
)

var listCmd = &cobra.Command{
	Use:     "list [steamid]",
	GroupID: "core",
	Short:   "Print a user's snapshot ranked by achievement rarity",
	Args:    cobra.MaximumNArgs(1),
	Example: `  completionist list 76561198000000000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		steamID, err := resolveSteamID(cmd.Context(), args, "")
		if err != nil {
			return err
		}

		snapshots, _, err := openStores()
		if err != nil {
			return err
		}
		snap, err := snapshots.Load(steamID)
		if err != nil {
			return err
		}
		if len(snap) == 0 {
			fmt.Printf("No snapshot for %s yet. Run a scan first.\n", steamID)
			return nil
		}

		table := tablewriter.NewTable(os.Stdout)
		table.Header("Rank", "App ID", "Name", "Rarest %", "Rarest Achievement", "Completed")

		for i, rec := range snap {
			if err := table.Append(
				strconv.Itoa(i+1),
				strconv.FormatInt(rec.AppID, 10),
				rec.Name,
				formatPercent(rec.RarestPercent),
				formatString(rec.RarestName),
				formatCompleted(rec),
			); err != nil {
				return err
			}
		}
		return table.Render()
	},
}

func formatPercent(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *p)
}

func formatString(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func formatCompleted(rec library.GameRecord) string {
	switch {
	case rec.Completed == nil:
		return "-"
	case *rec.Completed:
		return "yes"
	default:
		return "no"
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
