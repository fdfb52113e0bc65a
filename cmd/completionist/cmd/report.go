package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	md "github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/playtrack/completionist/pkg/constants"
	"github.com/playtrack/completionist/pkg/errors"
	"github.com/playtrack/completionist/pkg/logging"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:     "report [steamid]",
	GroupID: "core",
	Short:   "Write a Markdown rarity report for a user's snapshot",
	Long: `Report renders the user's snapshot as a Markdown document ranked by
rarest unlocked achievement, with HLTB completionist estimates pulled in
from the cross-reference table where known.`,
	Args: cobra.MaximumNArgs(1),
	Example: `  completionist report 76561198000000000
  completionist report 76561198000000000 -o rarity.md`,
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
			return errors.NewValidationError("steamid", steamID, "no snapshot to report on: run a scan first")
		}

		table, err := openCrossRef()
		if err != nil {
			return err
		}

		out := reportOutput
		if out == "" {
			out = filepath.Join(resolvedDataDir(), steamID+".md")
		}
		f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
		if err != nil {
			return errors.WrapIO("create", out, err)
		}
		defer f.Close()

		limit := len(snap)
		if limit > constants.MaxReportEntries {
			limit = constants.MaxReportEntries
		}

		rows := make([][]string, 0, limit)
		for i, rec := range snap[:limit] {
			hours := "-"
			if entry, ok := table.Get(rec.AppID); ok && entry.CompletionistHours != nil {
				hours = fmt.Sprintf("%.0f h", *entry.CompletionistHours)
			}
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				rec.Name,
				formatPercent(rec.RarestPercent),
				formatString(rec.RarestName),
				formatCompleted(rec),
				hours,
			})
		}

		doc := md.NewMarkdown(f).
			H1("Rarest Achievements").
			PlainTextf("SteamID %s, %d games tracked, generated %s.",
				steamID, len(snap), time.Now().Format("2006-01-02")).
			LF()
		if limit < len(snap) {
			doc.PlainTextf("Showing the %d rarest entries.", limit).LF()
		}
		doc.Table(md.TableSet{
			Header: []string{"#", "Game", "Rarest %", "Achievement", "100%", "HLTB"},
			Rows:   rows,
		})
		if err := doc.Build(); err != nil {
			return errors.WrapIO("write", out, err)
		}

		logging.Info().Str("path", out).Int("entries", limit).Msg("Report written")
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "report file path (default <data-dir>/<steamid>.md)")
	rootCmd.AddCommand(reportCmd)
}
