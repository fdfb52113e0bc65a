package cmd

import (
	"context"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/playtrack/completionist/internal/steam"
	"github.com/playtrack/completionist/pkg/constants"
	"github.com/playtrack/completionist/pkg/errors"
	"github.com/playtrack/completionist/pkg/library"
)

// steamClient builds the Steam API client from configuration.
func steamClient() (*steam.Client, error) {
	apiKey := viper.GetString("steam_api_key")
	if apiKey == "" {
		return nil, &errors.ConfigError{
			Component: "steam",
			Message:   "STEAM_API_KEY is not set (flag, env, or .env file)",
			Err:       errors.ErrAPIKeyRequired,
		}
	}
	return steam.New(apiKey), nil
}

// openStores opens the snapshot store and skip list under the data
// directory. Store handles are passed explicitly to the passes that need
// them; nothing here is a package-level global.
func openStores() (*library.SnapshotStore, *library.SkipList, error) {
	dir := resolvedDataDir()
	snapshots := library.NewSnapshotStore(dir)
	skiplist, err := library.LoadSkipList(filepath.Join(dir, constants.SkipListFile))
	if err != nil {
		return nil, nil, err
	}
	return snapshots, skiplist, nil
}

// openCrossRef opens the cross-reference table under the data directory.
func openCrossRef() (*library.CrossRefTable, error) {
	return library.LoadCrossRefTable(filepath.Join(resolvedDataDir(), constants.CrossRefFile))
}

// resolveSteamID resolves the scan target: a positional SteamID, a vanity
// name needing resolution, or the configured default, in that order.
func resolveSteamID(ctx context.Context, args []string, vanity string) (string, error) {
	if vanity != "" {
		client, err := steamClient()
		if err != nil {
			return "", err
		}
		return client.ResolveVanityURL(ctx, vanity)
	}

	steamID := viper.GetString("steam_id")
	if len(args) == 1 {
		steamID = args[0]
	}
	if steamID == "" {
		return "", errors.NewValidationError("steamid", "", "no SteamID given: pass one, use --vanity, or set STEAM_ID")
	}
	if !validSteamID(steamID) {
		return "", errors.NewValidationError("steamid", steamID, "a SteamID is a 17 digit number")
	}
	return steamID, nil
}

// validSteamID reports whether s looks like a 64-bit SteamID.
func validSteamID(s string) bool {
	if len(s) != constants.SteamIDLength {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
