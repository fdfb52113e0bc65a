// Package scan orchestrates a completionist run: fetch a user's library,
// resolve achievement rarity for games not yet snapshotted, and reconcile
// the results into the persisted stores. Everything runs sequentially in
// catalog-provided order; the snapshot's final order is a pure function of
// the accumulated data because sorting happens after all fetches complete.
package scan

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/playtrack/completionist/internal/steam"
	"github.com/playtrack/completionist/pkg/constants"
	"github.com/playtrack/completionist/pkg/errors"
	"github.com/playtrack/completionist/pkg/library"
)

// Catalog is the slice of the Steam client a run needs. *steam.Client
// satisfies it; tests substitute a fake.
type Catalog interface {
	OwnedGames(ctx context.Context, steamID string) ([]steam.OwnedGame, error)
	UnlockedSet(ctx context.Context, steamID string, appID int64) (map[string]bool, error)
	GlobalPercentages(ctx context.Context, appID int64) ([]library.GlobalAchievement, error)
	HasAchievements(ctx context.Context, appID int64) (bool, error)
}

// Runner executes scan and revalidation passes against explicitly passed
// store handles. The caller owns opening the stores and the runner saves
// them only after a pass completes, so a fatal error leaves every file
// untouched.
type Runner struct {
	catalog   Catalog
	snapshots *library.SnapshotStore
	skiplist  *library.SkipList
	log       zerolog.Logger
}

// New creates a Runner.
func New(catalog Catalog, snapshots *library.SnapshotStore, skiplist *library.SkipList, log zerolog.Logger) *Runner {
	return &Runner{
		catalog:   catalog,
		snapshots: snapshots,
		skiplist:  skiplist,
		log:       log,
	}
}

// Result summarizes one scan pass.
type Result struct {
	SteamID    string
	Visibility library.Visibility
	Owned      int
	New        int
	Resolved   int
	SkipListed int
	Failed     int
}

// Scan fetches the user's library and merges freshly resolved records into
// the persisted snapshot.
//
// Games already in the snapshot or on the skip list are never re-fetched.
// A game whose achievement fetch fails transiently is not recorded at all,
// so the next invocation retries it. Games confirmed to have no
// achievements go to the skip list instead of the snapshot, which is what
// lets a later revalidation bring them back into future scans.
func (r *Runner) Scan(ctx context.Context, steamID string) (*Result, error) {
	existing, err := r.snapshots.Load(steamID)
	if err != nil {
		// A corrupt snapshot is fatal: merging over it would discard data.
		return nil, err
	}

	owned, err := r.catalog.OwnedGames(ctx, steamID)
	if err != nil {
		if library.ClassifyProfile(err, nil) == library.VisibilityFullyLocked {
			return nil, err
		}
		return nil, errors.WrapAPI("steam", 0, err)
	}

	result := &Result{SteamID: steamID, Visibility: library.VisibilityOpen, Owned: len(owned)}

	var pending []steam.OwnedGame
	for _, g := range owned {
		if r.skiplist.Contains(g.AppID) || existing.Contains(g.AppID) {
			continue
		}
		pending = append(pending, g)
	}
	result.New = len(pending)

	if len(pending) == 0 {
		r.log.Info().Str("steam_id", steamID).Int("owned", len(owned)).Msg("No new games to resolve")
		return result, nil
	}

	r.log.Info().Str("steam_id", steamID).Int("owned", len(owned)).Int("new", len(pending)).Msg("Resolving new games")

	fresh := make([]library.GameRecord, 0, len(pending))
	for i, g := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		name := strings.TrimSpace(g.Name)
		if name == "" {
			continue
		}

		record, outcome := r.resolveGame(ctx, steamID, g.AppID, name, result)
		if outcome == outcomeRecorded {
			fresh = append(fresh, record)
		}

		if (i+1)%constants.ProgressInterval == 0 {
			r.log.Info().Int("processed", i+1).Int("total", len(pending)).Msg("Scan progress")
		}
	}

	merged := existing.Merge(fresh)
	if err := r.snapshots.Save(steamID, merged); err != nil {
		return result, err
	}
	if err := r.skiplist.Save(); err != nil {
		return result, err
	}

	r.log.Info().
		Str("steam_id", steamID).
		Stringer("visibility", result.Visibility).
		Int("resolved", result.Resolved).
		Int("skip_listed", result.SkipListed).
		Int("failed", result.Failed).
		Msg("Scan complete")
	return result, nil
}

type outcome int

const (
	outcomeRecorded outcome = iota
	outcomeSkipListed
	outcomeFailed
)

// resolveGame produces the record for one game, updating the result
// counters and the run's visibility tier as it goes.
func (r *Runner) resolveGame(ctx context.Context, steamID string, appID int64, name string, result *Result) (library.GameRecord, outcome) {
	global, err := r.catalog.GlobalPercentages(ctx, appID)
	if err != nil {
		// Transient failure: absence of data is not evidence of absence of
		// achievements, so the game is neither recorded nor skip-listed and
		// the next run retries it.
		r.log.Warn().Int64("app_id", appID).Err(err).Msg("Achievement table fetch failed, will retry next run")
		result.Failed++
		return library.GameRecord{}, outcomeFailed
	}

	if len(global) == 0 {
		r.skiplist.Add(appID)
		result.SkipListed++
		r.log.Debug().Int64("app_id", appID).Str("name", name).Msg("No achievements, skip-listed")
		return library.GameRecord{}, outcomeSkipListed
	}

	switch result.Visibility {
	case library.VisibilityOpen:
		unlocked, err := r.catalog.UnlockedSet(ctx, steamID, appID)
		switch {
		case err == nil:
			record := library.ResolveRarity(unlocked, global).Record(appID, name)
			result.Resolved++
			return record, outcomeRecorded
		case library.ClassifyProfile(nil, err) == library.VisibilityAchievementsLocked:
			// One privacy rejection locks the rest of the run: every
			// remaining game records name and HasAchievements only.
			result.Visibility = library.VisibilityAchievementsLocked
			result.Resolved++
			r.log.Warn().Str("steam_id", steamID).Msg("Achievement data is private, recording names only")
			return library.GameRecord{AppID: appID, Name: name, HasAchievements: true}, outcomeRecorded
		default:
			r.log.Warn().Int64("app_id", appID).Err(err).Msg("Player achievements fetch failed, will retry next run")
			result.Failed++
			return library.GameRecord{}, outcomeFailed
		}

	case library.VisibilityAchievementsLocked:
		result.Resolved++
		return library.GameRecord{AppID: appID, Name: name, HasAchievements: true}, outcomeRecorded

	case library.VisibilityFullyLocked:
		// Unreachable: a fully locked profile aborts before resolution.
		fallthrough
	default:
		return library.GameRecord{}, outcomeFailed
	}
}

// Revalidate runs the opt-in skip-list revalidation pass: every entry is
// re-fetched and entries that now have achievements are removed so future
// scans pick them up again.
func (r *Runner) Revalidate(ctx context.Context) ([]int64, error) {
	r.log.Info().Int("entries", r.skiplist.Len()).Msg("Revalidating skip list")

	removed, err := r.skiplist.RevalidateAll(ctx, r.catalog.HasAchievements)
	if err != nil {
		return removed, err
	}
	if err := r.skiplist.Save(); err != nil {
		return removed, err
	}

	r.log.Info().Int("removed", len(removed)).Int("remaining", r.skiplist.Len()).Msg("Revalidation complete")
	return removed, nil
}
