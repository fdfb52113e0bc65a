package library

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/playtrack/completionist/pkg/constants"
	apperrors "github.com/playtrack/completionist/pkg/errors"
	"github.com/playtrack/completionist/pkg/logging"
)

// CrossRefEntry maps one Steam app to its HowLongToBeat counterpart.
// HLTBID and CompletionistHours stay unset until the HLTB lookup pass
// fills them in.
type CrossRefEntry struct {
	AppID              int64    `yaml:"app_id"`
	Name               string   `yaml:"name,omitempty"`
	RarestPercent      *float64 `yaml:"rarest_achievement_percent,omitempty"`
	HLTBID             *int64   `yaml:"hltb_id,omitempty"`
	CompletionistHours *float64 `yaml:"completionist_hours,omitempty"`
}

// CrossRefTable is the master mapping between Steam app IDs and HLTB IDs,
// shared across all users and maintained by dedicated passes independent
// of any single user's scan. Entries are unique per app ID; canonical
// order is ascending app ID.
type CrossRefTable struct {
	path    string
	entries []CrossRefEntry
	index   map[int64]int
}

// PercentFetchFunc fetches the current global unlock-percentage table for
// one app.
type PercentFetchFunc func(ctx context.Context, appID int64) ([]GlobalAchievement, error)

// HoursByIDFunc fetches the completionist time for a known HLTB ID.
type HoursByIDFunc func(ctx context.Context, hltbID int64) (float64, error)

// HLTBSearchFunc finds the HLTB ID and completionist time for a game name.
type HLTBSearchFunc func(ctx context.Context, name string) (hltbID int64, hours float64, err error)

// LoadCrossRefTable reads the table from path. A missing file yields an
// empty table; a corrupt file is an error.
func LoadCrossRefTable(path string) (*CrossRefTable, error) {
	t := &CrossRefTable{path: path, index: make(map[int64]int)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return t, nil
	}
	if err != nil {
		return nil, apperrors.WrapIO("read", path, err)
	}

	if err := yaml.Unmarshal(data, &t.entries); err != nil {
		return nil, apperrors.WrapParse("yaml", path, err)
	}
	t.reindex()
	return t, nil
}

// Entries returns the table's entries in their current order.
func (t *CrossRefTable) Entries() []CrossRefEntry {
	return t.entries
}

// Len returns the number of entries.
func (t *CrossRefTable) Len() int {
	return len(t.entries)
}

// Get returns a pointer to the entry for appID so maintenance passes can
// update fields in place.
func (t *CrossRefTable) Get(appID int64) (*CrossRefEntry, bool) {
	i, ok := t.index[appID]
	if !ok {
		return nil, false
	}
	return &t.entries[i], true
}

// Upsert inserts a new entry or updates an existing one in place. The
// table never holds two entries for the same app ID. Returns true when the
// entry was newly added.
func (t *CrossRefTable) Upsert(entry CrossRefEntry) bool {
	if i, ok := t.index[entry.AppID]; ok {
		t.entries[i] = entry
		return false
	}
	t.index[entry.AppID] = len(t.entries)
	t.entries = append(t.entries, entry)
	return true
}

// MergeFromSnapshots scans every persisted snapshot and inserts an entry
// for each app ID the table does not know yet, with the HLTB fields unset
// for the lookup pass to fill. Existing entries are never modified or
// removed. Returns the number of entries added.
func (t *CrossRefTable) MergeFromSnapshots(store *SnapshotStore) (int, error) {
	steamIDs, err := store.List()
	if err != nil {
		return 0, err
	}

	added := 0
	for _, steamID := range steamIDs {
		snap, err := store.Load(steamID)
		if err != nil {
			return added, err
		}
		for _, r := range snap {
			if _, ok := t.index[r.AppID]; ok {
				continue
			}
			t.index[r.AppID] = len(t.entries)
			t.entries = append(t.entries, CrossRefEntry{
				AppID:         r.AppID,
				Name:          r.Name,
				RarestPercent: r.RarestPercent,
			})
			added++
		}
	}
	return added, nil
}

// SortCanonical orders the table ascending by app ID. Applying it twice is
// the same as applying it once.
func (t *CrossRefTable) SortCanonical() {
	sort.SliceStable(t.entries, func(i, j int) bool {
		return t.entries[i].AppID < t.entries[j].AppID
	})
	t.reindex()
}

// RefreshPercentages re-fetches each entry's global achievement table and
// updates the cached rarest percentage. A failed fetch leaves that entry
// unchanged and the pass continues; it never aborts on a single entry.
// Returns the number of entries updated.
func (t *CrossRefTable) RefreshPercentages(ctx context.Context, fetch PercentFetchFunc) (int, error) {
	log := logging.Default()

	updated := 0
	for i := range t.entries {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		entry := &t.entries[i]
		global, err := fetch(ctx, entry.AppID)
		if err != nil {
			log.Warn().Int64("app_id", entry.AppID).Err(err).Msg("Percentage refresh failed, keeping cached value")
			continue
		}
		if rarest, ok := rarestOf(global); ok {
			entry.RarestPercent = &rarest
			updated++
		}

		if (i+1)%constants.ProgressInterval == 0 {
			log.Info().Int("checked", i+1).Int("updated", updated).Msg("Percentage refresh progress")
		}
	}
	return updated, nil
}

// RefreshHours updates completionist times from HLTB. Entries with a known
// HLTB ID are refreshed by ID; entries without one get a single
// search-by-name attempt to discover the mapping. Per-entry failures skip
// and continue. Returns the number of entries updated.
func (t *CrossRefTable) RefreshHours(ctx context.Context, byID HoursByIDFunc, search HLTBSearchFunc) (int, error) {
	log := logging.Default()

	updated := 0
	for i := range t.entries {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		entry := &t.entries[i]
		switch {
		case entry.HLTBID != nil:
			hours, err := byID(ctx, *entry.HLTBID)
			if err != nil {
				log.Warn().Int64("app_id", entry.AppID).Int64("hltb_id", *entry.HLTBID).Err(err).Msg("HLTB time refresh failed")
				continue
			}
			entry.CompletionistHours = &hours
			updated++
		case entry.Name != "" && search != nil:
			hltbID, hours, err := search(ctx, entry.Name)
			if err != nil {
				log.Debug().Int64("app_id", entry.AppID).Str("name", entry.Name).Err(err).Msg("HLTB search found no match")
				continue
			}
			entry.HLTBID = &hltbID
			entry.CompletionistHours = &hours
			updated++
		}
	}
	return updated, nil
}

// Save writes the table to disk as YAML.
func (t *CrossRefTable) Save() error {
	data, err := yaml.Marshal(t.entries)
	if err != nil {
		return apperrors.WrapParse("yaml", t.path, err)
	}
	if dir := filepath.Dir(t.path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return apperrors.WrapIO("create", dir, err)
		}
	}
	if err := os.WriteFile(t.path, data, constants.FilePermissions); err != nil {
		return apperrors.WrapIO("write", t.path, err)
	}
	return nil
}

// reindex rebuilds the app ID index after a reorder.
func (t *CrossRefTable) reindex() {
	t.index = make(map[int64]int, len(t.entries))
	for i, e := range t.entries {
		t.index[e.AppID] = i
	}
}

// rarestOf returns the minimum unlock percentage in a global table, rounded
// to the stored precision.
func rarestOf(global []GlobalAchievement) (float64, bool) {
	if len(global) == 0 {
		return 0, false
	}
	rarest := global[0].Percent
	for _, a := range global[1:] {
		if a.Percent < rarest {
			rarest = a.Percent
		}
	}
	return RoundPercent(rarest), true
}
