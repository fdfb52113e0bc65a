package library

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/playtrack/completionist/pkg/constants"
	apperrors "github.com/playtrack/completionist/pkg/errors"
	"github.com/playtrack/completionist/pkg/logging"
)

// SkipList is the global set of app IDs confirmed to have zero
// achievements. A skip-listed game is never re-fetched during a normal
// scan; only the revalidation pass may remove entries, and only after a
// fresh fetch confirms achievements now exist.
type SkipList struct {
	path string
	ids  map[int64]struct{}
}

// RevalidateFunc re-fetches achievement metadata for one app and reports
// whether the app now has achievements. An error means the fetch itself
// failed and nothing can be concluded.
type RevalidateFunc func(ctx context.Context, appID int64) (hasAchievements bool, err error)

// LoadSkipList reads the skip list from path. A missing file yields an
// empty list; a corrupt file is an error, because saving over it would
// silently re-enable fetches for thousands of games.
func LoadSkipList(path string) (*SkipList, error) {
	s := &SkipList{path: path, ids: make(map[int64]struct{})}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, apperrors.WrapIO("read", path, err)
	}

	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, apperrors.WrapParse("json", path, err)
	}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s, nil
}

// Contains reports whether appID is skip-listed.
func (s *SkipList) Contains(appID int64) bool {
	_, ok := s.ids[appID]
	return ok
}

// Add inserts appID. Adding an existing entry is a no-op.
func (s *SkipList) Add(appID int64) {
	s.ids[appID] = struct{}{}
}

// Len returns the number of skip-listed apps.
func (s *SkipList) Len() int {
	return len(s.ids)
}

// AppIDs returns the skip-listed app IDs in ascending order.
func (s *SkipList) AppIDs() []int64 {
	ids := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Save writes the list to disk as a sorted JSON array.
func (s *SkipList) Save() error {
	data, err := json.MarshalIndent(s.AppIDs(), "", "    ")
	if err != nil {
		return apperrors.WrapParse("json", s.path, err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return apperrors.WrapIO("create", dir, err)
		}
	}
	if err := os.WriteFile(s.path, data, constants.FilePermissions); err != nil {
		return apperrors.WrapIO("write", s.path, err)
	}
	return nil
}

// RevalidateAll re-fetches achievement metadata for every entry and removes
// the ones that now have achievements, returning the removed app IDs so the
// caller can put them back into future scans. A fetch failure never removes
// an entry: absence of data is not evidence of absence of achievements.
//
// This touches the entire list and is the dominant cost of a full run, so
// it only runs in its own invocation mode.
func (s *SkipList) RevalidateAll(ctx context.Context, fetch RevalidateFunc) ([]int64, error) {
	log := logging.Default()

	var removed []int64
	for i, appID := range s.AppIDs() {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		has, err := fetch(ctx, appID)
		if err != nil {
			log.Warn().Int64("app_id", appID).Err(err).Msg("Revalidation fetch failed, keeping entry")
			continue
		}
		if has {
			delete(s.ids, appID)
			removed = append(removed, appID)
			log.Debug().Int64("app_id", appID).Msg("Game now has achievements, removed from skip list")
		}

		if (i+1)%constants.ProgressInterval == 0 {
			log.Info().Int("checked", i+1).Int("removed", len(removed)).Msg("Revalidation progress")
		}
	}
	return removed, nil
}
