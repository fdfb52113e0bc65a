// Package library implements the core data model of the completionist
// system: per-user snapshots of a Steam library ranked by achievement
// rarity, the global skip list of games without achievements, and the
// master cross-reference table to HowLongToBeat.
package library

import (
	"math"
	"sort"
)

// GameRecord is one game in a user's snapshot. The achievement fields are
// pointers because they are unset when the game has no achievements or the
// profile's achievement data was inaccessible.
type GameRecord struct {
	AppID           int64    `json:"app_id"`
	Name            string   `json:"name"`
	RarestName      *string  `json:"rarest_achievement,omitempty"`
	RarestPercent   *float64 `json:"rarest_achievement_percent,omitempty"`
	Completed       *bool    `json:"completed,omitempty"`
	HasAchievements bool     `json:"has_achievements"`
}

// Snapshot is the ordered sequence of game records for one user, sorted
// ascending by rarest achievement percentage. Records without a percentage
// sort last; ties keep insertion order.
type Snapshot []GameRecord

// Sort orders the snapshot per the snapshot invariant: ascending by
// RarestPercent, records without the field last, stable on ties.
func (s Snapshot) Sort() {
	sort.SliceStable(s, func(i, j int) bool {
		a, b := s[i].RarestPercent, s[j].RarestPercent
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
}

// AppIDs returns the set of app IDs present in the snapshot.
func (s Snapshot) AppIDs() map[int64]struct{} {
	ids := make(map[int64]struct{}, len(s))
	for _, r := range s {
		ids[r.AppID] = struct{}{}
	}
	return ids
}

// Contains reports whether the snapshot already holds a record for appID.
func (s Snapshot) Contains(appID int64) bool {
	for _, r := range s {
		if r.AppID == appID {
			return true
		}
	}
	return false
}

// Merge combines the snapshot with freshly resolved records. Existing
// records are never touched: a fresh record whose app ID is already present
// is dropped, so completion and rarity data resolved on an earlier run
// stays exactly as persisted. The result is re-sorted.
func (s Snapshot) Merge(fresh []GameRecord) Snapshot {
	seen := s.AppIDs()
	merged := make(Snapshot, 0, len(s)+len(fresh))
	merged = append(merged, s...)
	for _, r := range fresh {
		if _, ok := seen[r.AppID]; ok {
			continue
		}
		seen[r.AppID] = struct{}{}
		merged = append(merged, r)
	}
	merged.Sort()
	return merged
}

// RefreshPercentages overwrites the rarest-achievement percentage of every
// record present in pcts with a freshly fetched value and re-sorts. This is
// the only operation allowed to modify an already-resolved record; the
// completion flag and rarest achievement name are left untouched.
func (s Snapshot) RefreshPercentages(pcts map[int64]float64) {
	for i := range s {
		if p, ok := pcts[s[i].AppID]; ok && s[i].RarestPercent != nil {
			rounded := RoundPercent(p)
			s[i].RarestPercent = &rounded
		}
	}
	s.Sort()
}

// RoundPercent rounds an unlock percentage to one decimal place, the
// precision the snapshots store.
func RoundPercent(p float64) float64 {
	return math.Round(p*10) / 10
}
