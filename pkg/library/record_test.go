package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool { return &b }
func strPtr(s string) *string { return &s }

func TestSnapshotSortAscendingUnsetLast(t *testing.T) {
	snap := Snapshot{
		{AppID: 1, Name: "no data"},
		{AppID: 2, Name: "common", RarestPercent: floatPtr(70)},
		{AppID: 3, Name: "rare", RarestPercent: floatPtr(0.3)},
		{AppID: 4, Name: "also no data"},
		{AppID: 5, Name: "mid", RarestPercent: floatPtr(12.5)},
	}

	snap.Sort()

	var order []int64
	for _, r := range snap {
		order = append(order, r.AppID)
	}
	assert.Equal(t, []int64{3, 5, 2, 1, 4}, order)

	// Adjacent-pair invariant: non-decreasing where present, unset last.
	for i := 0; i < len(snap)-1; i++ {
		a, b := snap[i].RarestPercent, snap[i+1].RarestPercent
		if a == nil {
			assert.Nil(t, b, "a record without a percentage must not precede one with it")
		} else if b != nil {
			assert.LessOrEqual(t, *a, *b)
		}
	}
}

func TestSnapshotSortStableOnTies(t *testing.T) {
	snap := Snapshot{
		{AppID: 10, RarestPercent: floatPtr(5)},
		{AppID: 20, RarestPercent: floatPtr(5)},
		{AppID: 30, RarestPercent: floatPtr(5)},
	}
	snap.Sort()
	snap.Sort()

	assert.Equal(t, int64(10), snap[0].AppID)
	assert.Equal(t, int64(20), snap[1].AppID)
	assert.Equal(t, int64(30), snap[2].AppID)
}

func TestSnapshotMergeAdditive(t *testing.T) {
	existing := Snapshot{
		{AppID: 1, Name: "old", RarestPercent: floatPtr(3), Completed: boolPtr(false), HasAchievements: true},
	}
	fresh := []GameRecord{
		{AppID: 2, Name: "new", RarestPercent: floatPtr(1), Completed: boolPtr(true), HasAchievements: true},
	}

	merged := existing.Merge(fresh)

	require.Len(t, merged, 2)
	assert.Equal(t, int64(2), merged[0].AppID, "rarer new entry sorts first")
	assert.Equal(t, int64(1), merged[1].AppID)
}

func TestSnapshotMergeNeverOverwritesResolvedEntries(t *testing.T) {
	existing := Snapshot{
		{
			AppID:           1,
			Name:            "resolved",
			RarestName:      strPtr("OLD_RAREST"),
			RarestPercent:   floatPtr(3),
			Completed:       boolPtr(false),
			HasAchievements: true,
		},
	}
	// A later run fetched the same game again with different data, e.g.
	// the user has since completed it. The existing entry must win.
	fresh := []GameRecord{
		{
			AppID:           1,
			Name:            "resolved",
			RarestName:      strPtr("NEW_RAREST"),
			RarestPercent:   floatPtr(0.1),
			Completed:       boolPtr(true),
			HasAchievements: true,
		},
	}

	merged := existing.Merge(fresh)

	require.Len(t, merged, 1)
	assert.Equal(t, "OLD_RAREST", *merged[0].RarestName)
	assert.Equal(t, 3.0, *merged[0].RarestPercent)
	assert.False(t, *merged[0].Completed)
}

func TestSnapshotMergeEmptyExisting(t *testing.T) {
	var existing Snapshot
	fresh := []GameRecord{
		{AppID: 2, RarestPercent: floatPtr(50)},
		{AppID: 1, RarestPercent: floatPtr(5)},
	}

	merged := existing.Merge(fresh)

	require.Len(t, merged, 2)
	assert.Equal(t, int64(1), merged[0].AppID)
}

func TestSnapshotRefreshPercentages(t *testing.T) {
	snap := Snapshot{
		{AppID: 1, RarestName: strPtr("A"), RarestPercent: floatPtr(3), Completed: boolPtr(true)},
		{AppID: 2, RarestPercent: floatPtr(1)},
		{AppID: 3}, // unresolved: no percentage to refresh
	}

	snap.RefreshPercentages(map[int64]float64{1: 0.51, 3: 2})

	// Entry 1 got the fresh (rounded) percentage and re-sorted to the top;
	// its name and completion flag are untouched.
	assert.Equal(t, int64(1), snap[0].AppID)
	assert.Equal(t, 0.5, *snap[0].RarestPercent)
	assert.Equal(t, "A", *snap[0].RarestName)
	assert.True(t, *snap[0].Completed)

	// Entry 3 had no percentage set, so the refresh must not invent one.
	assert.Nil(t, snap[2].RarestPercent)
}

func TestRoundPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{5.0, 5.0},
		{0.04, 0.0},
		{0.05, 0.1},
		{99.99, 100.0},
		{12.34, 12.3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundPercent(tt.in))
	}
}
