package library

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) *CrossRefTable {
	t.Helper()
	table, err := LoadCrossRefTable(filepath.Join(t.TempDir(), "steam_hltb_map.yaml"))
	require.NoError(t, err)
	return table
}

func TestCrossRefUpsertNoDuplicates(t *testing.T) {
	table := newTestTable(t)

	assert.True(t, table.Upsert(CrossRefEntry{AppID: 440, Name: "Team Fortress 2"}))
	assert.False(t, table.Upsert(CrossRefEntry{AppID: 440, Name: "Team Fortress 2", HLTBID: int64Ptr(9031)}))

	assert.Equal(t, 1, table.Len())
	entry, ok := table.Get(440)
	require.True(t, ok)
	require.NotNil(t, entry.HLTBID)
	assert.Equal(t, int64(9031), *entry.HLTBID)
}

func TestMergeFromSnapshotsNoDuplicatesAcrossUsers(t *testing.T) {
	dir := t.TempDir()
	store := NewSnapshotStore(dir)

	// Two users own overlapping games.
	require.NoError(t, store.Save("76561198000000001", Snapshot{
		{AppID: 440, Name: "Team Fortress 2", RarestPercent: floatPtr(0.3)},
		{AppID: 620, Name: "Portal 2", RarestPercent: floatPtr(1.2)},
	}))
	require.NoError(t, store.Save("76561198000000002", Snapshot{
		{AppID: 440, Name: "Team Fortress 2", RarestPercent: floatPtr(0.3)},
		{AppID: 730, Name: "Counter-Strike 2", RarestPercent: floatPtr(2.0)},
	}))

	table, err := LoadCrossRefTable(filepath.Join(dir, "steam_hltb_map.yaml"))
	require.NoError(t, err)

	added, err := table.MergeFromSnapshots(store)
	require.NoError(t, err)
	assert.Equal(t, 3, added)
	assert.Equal(t, 3, table.Len())

	// Merging again adds nothing and existing entries survive untouched.
	entry, _ := table.Get(440)
	entry.HLTBID = int64Ptr(9031)

	added, err = table.MergeFromSnapshots(store)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Equal(t, 3, table.Len())

	entry, ok := table.Get(440)
	require.True(t, ok)
	require.NotNil(t, entry.HLTBID, "merge must never reset existing entries")
}

func TestSortCanonicalIdempotent(t *testing.T) {
	table := newTestTable(t)
	table.Upsert(CrossRefEntry{AppID: 730})
	table.Upsert(CrossRefEntry{AppID: 440})
	table.Upsert(CrossRefEntry{AppID: 620})

	table.SortCanonical()
	first := append([]CrossRefEntry(nil), table.Entries()...)
	table.SortCanonical()

	assert.Equal(t, first, table.Entries())
	assert.Equal(t, int64(440), table.Entries()[0].AppID)
	assert.Equal(t, int64(730), table.Entries()[2].AppID)

	// The index survives re-sorting.
	entry, ok := table.Get(620)
	require.True(t, ok)
	assert.Equal(t, int64(620), entry.AppID)
}

func TestRefreshPercentagesKeepsValueOnFailure(t *testing.T) {
	table := newTestTable(t)
	table.Upsert(CrossRefEntry{AppID: 1, RarestPercent: floatPtr(9.9)})
	table.Upsert(CrossRefEntry{AppID: 2, RarestPercent: floatPtr(5.0)})

	updated, err := table.RefreshPercentages(context.Background(), func(_ context.Context, appID int64) ([]GlobalAchievement, error) {
		if appID == 1 {
			return nil, errors.New("502 bad gateway")
		}
		return []GlobalAchievement{{Name: "A", Percent: 1.23}, {Name: "B", Percent: 45}}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	failed, _ := table.Get(1)
	assert.Equal(t, 9.9, *failed.RarestPercent, "a failed fetch leaves the cached value unchanged")

	refreshed, _ := table.Get(2)
	assert.Equal(t, 1.2, *refreshed.RarestPercent)
}

func TestRefreshHours(t *testing.T) {
	table := newTestTable(t)
	table.Upsert(CrossRefEntry{AppID: 1, Name: "Portal 2", HLTBID: int64Ptr(6004)})
	table.Upsert(CrossRefEntry{AppID: 2, Name: "Team Fortress 2"})
	table.Upsert(CrossRefEntry{AppID: 3}) // no ID and no name: skipped

	updated, err := table.RefreshHours(context.Background(),
		func(_ context.Context, hltbID int64) (float64, error) {
			assert.Equal(t, int64(6004), hltbID)
			return 21, nil
		},
		func(_ context.Context, name string) (int64, float64, error) {
			assert.Equal(t, "Team Fortress 2", name)
			return 9031, 200, nil
		})

	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	byID, _ := table.Get(1)
	assert.Equal(t, 21.0, *byID.CompletionistHours)

	discovered, _ := table.Get(2)
	require.NotNil(t, discovered.HLTBID)
	assert.Equal(t, int64(9031), *discovered.HLTBID)

	skipped, _ := table.Get(3)
	assert.Nil(t, skipped.CompletionistHours)
}

func TestCrossRefSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steam_hltb_map.yaml")

	table, err := LoadCrossRefTable(path)
	require.NoError(t, err)
	table.Upsert(CrossRefEntry{AppID: 620, Name: "Portal 2", HLTBID: int64Ptr(6004), CompletionistHours: floatPtr(21)})
	table.Upsert(CrossRefEntry{AppID: 440, Name: "Team Fortress 2"})
	table.SortCanonical()
	require.NoError(t, table.Save())

	loaded, err := LoadCrossRefTable(path)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())
	assert.Equal(t, int64(440), loaded.Entries()[0].AppID)

	portal, ok := loaded.Get(620)
	require.True(t, ok)
	require.NotNil(t, portal.CompletionistHours)
	assert.Equal(t, 21.0, *portal.CompletionistHours)
}

func int64Ptr(i int64) *int64 { return &i }
