package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/playtrack/completionist/pkg/errors"
)

const testSteamID = "76561198000000000"

func TestSnapshotStoreRoundTrip(t *testing.T) {
	store := NewSnapshotStore(t.TempDir())

	snap := Snapshot{
		{AppID: 2, Name: "common", RarestPercent: floatPtr(70), HasAchievements: true},
		{AppID: 1, Name: "rare", RarestPercent: floatPtr(0.5), Completed: boolPtr(true), HasAchievements: true},
	}
	require.NoError(t, store.Save(testSteamID, snap))

	loaded, err := store.Load(testSteamID)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// Save sorts before writing, so the file order satisfies the invariant.
	assert.Equal(t, int64(1), loaded[0].AppID)
	require.NotNil(t, loaded[0].Completed)
	assert.True(t, *loaded[0].Completed)
}

func TestSnapshotStoreMissingFileIsEmpty(t *testing.T) {
	store := NewSnapshotStore(t.TempDir())

	snap, err := store.Load(testSteamID)
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestSnapshotStoreCorruptFileIsFatal(t *testing.T) {
	dir := t.TempDir()
	store := NewSnapshotStore(dir)
	require.NoError(t, os.WriteFile(store.Path(testSteamID), []byte("]["), 0644))

	_, err := store.Load(testSteamID)
	require.Error(t, err)
	var parseErr *apperrors.ParseError
	require.True(t, errors.As(err, &parseErr), "a corrupt snapshot must surface as a parse error, not an empty snapshot")
	assert.Equal(t, store.Path(testSteamID), parseErr.File)
}

func TestSnapshotStoreList(t *testing.T) {
	dir := t.TempDir()
	store := NewSnapshotStore(dir)

	require.NoError(t, store.Save("76561198000000001", Snapshot{{AppID: 1}}))
	require.NoError(t, store.Save("76561198000000002", Snapshot{{AppID: 2}}))
	// Non-snapshot files in the same directory must be ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "no_achievements.json"), []byte("[]"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	ids, err := store.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"76561198000000001", "76561198000000002"}, ids)
}

func TestSnapshotStoreListMissingDir(t *testing.T) {
	store := NewSnapshotStore(filepath.Join(t.TempDir(), "nope"))
	ids, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSnapshotOptionalFieldsOmittedOnDisk(t *testing.T) {
	store := NewSnapshotStore(t.TempDir())
	require.NoError(t, store.Save(testSteamID, Snapshot{{AppID: 10, Name: "locked profile game"}}))

	data, err := os.ReadFile(store.Path(testSteamID))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "rarest_achievement")
	assert.NotContains(t, string(data), "completed")
}
