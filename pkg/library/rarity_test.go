package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRarityRarestUnlocked(t *testing.T) {
	global := []GlobalAchievement{
		{Name: "A", Percent: 5},
		{Name: "B", Percent: 50},
	}
	unlocked := map[string]bool{"A": true}

	r := ResolveRarity(unlocked, global)

	assert.True(t, r.HasAchievements)
	require.NotNil(t, r.RarestName)
	assert.Equal(t, "A", *r.RarestName)
	require.NotNil(t, r.RarestPercent)
	assert.Equal(t, 5.0, *r.RarestPercent)
	require.NotNil(t, r.Completed)
	assert.False(t, *r.Completed)
}

func TestResolveRarityCompleted(t *testing.T) {
	global := []GlobalAchievement{
		{Name: "A", Percent: 5},
		{Name: "B", Percent: 50},
	}
	unlocked := map[string]bool{"A": true, "B": true}

	r := ResolveRarity(unlocked, global)

	require.NotNil(t, r.RarestName)
	assert.Equal(t, "A", *r.RarestName)
	require.NotNil(t, r.Completed)
	assert.True(t, *r.Completed)
}

func TestResolveRarityNoAchievements(t *testing.T) {
	r := ResolveRarity(map[string]bool{"A": true}, nil)

	assert.False(t, r.HasAchievements)
	assert.Nil(t, r.RarestName)
	assert.Nil(t, r.RarestPercent)
	assert.Nil(t, r.Completed)
}

func TestResolveRarityNothingUnlocked(t *testing.T) {
	global := []GlobalAchievement{
		{Name: "A", Percent: 5},
		{Name: "B", Percent: 50},
	}

	r := ResolveRarity(map[string]bool{}, global)

	assert.True(t, r.HasAchievements)
	assert.Nil(t, r.RarestName)
	assert.Nil(t, r.RarestPercent)
	require.NotNil(t, r.Completed)
	assert.False(t, *r.Completed)
}

func TestResolveRarityTieKeepsTableOrder(t *testing.T) {
	// Two unlocked achievements share the minimum percentage; the first
	// one in the table's order wins, so the result is deterministic for a
	// given fetched table.
	global := []GlobalAchievement{
		{Name: "ZEBRA", Percent: 2.5},
		{Name: "AARDVARK", Percent: 2.5},
		{Name: "COMMON", Percent: 90},
	}
	unlocked := map[string]bool{"ZEBRA": true, "AARDVARK": true}

	r := ResolveRarity(unlocked, global)

	require.NotNil(t, r.RarestName)
	assert.Equal(t, "ZEBRA", *r.RarestName)
}

func TestResolveRarityRoundsPercent(t *testing.T) {
	global := []GlobalAchievement{{Name: "A", Percent: 3.14159}}
	r := ResolveRarity(map[string]bool{"A": true}, global)

	require.NotNil(t, r.RarestPercent)
	assert.Equal(t, 3.1, *r.RarestPercent)
}

func TestRarityRecord(t *testing.T) {
	global := []GlobalAchievement{{Name: "A", Percent: 5}}
	rec := ResolveRarity(map[string]bool{"A": true}, global).Record(440, "Team Fortress 2")

	assert.Equal(t, int64(440), rec.AppID)
	assert.Equal(t, "Team Fortress 2", rec.Name)
	assert.True(t, rec.HasAchievements)
	require.NotNil(t, rec.Completed)
	assert.True(t, *rec.Completed)
}
