package library

// GlobalAchievement is one row of a game's global unlock-percentage table,
// in the order the catalog returned it.
type GlobalAchievement struct {
	Name    string
	Percent float64
}

// Rarity holds the resolved achievement fields for one game.
type Rarity struct {
	HasAchievements bool
	RarestName      *string
	RarestPercent   *float64
	Completed       *bool
}

// ResolveRarity combines the user's unlocked achievement set with a game's
// global unlock-percentage table.
//
// An empty or absent global table means the game has no achievements at all
// and is a skip-list candidate. Otherwise the rarest achievement is the
// unlocked one with the minimum percentage; ties keep the first entry in
// the table's order, which makes the result deterministic for a given
// fetched table. Completed is true iff every achievement in the table is
// unlocked. A user with zero unlocked achievements gets no rarest fields
// and Completed = false.
func ResolveRarity(unlocked map[string]bool, global []GlobalAchievement) Rarity {
	if len(global) == 0 {
		return Rarity{HasAchievements: false}
	}

	var (
		rarestName    string
		rarestPercent float64
		found         bool
		completed     = true
	)

	for _, a := range global {
		if !unlocked[a.Name] {
			completed = false
			continue
		}
		if !found || a.Percent < rarestPercent {
			rarestName = a.Name
			rarestPercent = a.Percent
			found = true
		}
	}

	// With nothing unlocked, found stays false: no rarest fields, and the
	// loop has already forced completed to false.
	r := Rarity{HasAchievements: true, Completed: &completed}
	if found {
		rounded := RoundPercent(rarestPercent)
		r.RarestName = &rarestName
		r.RarestPercent = &rounded
	}
	return r
}

// Record builds a full game record from resolved rarity data.
func (r Rarity) Record(appID int64, name string) GameRecord {
	return GameRecord{
		AppID:           appID,
		Name:            name,
		RarestName:      r.RarestName,
		RarestPercent:   r.RarestPercent,
		Completed:       r.Completed,
		HasAchievements: r.HasAchievements,
	}
}
