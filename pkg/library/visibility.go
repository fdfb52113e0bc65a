package library

import (
	apperrors "github.com/playtrack/completionist/pkg/errors"
)

// Visibility classifies how much of a profile's data is accessible.
type Visibility int

const (
	// VisibilityOpen means both the library and per-game achievement data
	// are public; full resolution proceeds.
	VisibilityOpen Visibility = iota

	// VisibilityAchievementsLocked means the library is public but per-game
	// achievement data is not. Records are produced with name and
	// HasAchievements only; the run still succeeds.
	VisibilityAchievementsLocked

	// VisibilityFullyLocked means the owned-games list itself is
	// inaccessible. This is fatal for the whole run.
	VisibilityFullyLocked
)

// String implements fmt.Stringer.
func (v Visibility) String() string {
	switch v {
	case VisibilityOpen:
		return "open"
	case VisibilityAchievementsLocked:
		return "achievements-locked"
	case VisibilityFullyLocked:
		return "fully-locked"
	default:
		return "unknown"
	}
}

// ClassifyProfile maps the outcomes of the two profile-level fetches to a
// visibility tier. libraryErr is the result of listing the user's owned
// games; statsErr is the result of the first per-game player-achievements
// fetch (nil when it succeeded, or when no fetch was attempted yet).
//
// A privacy failure on the library fetch locks the whole profile. A privacy
// failure on the stats fetch only locks achievement data. Transient errors
// classify as open: they are handled at the item boundary, not here.
func ClassifyProfile(libraryErr, statsErr error) Visibility {
	if apperrors.IsProfilePrivate(libraryErr) {
		return VisibilityFullyLocked
	}
	if apperrors.IsProfilePrivate(statsErr) {
		return VisibilityAchievementsLocked
	}
	return VisibilityOpen
}
