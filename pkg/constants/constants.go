// Package constants provides shared constants used throughout the completionist codebase.
// This includes timeouts, file permissions, store file names, and other values
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the Steam and HLTB APIs
	DefaultHTTPTimeout = 30 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// RevalidateTimeout is the timeout for a full skip-list revalidation pass,
	// which touches every skip-listed app and is the dominant cost of a run
	RevalidateTimeout = 2 * time.Hour
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Store file names within the data directory
const (
	// SkipListFile holds the global set of app IDs confirmed to have no achievements
	SkipListFile = "no_achievements.json"

	// CrossRefFile holds the master Steam-to-HLTB mapping table
	CrossRefFile = "steam_hltb_map.yaml"

	// DefaultDataDir is the default data directory relative to the working directory
	DefaultDataDir = "data"
)

// Limit constants define various limits and reporting intervals
const (
	// ProgressInterval is how many games are processed between progress log lines
	ProgressInterval = 25

	// SteamIDLength is the length of a 64-bit SteamID in decimal form
	SteamIDLength = 17

	// MaxReportEntries caps how many games a markdown report lists
	MaxReportEntries = 100
)
