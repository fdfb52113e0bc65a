// Package steam wraps the Steam Web API endpoints the scraper needs:
// owned games, per-game player achievements, global unlock percentages,
// and vanity URL resolution. Each call is a simple request/response
// wrapper; privacy failures are mapped onto the error taxonomy so callers
// can classify visibility.
package steam

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/playtrack/completionist/internal/transport"
	"github.com/playtrack/completionist/pkg/errors"
	"github.com/playtrack/completionist/pkg/library"
)

const defaultBaseURL = "https://api.steampowered.com"

// service name used in API errors.
const service = "steam"

// Client calls the Steam Web API.
type Client struct {
	transport *transport.Client
	apiKey    string
	baseURL   string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTransport overrides the HTTP transport.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) { c.transport = t }
}

// New creates a Steam API client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		transport: transport.New(nil),
		apiKey:    apiKey,
		baseURL:   defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OwnedGame is one game in a user's library, in catalog-provided order.
type OwnedGame struct {
	AppID           int64  `json:"appid"`
	Name            string `json:"name"`
	PlaytimeForever int64  `json:"playtime_forever"`
}

// PlayerAchievement is one achievement from a user's per-game stats.
type PlayerAchievement struct {
	APIName  string `json:"apiname"`
	Achieved int    `json:"achieved"`
}

// OwnedGames lists the games a user owns, including free and
// profile-limited games. An empty response means the profile's library is
// not visible, which is fatal for a run: the error satisfies
// errors.Is(err, ErrProfilePrivate) with the library flag set.
func (c *Client) OwnedGames(ctx context.Context, steamID string) ([]OwnedGame, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("steamid", steamID)
	q.Set("include_appinfo", "1")
	q.Set("include_played_free_games", "1")
	q.Set("skip_unvetted_apps", "0")

	endpoint := fmt.Sprintf("%s/IPlayerService/GetOwnedGames/v1/?%s", c.baseURL, q.Encode())
	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, errors.WrapAPI(service, 0, err)
	}

	var result struct {
		Response struct {
			GameCount int         `json:"game_count"`
			Games     []OwnedGame `json:"games"`
		} `json:"response"`
	}
	if err := transport.DecodeResponse(service, resp, &result); err != nil {
		return nil, errors.NewProfileError(steamID, true, "the SteamID is invalid or the profile is private", err)
	}

	// Steam answers 200 with an empty response object for private profiles.
	if result.Response.Games == nil {
		return nil, errors.NewProfileError(steamID, true, "the profile's game list is not public", nil)
	}
	return result.Response.Games, nil
}

// PlayerAchievements returns the user's achievement stats for one game.
// A profile with private game details yields an error satisfying
// errors.Is(err, ErrProfilePrivate); a game without achievements yields
// errors.Is(err, ErrNoAchievements).
func (c *Client) PlayerAchievements(ctx context.Context, steamID string, appID int64) ([]PlayerAchievement, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("steamid", steamID)
	q.Set("appid", strconv.FormatInt(appID, 10))

	endpoint := fmt.Sprintf("%s/ISteamUserStats/GetPlayerAchievements/v1/?%s", c.baseURL, q.Encode())
	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, errors.WrapAPI(service, 0, err)
	}

	var result struct {
		PlayerStats struct {
			Error        string              `json:"error"`
			Success      bool                `json:"success"`
			Achievements []PlayerAchievement `json:"achievements"`
		} `json:"playerstats"`
	}
	if err := transport.DecodeResponse(service, resp, &result); err != nil {
		var apiErr *errors.APIError
		if errors.As(err, &apiErr) {
			switch {
			case strings.Contains(apiErr.Message, "Profile is not public"):
				return nil, errors.NewProfileError(steamID, false, "game details are private", apiErr)
			case strings.Contains(apiErr.Message, "no stats"):
				return nil, fmt.Errorf("app %d: %w", appID, errors.ErrNoAchievements)
			}
		}
		return nil, err
	}

	return result.PlayerStats.Achievements, nil
}

// UnlockedSet fetches the user's stats for a game and returns the set of
// unlocked achievement API names.
func (c *Client) UnlockedSet(ctx context.Context, steamID string, appID int64) (map[string]bool, error) {
	achievements, err := c.PlayerAchievements(ctx, steamID, appID)
	if err != nil {
		return nil, err
	}
	unlocked := make(map[string]bool, len(achievements))
	for _, a := range achievements {
		if a.Achieved != 0 {
			unlocked[a.APIName] = true
		}
	}
	return unlocked, nil
}

// GlobalPercentages returns a game's global unlock-percentage table in the
// order Steam provides it. A nil table with a nil error means the game has
// no achievements: Steam rejects the request for apps without stats, and
// that rejection is a confirmed absence, not a transient failure.
func (c *Client) GlobalPercentages(ctx context.Context, appID int64) ([]library.GlobalAchievement, error) {
	q := url.Values{}
	q.Set("gameid", strconv.FormatInt(appID, 10))

	endpoint := fmt.Sprintf("%s/ISteamUserStats/GetGlobalAchievementPercentagesForApp/v2/?%s", c.baseURL, q.Encode())
	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, errors.WrapAPI(service, 0, err)
	}

	var result struct {
		AchievementPercentages struct {
			Achievements []struct {
				Name    string  `json:"name"`
				Percent float64 `json:"percent"`
			} `json:"achievements"`
		} `json:"achievementpercentages"`
	}
	if err := transport.DecodeResponse(service, resp, &result); err != nil {
		var apiErr *errors.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 403 {
			// Steam answers 403 for apps that have no stats at all.
			return nil, nil
		}
		return nil, err
	}

	rows := result.AchievementPercentages.Achievements
	if len(rows) == 0 {
		return nil, nil
	}
	global := make([]library.GlobalAchievement, len(rows))
	for i, row := range rows {
		global[i] = library.GlobalAchievement{Name: row.Name, Percent: row.Percent}
	}
	return global, nil
}

// HasAchievements reports whether a game currently has any achievements.
// Used by the skip-list revalidation pass.
func (c *Client) HasAchievements(ctx context.Context, appID int64) (bool, error) {
	global, err := c.GlobalPercentages(ctx, appID)
	if err != nil {
		return false, err
	}
	return len(global) > 0, nil
}

// ResolveVanityURL resolves a vanity profile name to a 64-bit SteamID.
func (c *Client) ResolveVanityURL(ctx context.Context, vanity string) (string, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("vanityurl", vanity)

	endpoint := fmt.Sprintf("%s/ISteamUser/ResolveVanityURL/v1/?%s", c.baseURL, q.Encode())
	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return "", errors.WrapAPI(service, 0, err)
	}

	var result struct {
		Response struct {
			SteamID string `json:"steamid"`
			Success int    `json:"success"`
		} `json:"response"`
	}
	if err := transport.DecodeResponse(service, resp, &result); err != nil {
		return "", err
	}

	if result.Response.Success != 1 || result.Response.SteamID == "" {
		return "", errors.NewValidationError("vanity", vanity, "the vanity URL could not be resolved to a SteamID")
	}
	return result.Response.SteamID, nil
}
