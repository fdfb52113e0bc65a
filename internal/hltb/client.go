// Package hltb wraps the HowLongToBeat search and game endpoints used to
// cross-reference Steam games with completion-time estimates. HLTB has no
// official API; these are the same endpoints the website frontend calls,
// keyed by its own identifier space.
package hltb

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/playtrack/completionist/internal/transport"
	"github.com/playtrack/completionist/pkg/errors"
)

const defaultBaseURL = "https://howlongtobeat.com"

// service name used in API errors.
const service = "hltb"

// secondsPerHour converts HLTB's comp_100 seconds to whole hours.
const secondsPerHour = 3600

// Client calls the HowLongToBeat API.
type Client struct {
	transport *transport.Client
	baseURL   string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// New creates an HLTB client. The endpoints reject requests without
// browser-like headers, so the transport sends them on every call.
func New(opts ...Option) *Client {
	c := &Client{
		transport: transport.New(map[string]string{
			"User-Agent": "Mozilla/5.0 (compatible; completionist)",
			"Referer":    defaultBaseURL + "/",
			"Origin":     defaultBaseURL,
		}),
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is one HLTB search hit, scored against the query title.
type Result struct {
	ID                 int64
	Name               string
	CompletionistHours float64
	Similarity         float64
}

type searchRequest struct {
	SearchType  string   `json:"searchType"`
	SearchTerms []string `json:"searchTerms"`
	SearchPage  int      `json:"searchPage"`
	Size        int      `json:"size"`
}

type searchResponse struct {
	Data []struct {
		GameID   int64   `json:"game_id"`
		GameName string  `json:"game_name"`
		Comp100  float64 `json:"comp_100"`
	} `json:"data"`
}

// Search queries HLTB by game name. The name is normalized first and each
// hit is scored for similarity against it.
func (c *Client) Search(ctx context.Context, name string) ([]Result, error) {
	clean := NormalizeTitle(name)
	if clean == "" {
		return nil, errors.NewValidationError("name", name, "nothing left to search after normalization")
	}

	body, err := json.Marshal(searchRequest{
		SearchType:  "games",
		SearchTerms: strings.Fields(clean),
		SearchPage:  1,
		Size:        20,
	})
	if err != nil {
		return nil, errors.WrapParse("json", "search request", err)
	}

	resp, err := c.transport.Post(ctx, c.baseURL+"/api/search", body)
	if err != nil {
		return nil, errors.WrapAPI(service, 0, err)
	}

	var parsed searchResponse
	if err := transport.DecodeResponse(service, resp, &parsed); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(parsed.Data))
	for _, hit := range parsed.Data {
		results = append(results, Result{
			ID:                 hit.GameID,
			Name:               hit.GameName,
			CompletionistHours: math.Round(hit.Comp100 / secondsPerHour),
			Similarity:         similarity(clean, NormalizeTitle(hit.GameName)),
		})
	}
	return results, nil
}

// Best returns the highest-similarity result, or an error when the search
// produced no hits. Ties keep the earlier result, matching HLTB's own
// relevance order.
func Best(results []Result) (Result, error) {
	if len(results) == 0 {
		return Result{}, errors.ErrNotFound
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.Similarity > best.Similarity {
			best = r
		}
	}
	return best, nil
}

// Lookup searches by name and returns the best match's HLTB ID and
// completionist hours.
func (c *Client) Lookup(ctx context.Context, name string) (int64, float64, error) {
	results, err := c.Search(ctx, name)
	if err != nil {
		return 0, 0, err
	}
	best, err := Best(results)
	if err != nil {
		return 0, 0, fmt.Errorf("no HLTB match for %q: %w", name, err)
	}
	return best.ID, best.CompletionistHours, nil
}

// CompletionistHours fetches the completionist time for a known HLTB ID.
func (c *Client) CompletionistHours(ctx context.Context, hltbID int64) (float64, error) {
	resp, err := c.transport.Get(ctx, fmt.Sprintf("%s/api/game/%d", c.baseURL, hltbID))
	if err != nil {
		return 0, errors.WrapAPI(service, 0, err)
	}

	var parsed struct {
		Data []struct {
			Comp100 float64 `json:"comp_100"`
		} `json:"data"`
	}
	if err := transport.DecodeResponse(service, resp, &parsed); err != nil {
		return 0, err
	}
	if len(parsed.Data) == 0 {
		return 0, fmt.Errorf("HLTB game %d: %w", hltbID, errors.ErrNotFound)
	}
	return math.Round(parsed.Data[0].Comp100 / secondsPerHour), nil
}
