package srcom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public speedrun.com REST API.
	DefaultBaseURL = "https://www.speedrun.com/api/v1"

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultPageDelay paces leaderboard and run-page fetches.
	DefaultPageDelay = 500 * time.Millisecond

	// DefaultUserLookupDelay paces user lookups.
	DefaultUserLookupDelay = 100 * time.Millisecond

	// DefaultMaxRuns caps how many runs are collected for a single game.
	DefaultMaxRuns = 100000

	pageSize       = 200
	leaderboardTop = 100
)

// ClientOptions configures a Client.
type ClientOptions struct {
	BaseURL         string
	Timeout         time.Duration
	PageDelay       time.Duration // 0 disables pacing
	UserLookupDelay time.Duration // 0 disables pacing
	MaxRuns         int
}

// DefaultClientOptions returns the production client settings.
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		BaseURL:         DefaultBaseURL,
		Timeout:         DefaultTimeout,
		PageDelay:       DefaultPageDelay,
		UserLookupDelay: DefaultUserLookupDelay,
		MaxRuns:         DefaultMaxRuns,
	}
}

// Client is a speedrun.com API client with rate limiting.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	pageLimiter *rate.Limiter
	userLimiter *rate.Limiter
	maxRuns     int
	userAgent   string
}

// NewClient creates a new speedrun.com API client.
func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRuns <= 0 {
		opts.MaxRuns = DefaultMaxRuns
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		baseURL:     opts.BaseURL,
		pageLimiter: newLimiter(opts.PageDelay),
		userLimiter: newLimiter(opts.UserLookupDelay),
		maxRuns:     opts.MaxRuns,
		userAgent:   "speedpull/1.0",
	}
}

// newLimiter builds a limiter spacing requests by delay; a zero delay
// produces an unlimited limiter so tests can run unpaced.
func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// GameInfo fetches a game's name and release year. Any failure yields the
// Unknown sentinel so a bad game id never aborts processing.
func (c *Client) GameInfo(ctx context.Context, gameID string) GameInfo {
	env, err := c.get(ctx, c.pageLimiter, c.baseURL+"/games/"+url.PathEscape(gameID))
	if err != nil {
		return GameInfo{Name: "Unknown"}
	}

	var game gameData
	if err := json.Unmarshal(env.Data, &game); err != nil {
		return GameInfo{Name: "Unknown"}
	}

	name := game.Names.International
	if name == "" {
		name = "Unknown"
	}

	return GameInfo{Name: name, ReleaseYear: game.Released}
}

// Categories fetches a game's categories in API order. Failures propagate:
// without the category table the game cannot be processed.
func (c *Client) Categories(ctx context.Context, gameID string) ([]Category, error) {
	env, err := c.get(ctx, c.pageLimiter, c.baseURL+"/games/"+url.PathEscape(gameID)+"/categories")
	if err != nil {
		return nil, fmt.Errorf("fetch categories for game %s: %w", gameID, err)
	}

	var raw []categoryData
	if err := json.Unmarshal(env.Data, &raw); err != nil {
		return nil, fmt.Errorf("parse categories for game %s: %w", gameID, err)
	}

	categories := make([]Category, 0, len(raw))
	for _, cat := range raw {
		categories = append(categories, Category{ID: cat.ID, Name: cat.Name})
	}
	return categories, nil
}

// Leaderboard fetches the top-100 snapshot for one category, in rank order.
// Any failure yields an empty snapshot: the category is treated as having no
// ranks and no world record.
func (c *Client) Leaderboard(ctx context.Context, gameID, categoryID string) []LeaderboardEntry {
	reqURL := fmt.Sprintf("%s/leaderboards/%s/category/%s?top=%d",
		c.baseURL, url.PathEscape(gameID), url.PathEscape(categoryID), leaderboardTop)

	env, err := c.get(ctx, c.pageLimiter, reqURL)
	if err != nil {
		return nil
	}

	var board leaderboardData
	if err := json.Unmarshal(env.Data, &board); err != nil {
		return nil
	}

	entries := make([]LeaderboardEntry, 0, len(board.Runs))
	for _, entry := range board.Runs {
		entries = append(entries, LeaderboardEntry{
			RunID: entry.Run.ID,
			Time:  entry.Run.Times.PrimaryT,
		})
	}
	return entries
}

// AllRuns pages through a game's runs, newest submissions first. Pagination
// stops when a page comes back short, the server reports a page size other
// than the requested one, or the per-game cap is reached. A page failure
// halts pagination but keeps the runs already collected; the returned error
// describes the failed page.
func (c *Client) AllRuns(ctx context.Context, gameID string) ([]RunData, error) {
	var runs []RunData
	offset := 0

	for len(runs) < c.maxRuns {
		reqURL := fmt.Sprintf("%s/runs?game=%s&max=%d&offset=%d&orderby=submitted&direction=desc",
			c.baseURL, url.QueryEscape(gameID), pageSize, offset)

		env, err := c.get(ctx, c.pageLimiter, reqURL)
		if err != nil {
			return runs, fmt.Errorf("fetch runs for game %s at offset %d: %w", gameID, offset, err)
		}

		var page []apiRun
		if err := json.Unmarshal(env.Data, &page); err != nil {
			return runs, fmt.Errorf("parse runs for game %s at offset %d: %w", gameID, offset, err)
		}

		for _, run := range page {
			runs = append(runs, run.toRunData())
		}

		if len(page) != pageSize || env.Pagination.Size != pageSize {
			break
		}
		offset += pageSize
	}

	return runs, nil
}

// LookupUser fetches a user's international display name. An empty result
// means the API returned no name; the caller decides the fallback.
func (c *Client) LookupUser(ctx context.Context, playerID string) (string, error) {
	env, err := c.get(ctx, c.userLimiter, c.baseURL+"/users/"+url.PathEscape(playerID))
	if err != nil {
		return "", fmt.Errorf("lookup user %s: %w", playerID, err)
	}

	var user userData
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return "", fmt.Errorf("parse user %s: %w", playerID, err)
	}

	return user.Names.International, nil
}

// get performs one paced GET and decodes the standard response envelope.
func (c *Client) get(ctx context.Context, limiter *rate.Limiter, reqURL string) (*envelope, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return &env, nil
}
