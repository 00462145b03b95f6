package mundial

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sethvargo/go-retry"
)

// FindLeaguePath lists every league group on the site.
const FindLeaguePath = "/find_league"

// Client scrapes the fixtures site. It throttles between page fetches and
// retries transient failures with exponential backoff.
type Client struct {
	baseURL         string
	userAgent       string
	httpClient      *http.Client
	retryAttempts   int
	throttle        time.Duration
	location        *time.Location
	defaultLocation string

	mu          sync.Mutex
	lastRequest time.Time
	venueCache  map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if strings.TrimSpace(agent) != "" {
			c.userAgent = agent
		}
	}
}

// WithRetryAttempts sets the total GET attempts per page.
func WithRetryAttempts(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.retryAttempts = attempts
		}
	}
}

// WithThrottle sets the minimum delay between page fetches.
func WithThrottle(delay time.Duration) Option {
	return func(c *Client) {
		if delay >= 0 {
			c.throttle = delay
		}
	}
}

// WithLocation sets the timezone kickoff times on the site are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithDefaultVenueAddress sets the address used when a venue page cannot be
// fetched or parsed.
func WithDefaultVenueAddress(address string) Option {
	return func(c *Client) {
		c.defaultLocation = address
	}
}

// New creates a fixtures site client rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("base url required")
	}
	client := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		userAgent:     "Mozilla/5.0 (compatible;)",
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		retryAttempts: 3,
		throttle:      500 * time.Millisecond,
		location:      time.UTC,
		venueCache:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Location returns the timezone the site renders kickoff times in.
func (c *Client) Location() *time.Location {
	return c.location
}

// waitThrottle blocks until the inter-request delay has elapsed.
func (c *Client) waitThrottle(ctx context.Context) error {
	c.mu.Lock()
	wait := c.throttle - time.Since(c.lastRequest)
	c.lastRequest = time.Now().Add(wait)
	c.mu.Unlock()
	if wait <= 0 {
		return nil
	}
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	fullURL := path
	if strings.HasPrefix(path, "/") {
		fullURL = c.baseURL + path
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", fullURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, retry.RetryableError(fmt.Errorf("get %s: %w", fullURL, err))
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		err := fmt.Errorf("get %s: status %d", fullURL, resp.StatusCode)
		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			return nil, retry.RetryableError(err)
		}
		return nil, err
	}
	return resp, nil
}

// fetchDocument GETs a page and parses it, retrying transient failures with
// 1s, 2s, 4s backoff.
func (c *Client) fetchDocument(ctx context.Context, path string) (*goquery.Document, error) {
	if err := c.waitThrottle(ctx); err != nil {
		return nil, err
	}

	backoff := retry.WithMaxRetries(uint64(c.retryAttempts-1), retry.NewExponential(time.Second))
	var doc *goquery.Document
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := c.get(ctx, path)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		parsed, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		doc = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// LeagueGroups returns every league group listed on the league finder page.
func (c *Client) LeagueGroups(ctx context.Context) ([]GroupLink, error) {
	doc, err := c.fetchDocument(ctx, FindLeaguePath)
	if err != nil {
		return nil, err
	}
	groups := parseLeagueGroups(doc)
	if len(groups) == 0 {
		return nil, fmt.Errorf("no league groups found on %s", FindLeaguePath)
	}
	return groups, nil
}

// GroupLeagues returns the leagues listed on a group page.
func (c *Client) GroupLeagues(ctx context.Context, groupURL string) ([]LeagueLink, error) {
	doc, err := c.fetchDocument(ctx, groupURL)
	if err != nil {
		return nil, err
	}
	return parseGroupLeagues(doc), nil
}

// LeagueFixtures returns every fixture (upcoming and played) on a league
// page together with the page's venue. The venue address comes from a
// follow-up fetch of the venue page, cached per URL.
func (c *Client) LeagueFixtures(ctx context.Context, leagueURL string) ([]Fixture, Venue, error) {
	doc, err := c.fetchDocument(ctx, leagueURL)
	if err != nil {
		return nil, Venue{}, err
	}
	fixtures := parseLeagueFixtures(doc, c.location)

	venue := parseVenueLink(doc)
	if venue.URL == "" {
		venue.Address = c.defaultLocation
	} else {
		venue.Address = c.VenueAddress(ctx, venue.URL)
	}
	return fixtures, venue, nil
}

// VenueAddress fetches the address shown on a venue page, memoizing per URL
// and falling back to the configured default when the page is unusable.
func (c *Client) VenueAddress(ctx context.Context, venueURL string) string {
	if venueURL == "" {
		return c.defaultLocation
	}
	c.mu.Lock()
	if cached, ok := c.venueCache[venueURL]; ok {
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	address := c.defaultLocation
	if doc, err := c.fetchDocument(ctx, venueURL); err == nil {
		if parsed := parseVenueAddress(doc); parsed != "" {
			address = parsed
		}
	}

	c.mu.Lock()
	c.venueCache[venueURL] = address
	c.mu.Unlock()
	return address
}

// TeamFixtures returns the upcoming fixtures listed on a team page, reduced
// to kickoff and opponent for teamName. Rows not involving teamName are
// skipped.
func (c *Client) TeamFixtures(ctx context.Context, teamPage, teamName string) ([]TeamFixture, error) {
	doc, err := c.fetchDocument(ctx, teamPage)
	if err != nil {
		return nil, err
	}
	fixtures, err := parseTeamFixtures(doc, teamName, c.location)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", teamPage, err)
	}
	return fixtures, nil
}
