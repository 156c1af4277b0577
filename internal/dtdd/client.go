package dtdd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dogwatch/internal/apicache"
	"dogwatch/internal/logging"
)

const (
	defaultBaseURL     = "https://www.doesthedogdie.com"
	defaultHTTPTimeout = 30 * time.Second
)

// Config describes the DoesTheDogDie client configuration.
type Config struct {
	APIKey     string
	BaseURL    string
	APIDelay   time.Duration
	Cache      *apicache.Store
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client wraps the DoesTheDogDie REST API with caching and rate limiting.
type Client struct {
	apiKey  string
	baseURL *url.URL
	http    *http.Client
	fetcher *fetcher
	logger  *slog.Logger
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("dtdd: api key is required")
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("dtdd: parse base url: %w", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	logger := logging.NewComponentLogger(cfg.Logger, "dtdd")
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    client,
		fetcher: newFetcher(cfg.Cache, cfg.APIDelay, logger),
		logger:  logger,
	}, nil
}

// ItemType names the remote media category of a search result.
type ItemType struct {
	Name string `json:"name"`
}

// SearchItem represents a single DoesTheDogDie search match.
type SearchItem struct {
	ID          int64    `json:"id"`
	Title       string   `json:"name"`
	ReleaseYear string   `json:"releaseYear"`
	ItemType    ItemType `json:"itemType"`
}

// Topic is a named triggering theme tracked by the service.
type Topic struct {
	Name    string `json:"name"`
	NotName string `json:"notName"`
}

// TopicStat carries the aggregated crowd votes for one topic on one media item.
type TopicStat struct {
	Topic  Topic `json:"topic"`
	YesSum int   `json:"yesSum"`
	NoSum  int   `json:"noSum"`
}

// MediaRecord is the full detail record for a media item.
type MediaRecord struct {
	TopicItemStats []TopicStat `json:"topicItemStats"`
}

// Search queries the service by free-text title.
func (c *Client) Search(ctx context.Context, query string) ([]SearchItem, error) {
	if c == nil {
		return nil, errors.New("dtdd: client is nil")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("dtdd: query must not be empty")
	}

	payload, err := c.fetcher.fetch(ctx, searchKey(query), func(ctx context.Context) (json.RawMessage, error) {
		return c.searchItems(ctx, url.Values{"q": []string{query}})
	})
	if err != nil {
		return nil, err
	}
	return decodeItems(payload)
}

// SearchByIMDB queries the service by IMDB identifier (e.g. "tt1234567").
func (c *Client) SearchByIMDB(ctx context.Context, imdbID string) ([]SearchItem, error) {
	if c == nil {
		return nil, errors.New("dtdd: client is nil")
	}
	imdbID = strings.TrimSpace(imdbID)
	if imdbID == "" {
		return nil, errors.New("dtdd: imdb id must not be empty")
	}

	payload, err := c.fetcher.fetch(ctx, imdbKey(imdbID), func(ctx context.Context) (json.RawMessage, error) {
		return c.searchItems(ctx, url.Values{"imdb": []string{imdbID}})
	})
	if err != nil {
		return nil, err
	}
	return decodeItems(payload)
}

// Media fetches the full trigger/warning record for a media item.
func (c *Client) Media(ctx context.Context, id int64) (*MediaRecord, error) {
	if c == nil {
		return nil, errors.New("dtdd: client is nil")
	}
	if id <= 0 {
		return nil, errors.New("dtdd: invalid media id")
	}

	payload, err := c.fetcher.fetch(ctx, mediaKey(id), func(ctx context.Context) (json.RawMessage, error) {
		endpoint := c.baseURL.JoinPath("media", fmt.Sprintf("%d", id))
		return c.get(ctx, endpoint)
	})
	if err != nil {
		return nil, err
	}

	var record MediaRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("dtdd: decode media record: %w", err)
	}
	return &record, nil
}

// searchItems performs a /dddsearch request and returns the items array.
func (c *Client) searchItems(ctx context.Context, params url.Values) (json.RawMessage, error) {
	endpoint := c.baseURL.JoinPath("dddsearch")
	endpoint.RawQuery = params.Encode()

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("dtdd: decode search response: %w", err)
	}
	if len(payload.Items) == 0 {
		return json.RawMessage("[]"), nil
	}
	return payload.Items, nil
}

func (c *Client) get(ctx context.Context, endpoint *url.URL) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dtdd: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dtdd: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("dtdd: request failed (%s): %s", resp.Status, strings.TrimSpace(string(excerpt)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("dtdd: read response: %w", err)
	}
	return json.RawMessage(body), nil
}

func decodeItems(payload json.RawMessage) ([]SearchItem, error) {
	var items []SearchItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("dtdd: decode search items: %w", err)
	}
	return items, nil
}
