package plexserver

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

	"dogwatch/internal/logging"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	userAgent          = "Dogwatch/0.1.0"
	clientID           = "dogwatch-cli"
	imdbGUIDPrefix     = "imdb://"
)

// ErrNotFound reports that a request addressed a missing item or section.
var ErrNotFound = errors.New("plexserver: not found")

// Client wraps the Plex media server HTTP API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Plex client for the given server URL and token.
func New(baseURL, token string, logger *slog.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("plexserver: server url is required")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("plexserver: token is required")
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: defaultHTTPTimeout},
		logger:  logging.NewComponentLogger(logger, "plex"),
	}, nil
}

// Section identifies one Plex library section.
type Section struct {
	Key   string
	Title string
}

// Item is the subset of a Plex movie entry this tool reads and writes.
type Item struct {
	RatingKey string
	Title     string
	Year      int
	Summary   string
	IMDBID    string
}

// Label renders "Title (Year)" for logs and console output.
func (i Item) Label() string {
	if i.Year > 0 {
		return fmt.Sprintf("%s (%d)", i.Title, i.Year)
	}
	return i.Title
}

// ServerName fetches the server's friendly name, verifying connectivity.
func (c *Client) ServerName(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "/", nil)
	if err != nil {
		return "", err
	}
	var payload struct {
		MediaContainer struct {
			FriendlyName string `json:"friendlyName"`
		} `json:"MediaContainer"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("plexserver: decode server info: %w", err)
	}
	return payload.MediaContainer.FriendlyName, nil
}

// MovieSections lists the movie libraries to process. When names is non-empty
// only those sections are returned; requested names that are missing or not
// movie libraries are skipped with a warning.
func (c *Client) MovieSections(ctx context.Context, names []string) ([]Section, error) {
	body, err := c.get(ctx, "/library/sections", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		MediaContainer struct {
			Directory []struct {
				Key   string `json:"key"`
				Type  string `json:"type"`
				Title string `json:"title"`
			} `json:"Directory"`
		} `json:"MediaContainer"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("plexserver: decode sections: %w", err)
	}

	movies := make(map[string]Section)
	var ordered []Section
	for _, dir := range payload.MediaContainer.Directory {
		if dir.Type != "movie" {
			continue
		}
		section := Section{Key: dir.Key, Title: dir.Title}
		movies[strings.ToLower(dir.Title)] = section
		ordered = append(ordered, section)
	}

	if len(names) == 0 {
		return ordered, nil
	}

	var selected []Section
	for _, name := range names {
		section, ok := movies[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			c.logger.Warn("configured library is missing or not a movie library; skipping",
				logging.String("library", name))
			continue
		}
		selected = append(selected, section)
	}
	return selected, nil
}

// SectionItems enumerates every movie in a library section.
func (c *Client) SectionItems(ctx context.Context, sectionKey string) ([]Item, error) {
	return c.listItems(ctx, sectionKey, nil)
}

// FindMovies returns the movies in a section whose title matches exactly.
func (c *Client) FindMovies(ctx context.Context, sectionKey, title string) ([]Item, error) {
	items, err := c.listItems(ctx, sectionKey, url.Values{"title": []string{title}})
	if err != nil {
		return nil, err
	}
	// Plex title filtering is a substring match; keep exact titles only.
	exact := items[:0]
	for _, item := range items {
		if strings.EqualFold(item.Title, title) {
			exact = append(exact, item)
		}
	}
	return exact, nil
}

// UpdateSummary writes a new summary for the item and locks the field so
// Plex metadata refreshes do not overwrite it.
func (c *Client) UpdateSummary(ctx context.Context, item Item, summary string) error {
	if item.RatingKey == "" {
		return errors.New("plexserver: item has no rating key")
	}
	params := url.Values{
		"summary.value":  []string{summary},
		"summary.locked": []string{"1"},
	}
	endpoint := fmt.Sprintf("%s/library/metadata/%s?%s", c.baseURL, item.RatingKey, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, nil)
	if err != nil {
		return fmt.Errorf("plexserver: build update request: %w", err)
	}
	c.applyHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("plexserver: update summary: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: item %s", ErrNotFound, item.RatingKey)
	}
	if resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("plexserver: update summary returned %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) listItems(ctx context.Context, sectionKey string, params url.Values) ([]Item, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("type", "1") // movies
	params.Set("includeGuids", "1")

	body, err := c.get(ctx, fmt.Sprintf("/library/sections/%s/all", sectionKey), params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		MediaContainer struct {
			Metadata []struct {
				RatingKey string `json:"ratingKey"`
				Title     string `json:"title"`
				Year      int    `json:"year"`
				Summary   string `json:"summary"`
				Guid      []struct {
					ID string `json:"id"`
				} `json:"Guid"`
			} `json:"Metadata"`
		} `json:"MediaContainer"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("plexserver: decode section items: %w", err)
	}

	items := make([]Item, 0, len(payload.MediaContainer.Metadata))
	for _, meta := range payload.MediaContainer.Metadata {
		item := Item{
			RatingKey: meta.RatingKey,
			Title:     meta.Title,
			Year:      meta.Year,
			Summary:   meta.Summary,
		}
		for _, guid := range meta.Guid {
			if strings.HasPrefix(guid.ID, imdbGUIDPrefix) {
				item.IMDBID = strings.TrimPrefix(guid.ID, imdbGUIDPrefix)
				break
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("plexserver: build request: %w", err)
	}
	c.applyHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("plexserver: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("plexserver: %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("X-Plex-Client-Identifier", clientID)
	req.Header.Set("X-Plex-Product", "Dogwatch")
	req.Header.Set("User-Agent", userAgent)
}
