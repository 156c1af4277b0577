package match

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"dogwatch/internal/dtdd"
	"dogwatch/internal/logging"
)

// Searcher defines the subset of DTDD client functionality used by the matcher.
type Searcher interface {
	Search(ctx context.Context, query string) ([]dtdd.SearchItem, error)
	SearchByIMDB(ctx context.Context, imdbID string) ([]dtdd.SearchItem, error)
	Media(ctx context.Context, id int64) (*dtdd.MediaRecord, error)
}

// MediaItem carries the identifying attributes of a local library item.
type MediaItem struct {
	Title  string
	Year   int // 0 when unknown
	IMDBID string
}

// selector picks a candidate from title-search results, or nil to pass.
// Selectors are pure; they are tried in order and the first hit wins.
type selector struct {
	name string
	pick func(item MediaItem, results []dtdd.SearchItem) *dtdd.SearchItem
}

var selectors = []selector{
	{name: "year", pick: pickByYear},
	{name: "movie-type", pick: pickMovieType},
	{name: "first-result", pick: pickFirst},
}

// pickByYear selects the first result whose release year matches the local
// year. String comparison tolerates formatting differences in the remote data.
func pickByYear(item MediaItem, results []dtdd.SearchItem) *dtdd.SearchItem {
	if item.Year == 0 {
		return nil
	}
	year := strconv.Itoa(item.Year)
	for i := range results {
		if results[i].ReleaseYear == year {
			return &results[i]
		}
	}
	return nil
}

func pickMovieType(_ MediaItem, results []dtdd.SearchItem) *dtdd.SearchItem {
	for i := range results {
		if results[i].ItemType.Name == "Movie" {
			return &results[i]
		}
	}
	return nil
}

func pickFirst(_ MediaItem, results []dtdd.SearchItem) *dtdd.SearchItem {
	if len(results) == 0 {
		return nil
	}
	return &results[0]
}

// Matcher resolves local media items to remote DTDD records.
type Matcher struct {
	client Searcher
	logger *slog.Logger
}

// New creates a Matcher backed by the supplied client.
func New(client Searcher, logger *slog.Logger) *Matcher {
	return &Matcher{
		client: client,
		logger: logging.NewComponentLogger(logger, "match"),
	}
}

// Match returns the detail record for the best remote entity, or nil when the
// item cannot be found. The remote service's own result ranking is trusted:
// ties break strictly first-in-result-order.
//
// An IMDB hit whose detail fetch fails is a hard failure, not a fallback to
// title search; degrading silently on transient errors risks wrong matches.
func (m *Matcher) Match(ctx context.Context, item MediaItem) (*dtdd.MediaRecord, error) {
	if m == nil || m.client == nil {
		return nil, errors.New("match: client unavailable")
	}

	if item.IMDBID != "" {
		results, err := m.client.SearchByIMDB(ctx, item.IMDBID)
		if err != nil {
			return nil, err
		}
		if len(results) > 0 {
			m.logger.Debug("matched by imdb id",
				logging.String("title", item.Title),
				logging.String("imdb_id", item.IMDBID),
				logging.Int64("remote_id", results[0].ID))
			return m.client.Media(ctx, results[0].ID)
		}
	}

	results, err := m.client.Search(ctx, item.Title)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	for _, sel := range selectors {
		candidate := sel.pick(item, results)
		if candidate == nil {
			continue
		}
		m.logger.Debug("matched by title search",
			logging.String("title", item.Title),
			logging.String("strategy", sel.name),
			logging.Int64("remote_id", candidate.ID))
		return m.client.Media(ctx, candidate.ID)
	}
	return nil, nil
}
