package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dogwatch/internal/dtdd"
	"dogwatch/internal/logging"
	"dogwatch/internal/match"
	"dogwatch/internal/plexserver"
	"dogwatch/internal/warnings"
)

// Library is the media-server surface the pipeline drives.
type Library interface {
	ServerName(ctx context.Context) (string, error)
	MovieSections(ctx context.Context, names []string) ([]plexserver.Section, error)
	SectionItems(ctx context.Context, sectionKey string) ([]plexserver.Item, error)
	FindMovies(ctx context.Context, sectionKey, title string) ([]plexserver.Item, error)
	UpdateSummary(ctx context.Context, item plexserver.Item, summary string) error
}

// RecordMatcher resolves a library item to its remote detail record.
type RecordMatcher interface {
	Match(ctx context.Context, item match.MediaItem) (*dtdd.MediaRecord, error)
}

// Outcome classifies what happened to a single item.
type Outcome string

const (
	OutcomeUpdated    Outcome = "updated"
	OutcomeUnchanged  Outcome = "unchanged"
	OutcomeNoMatch    Outcome = "no-match"
	OutcomeNoWarnings Outcome = "no-warnings"
	OutcomeFailed     Outcome = "failed"
)

// Result records the outcome for one processed item.
type Result struct {
	Item    plexserver.Item
	Library string
	Outcome Outcome
	Err     error
}

// Summary aggregates a full run.
type Summary struct {
	BatchID    string
	Updated    int
	Unchanged  int
	NoMatch    int
	NoWarnings int
	Failed     int
	Results    []Result
	Elapsed    time.Duration
}

// Total returns the number of items processed.
func (s *Summary) Total() int {
	return s.Updated + s.Unchanged + s.NoMatch + s.NoWarnings + s.Failed
}

func (s *Summary) record(result Result) {
	switch result.Outcome {
	case OutcomeUpdated:
		s.Updated++
	case OutcomeUnchanged:
		s.Unchanged++
	case OutcomeNoMatch:
		s.NoMatch++
	case OutcomeNoWarnings:
		s.NoWarnings++
	case OutcomeFailed:
		s.Failed++
	}
	s.Results = append(s.Results, result)
}

// Options controls a single run.
type Options struct {
	Libraries []string // restrict to these library names; empty means all movie libraries
	Movie     string   // restrict to this exact title; empty means every item
	DryRun    bool     // report what would change without writing
}

// Processor walks library items one at a time, annotating or clearing
// content-warning blocks in their summaries. Items are processed strictly
// sequentially so the remote API's pacing is respected.
type Processor struct {
	library    Library
	matcher    RecordMatcher
	thresholds warnings.Thresholds
	separator  string
	logger     *slog.Logger

	now func() time.Time
}

// New creates a Processor.
func New(library Library, matcher RecordMatcher, thresholds warnings.Thresholds, separator string, logger *slog.Logger) *Processor {
	return &Processor{
		library:    library,
		matcher:    matcher,
		thresholds: thresholds,
		separator:  separator,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
		now:        time.Now,
	}
}

// Annotate looks up warnings for each selected item and rewrites its summary.
// A per-item failure is recorded and the run continues with the next item.
func (p *Processor) Annotate(ctx context.Context, opts Options) (*Summary, error) {
	return p.run(ctx, opts, p.annotateItem)
}

// Clear strips the content-warning block from each selected item. No remote
// lookups are performed; items without a block are left untouched.
func (p *Processor) Clear(ctx context.Context, opts Options) (*Summary, error) {
	return p.run(ctx, opts, p.clearItem)
}

func (p *Processor) run(ctx context.Context, opts Options, process func(context.Context, plexserver.Item, bool) Result) (*Summary, error) {
	started := p.now()
	summary := &Summary{BatchID: uuid.NewString()}
	logger := p.logger.With(logging.String("batch_id", summary.BatchID))

	serverName, err := p.library.ServerName(ctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline: media server unreachable: %w", err)
	}
	logger.Info("connected to media server", logging.String("server", serverName))

	sections, err := p.library.MovieSections(ctx, opts.Libraries)
	if err != nil {
		return nil, fmt.Errorf("pipeline: list libraries: %w", err)
	}
	if len(sections) == 0 {
		return nil, errors.New("pipeline: no movie libraries to process")
	}

	for _, section := range sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		items, err := p.sectionItems(ctx, section, opts)
		if err != nil {
			return nil, fmt.Errorf("pipeline: list items in %q: %w", section.Title, err)
		}
		logger.Info("processing library",
			logging.String("library", section.Title),
			logging.Int("items", len(items)))

		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			result := process(ctx, item, opts.DryRun)
			result.Library = section.Title
			p.logResult(logger, result)
			summary.record(result)
		}
	}

	if opts.Movie != "" && summary.Total() == 0 {
		return nil, fmt.Errorf("pipeline: movie %q not found in any library", opts.Movie)
	}

	summary.Elapsed = p.now().Sub(started)
	logger.Info("run complete",
		logging.Int("updated", summary.Updated),
		logging.Int("unchanged", summary.Unchanged),
		logging.Int("no_match", summary.NoMatch),
		logging.Int("no_warnings", summary.NoWarnings),
		logging.Int("failed", summary.Failed),
		logging.Duration("elapsed", summary.Elapsed))
	return summary, nil
}

func (p *Processor) sectionItems(ctx context.Context, section plexserver.Section, opts Options) ([]plexserver.Item, error) {
	if opts.Movie != "" {
		return p.library.FindMovies(ctx, section.Key, opts.Movie)
	}
	return p.library.SectionItems(ctx, section.Key)
}

func (p *Processor) annotateItem(ctx context.Context, item plexserver.Item, dryRun bool) Result {
	result := Result{Item: item}

	record, err := p.matcher.Match(ctx, match.MediaItem{
		Title:  item.Title,
		Year:   item.Year,
		IMDBID: item.IMDBID,
	})
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err
		return result
	}
	if record == nil {
		result.Outcome = OutcomeNoMatch
		return result
	}

	warningText := warnings.Classify(record, p.thresholds)
	if warningText == "" {
		result.Outcome = OutcomeNoWarnings
		return result
	}

	updated := warnings.Apply(item.Summary, warningText, p.separator)
	return p.write(ctx, item, updated, dryRun, result)
}

func (p *Processor) clearItem(ctx context.Context, item plexserver.Item, dryRun bool) Result {
	result := Result{Item: item}
	stripped := warnings.Strip(item.Summary, p.separator)
	return p.write(ctx, item, stripped, dryRun, result)
}

func (p *Processor) write(ctx context.Context, item plexserver.Item, summary string, dryRun bool, result Result) Result {
	if summary == item.Summary {
		result.Outcome = OutcomeUnchanged
		return result
	}
	if dryRun {
		result.Outcome = OutcomeUpdated
		return result
	}
	if err := p.library.UpdateSummary(ctx, item, summary); err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err
		return result
	}
	result.Outcome = OutcomeUpdated
	return result
}

func (p *Processor) logResult(logger *slog.Logger, result Result) {
	attrs := logging.Args(
		logging.String("title", result.Item.Label()),
		logging.String("library", result.Library),
		logging.String("outcome", string(result.Outcome)),
	)
	if result.Err != nil {
		logger.Warn("item failed", append(attrs, logging.Error(result.Err))...)
		return
	}
	logger.Info("item processed", attrs...)
}
