package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"dogwatch/internal/dtdd"
	"dogwatch/internal/match"
	"dogwatch/internal/plexserver"
	"dogwatch/internal/warnings"
)

const testSeparator = "\n\n———— Content Warnings (via DoesTheDogDie.com) ————"

var testThresholds = warnings.Thresholds{MinYesVotes: 3, MinYesRatio: 0.6}

type fakeLibrary struct {
	sections []plexserver.Section
	items    map[string][]plexserver.Item

	updates    map[string]string
	updateErr  error
	listErr    error
	sectionErr error
	serverErr  error
}

func (f *fakeLibrary) ServerName(context.Context) (string, error) {
	if f.serverErr != nil {
		return "", f.serverErr
	}
	return "testplex", nil
}

func (f *fakeLibrary) MovieSections(_ context.Context, names []string) ([]plexserver.Section, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sections, nil
}

func (f *fakeLibrary) SectionItems(_ context.Context, key string) ([]plexserver.Item, error) {
	if f.sectionErr != nil {
		return nil, f.sectionErr
	}
	return f.items[key], nil
}

func (f *fakeLibrary) FindMovies(_ context.Context, key, title string) ([]plexserver.Item, error) {
	var found []plexserver.Item
	for _, item := range f.items[key] {
		if strings.EqualFold(item.Title, title) {
			found = append(found, item)
		}
	}
	return found, nil
}

func (f *fakeLibrary) UpdateSummary(_ context.Context, item plexserver.Item, summary string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updates == nil {
		f.updates = make(map[string]string)
	}
	f.updates[item.RatingKey] = summary
	return nil
}

type fakeMatcher struct {
	records map[string]*dtdd.MediaRecord
	errs    map[string]error
}

func (f *fakeMatcher) Match(_ context.Context, item match.MediaItem) (*dtdd.MediaRecord, error) {
	if err := f.errs[item.Title]; err != nil {
		return nil, err
	}
	return f.records[item.Title], nil
}

func warningRecord() *dtdd.MediaRecord {
	return &dtdd.MediaRecord{TopicItemStats: []dtdd.TopicStat{{
		Topic:  dtdd.Topic{Name: "a dog dies"},
		YesSum: 10,
		NoSum:  2,
	}}}
}

func safeRecord() *dtdd.MediaRecord {
	return &dtdd.MediaRecord{TopicItemStats: []dtdd.TopicStat{{
		Topic:  dtdd.Topic{Name: "a dog dies", NotName: "no dogs die"},
		YesSum: 0,
		NoSum:  12,
	}}}
}

func newProcessor(lib *fakeLibrary, m *fakeMatcher) *Processor {
	return New(lib, m, testThresholds, testSeparator, nil)
}

func singleMovieLibrary(summary string) *fakeLibrary {
	return &fakeLibrary{
		sections: []plexserver.Section{{Key: "1", Title: "Movies"}},
		items: map[string][]plexserver.Item{
			"1": {{RatingKey: "101", Title: "Midsommar", Year: 2019, Summary: summary}},
		},
	}
}

func TestAnnotateWritesWarningBlock(t *testing.T) {
	lib := singleMovieLibrary("A trip to Sweden.")
	matcher := &fakeMatcher{records: map[string]*dtdd.MediaRecord{"Midsommar": warningRecord()}}

	summary, err := newProcessor(lib, matcher).Annotate(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	if summary.Updated != 1 || summary.Total() != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}

	written := lib.updates["101"]
	if !strings.HasPrefix(written, "A trip to Sweden.") {
		t.Fatalf("original summary lost: %q", written)
	}
	if !strings.Contains(written, testSeparator) {
		t.Fatalf("separator missing: %q", written)
	}
	if !strings.Contains(written, "a dog dies") {
		t.Fatalf("warning topic missing: %q", written)
	}
}

func TestAnnotateIsIdempotent(t *testing.T) {
	lib := singleMovieLibrary("A trip to Sweden.")
	matcher := &fakeMatcher{records: map[string]*dtdd.MediaRecord{"Midsommar": warningRecord()}}
	proc := newProcessor(lib, matcher)

	if _, err := proc.Annotate(context.Background(), Options{}); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	first := lib.updates["101"]

	// Second run over the already annotated summary changes nothing.
	lib.items["1"][0].Summary = first
	lib.updates = nil
	summary, err := proc.Annotate(context.Background(), Options{})
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if summary.Unchanged != 1 {
		t.Fatalf("expected unchanged outcome, got %+v", summary)
	}
	if len(lib.updates) != 0 {
		t.Fatalf("expected no write on identical summary, got %v", lib.updates)
	}
}

func TestAnnotateDryRunDoesNotWrite(t *testing.T) {
	lib := singleMovieLibrary("A trip to Sweden.")
	matcher := &fakeMatcher{records: map[string]*dtdd.MediaRecord{"Midsommar": warningRecord()}}

	summary, err := newProcessor(lib, matcher).Annotate(context.Background(), Options{DryRun: true})
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	if summary.Updated != 1 {
		t.Fatalf("dry run should still count updates: %+v", summary)
	}
	if len(lib.updates) != 0 {
		t.Fatalf("dry run must not write, got %v", lib.updates)
	}
}

func TestAnnotateOutcomes(t *testing.T) {
	lib := &fakeLibrary{
		sections: []plexserver.Section{{Key: "1", Title: "Movies"}},
		items: map[string][]plexserver.Item{
			"1": {
				{RatingKey: "1", Title: "Unknown Movie", Summary: "?"},
				{RatingKey: "2", Title: "Wholesome Film", Summary: "Nice."},
				{RatingKey: "3", Title: "Broken Lookup", Summary: "!"},
				{RatingKey: "4", Title: "Midsommar", Summary: "A trip."},
			},
		},
	}
	matcher := &fakeMatcher{
		records: map[string]*dtdd.MediaRecord{
			"Wholesome Film": safeRecord(),
			"Midsommar":      warningRecord(),
		},
		errs: map[string]error{"Broken Lookup": errors.New("api down")},
	}

	summary, err := newProcessor(lib, matcher).Annotate(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	if summary.NoMatch != 1 || summary.NoWarnings != 1 || summary.Failed != 1 || summary.Updated != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	// A failed item must not stop later items from being processed.
	if _, ok := lib.updates["4"]; !ok {
		t.Fatalf("item after failure was not processed: %v", lib.updates)
	}
}

func TestAnnotateSingleMovie(t *testing.T) {
	lib := &fakeLibrary{
		sections: []plexserver.Section{{Key: "1", Title: "Movies"}},
		items: map[string][]plexserver.Item{
			"1": {
				{RatingKey: "1", Title: "Midsommar", Summary: "A trip."},
				{RatingKey: "2", Title: "Hereditary", Summary: "A family."},
			},
		},
	}
	matcher := &fakeMatcher{records: map[string]*dtdd.MediaRecord{"Midsommar": warningRecord()}}

	summary, err := newProcessor(lib, matcher).Annotate(context.Background(), Options{Movie: "Midsommar"})
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	if summary.Total() != 1 || summary.Updated != 1 {
		t.Fatalf("expected exactly the named movie processed: %+v", summary)
	}
}

func TestAnnotateSingleMovieNotFound(t *testing.T) {
	lib := singleMovieLibrary("A trip.")
	matcher := &fakeMatcher{}

	_, err := newProcessor(lib, matcher).Annotate(context.Background(), Options{Movie: "Nope"})
	if err == nil {
		t.Fatal("expected error for missing movie")
	}
}

func TestAnnotateAbortsWhenServerUnreachable(t *testing.T) {
	lib := &fakeLibrary{serverErr: errors.New("connection refused")}

	_, err := newProcessor(lib, &fakeMatcher{}).Annotate(context.Background(), Options{})
	if err == nil {
		t.Fatal("expected unreachable server to abort the run before processing")
	}
}

func TestAnnotateAbortsWhenLibrariesUnavailable(t *testing.T) {
	lib := &fakeLibrary{listErr: errors.New("connection refused")}

	_, err := newProcessor(lib, &fakeMatcher{}).Annotate(context.Background(), Options{})
	if err == nil {
		t.Fatal("expected setup failure to abort the run")
	}
}

func TestClearStripsAnnotatedSummaries(t *testing.T) {
	annotated := "A trip." + testSeparator + "\n⚠️  a dog dies"
	lib := &fakeLibrary{
		sections: []plexserver.Section{{Key: "1", Title: "Movies"}},
		items: map[string][]plexserver.Item{
			"1": {
				{RatingKey: "1", Title: "Midsommar", Summary: annotated},
				{RatingKey: "2", Title: "Hereditary", Summary: "Never annotated."},
			},
		},
	}

	summary, err := newProcessor(lib, &fakeMatcher{}).Clear(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if summary.Updated != 1 || summary.Unchanged != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if got := lib.updates["1"]; got != "A trip." {
		t.Fatalf("expected stripped summary, got %q", got)
	}
	if _, ok := lib.updates["2"]; ok {
		t.Fatal("unannotated item must not be rewritten")
	}
}

func TestClearDoesNotCallMatcher(t *testing.T) {
	lib := singleMovieLibrary("A trip." + testSeparator + "\n⚠️  a dog dies")

	// A nil matcher map returns no records, but the stronger guarantee is
	// that Clear never consults the matcher at all.
	var calls int
	matcher := matcherFunc(func(context.Context, match.MediaItem) (*dtdd.MediaRecord, error) {
		calls++
		return nil, nil
	})

	if _, err := New(lib, matcher, testThresholds, testSeparator, nil).Clear(context.Background(), Options{}); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if calls != 0 {
		t.Fatalf("Clear performed %d remote lookups", calls)
	}
}

type matcherFunc func(context.Context, match.MediaItem) (*dtdd.MediaRecord, error)

func (f matcherFunc) Match(ctx context.Context, item match.MediaItem) (*dtdd.MediaRecord, error) {
	return f(ctx, item)
}

func TestAcquireLockRejectsSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dogwatch.lock")

	release, err := AcquireLock(path)
	if err != nil {
		t.Fatalf("first AcquireLock failed: %v", err)
	}

	if _, err := AcquireLock(path); err == nil {
		t.Fatal("second AcquireLock should fail while lock is held")
	}

	release()
	release2, err := AcquireLock(path)
	if err != nil {
		t.Fatalf("AcquireLock after release failed: %v", err)
	}
	release2()
}
