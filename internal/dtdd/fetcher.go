package dtdd

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"dogwatch/internal/apicache"
	"dogwatch/internal/logging"
)

// fetcher serializes outbound API calls behind a cache-or-fetch step.
//
// The inter-call delay is global across request kinds and only applies to
// cache misses: a hit returns immediately without touching the limiter.
// Failed calls are never written back to the cache.
type fetcher struct {
	cache *apicache.Store
	delay time.Duration
	last  time.Time

	// injectable for tests
	now   func() time.Time
	sleep func(context.Context, time.Duration) error

	logger *slog.Logger
}

func newFetcher(cache *apicache.Store, delay time.Duration, logger *slog.Logger) *fetcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &fetcher{
		cache:  cache,
		delay:  delay,
		now:    time.Now,
		sleep:  sleepWithContext,
		logger: logger,
	}
}

type remoteCall func(ctx context.Context) (json.RawMessage, error)

// fetch returns the cached payload for key, or invokes call after honouring
// the minimum inter-call spacing and stores the result on success.
func (f *fetcher) fetch(ctx context.Context, key string, call remoteCall) (json.RawMessage, error) {
	if f.cache != nil {
		payload, ok, err := f.cache.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			f.logger.Debug("cache hit", logging.String("key", key))
			return payload, nil
		}
	}

	if wait := f.delay - f.now().Sub(f.last); wait > 0 {
		f.logger.Debug("rate limit wait", logging.Duration("wait", wait), logging.String("key", key))
		if err := f.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	payload, err := call(ctx)
	f.last = f.now()
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if err := f.cache.Set(ctx, key, payload); err != nil {
			return nil, err
		}
	}
	return payload, nil
}

// sleepWithContext blocks for the given duration, returning early if the
// context is cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
