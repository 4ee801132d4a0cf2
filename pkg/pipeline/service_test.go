package pipeline

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dtnitsch/wiki-wordcloud/models"
	"github.com/dtnitsch/wiki-wordcloud/pkg/analytics"
	"github.com/dtnitsch/wiki-wordcloud/pkg/caching"
)

type fakeRunner struct {
	freq  models.FrequencyTable
	err   error
	calls atomic.Int32
	// started and release let a test hold a run open.
	started chan struct{}
	release chan struct{}
	// store, when set, receives successful tables like the real pipeline.
	store *caching.Cache
}

func (r *fakeRunner) Run(ctx context.Context, category string) (models.FrequencyTable, *models.RunReport, error) {
	r.calls.Add(1)
	if r.started != nil {
		r.started <- struct{}{}
	}
	if r.release != nil {
		<-r.release
	}
	if r.err != nil {
		return nil, &models.RunReport{Category: category}, r.err
	}
	if r.store != nil {
		if err := r.store.Store(category, r.freq); err != nil {
			return nil, nil, err
		}
	}
	return r.freq, &models.RunReport{Category: category, Members: 1, Counted: 1}, nil
}

// clockCache builds a cache whose clock the test can move.
func clockCache(t *testing.T, now *time.Time) *caching.Cache {
	t.Helper()
	c, err := caching.NewCache(t.TempDir(), 7*24*time.Hour, caching.WithClock(func() time.Time { return *now }))
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	return c
}

func TestResolve_FreshCacheSkipsRun(t *testing.T) {
	now := time.Now()
	cache := clockCache(t, &now)
	want := models.FrequencyTable{"cat": 3}
	if err := cache.Store("Foo", want); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	runner := &fakeRunner{freq: models.FrequencyTable{"dog": 1}}
	svc := NewService(cache, runner, quietLogger())

	got, err := svc.Resolve(context.Background(), "Foo", ResolveOptions{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Origin != OriginCache {
		t.Errorf("Origin = %q, want %q", got.Origin, OriginCache)
	}
	if !reflect.DeepEqual(got.Frequencies, want) {
		t.Errorf("Frequencies = %v, want %v", got.Frequencies, want)
	}
	if runner.calls.Load() != 0 {
		t.Errorf("runner called %d times, want 0", runner.calls.Load())
	}
}

func TestResolve_RefreshBypassesCache(t *testing.T) {
	now := time.Now()
	cache := clockCache(t, &now)
	if err := cache.Store("Foo", models.FrequencyTable{"cat": 3}); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	runner := &fakeRunner{freq: models.FrequencyTable{"dog": 1}}
	got, err := NewService(cache, runner, quietLogger()).Resolve(context.Background(), "Foo", ResolveOptions{Refresh: true})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Origin != OriginFresh || runner.calls.Load() != 1 {
		t.Errorf("Origin = %q with %d runs, want fresh with 1 run", got.Origin, runner.calls.Load())
	}
	if got.Report == nil {
		t.Error("fresh result should carry a run report")
	}
}

func TestResolve_StaleFallback(t *testing.T) {
	now := time.Now()
	cache := clockCache(t, &now)
	stale := models.FrequencyTable{"cat": 3}
	if err := cache.Store("Foo", stale); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	now = now.Add(8 * 24 * time.Hour)

	runner := &fakeRunner{err: ErrUpstreamUnavailable}
	got, err := NewService(cache, runner, quietLogger()).Resolve(context.Background(), "Foo", ResolveOptions{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Origin != OriginStale {
		t.Errorf("Origin = %q, want %q", got.Origin, OriginStale)
	}
	if !reflect.DeepEqual(got.Frequencies, stale) {
		t.Errorf("Frequencies = %v, want %v", got.Frequencies, stale)
	}
	if !errors.Is(got.RunErr, ErrUpstreamUnavailable) {
		t.Errorf("RunErr = %v, want %v", got.RunErr, ErrUpstreamUnavailable)
	}
	if got.Timestamp.IsZero() {
		t.Error("stale result should carry the record timestamp")
	}
	if runner.calls.Load() != 1 {
		t.Errorf("runner called %d times, want 1", runner.calls.Load())
	}
}

func TestResolve_NoFallbackAvailable(t *testing.T) {
	now := time.Now()
	runner := &fakeRunner{err: ErrEmptyCategory}

	_, err := NewService(clockCache(t, &now), runner, quietLogger()).Resolve(context.Background(), "Foo", ResolveOptions{})
	if !errors.Is(err, ErrEmptyCategory) {
		t.Fatalf("Resolve() error = %v, want %v", err, ErrEmptyCategory)
	}
}

func TestResolve_EndToEndWritesCache(t *testing.T) {
	now := time.Now()
	cache := clockCache(t, &now)
	src := &fakeSource{
		members: []string{"A", "B"},
		pages:   map[string]string{"A": "the cat sat", "B": "cat cat dog"},
	}
	p := New(src, analytics.New(analytics.DefaultStopwords()), cache, WithLogger(quietLogger()))
	svc := NewService(cache, p, quietLogger())

	first, err := svc.Resolve(context.Background(), "Foo", ResolveOptions{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	second, err := svc.Resolve(context.Background(), "Foo", ResolveOptions{})
	if err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}

	if first.Origin != OriginFresh || second.Origin != OriginCache {
		t.Errorf("origins = %q, %q; want fresh, cache", first.Origin, second.Origin)
	}
	if !reflect.DeepEqual(first.Frequencies, second.Frequencies) {
		t.Errorf("cached table %v differs from fresh %v", second.Frequencies, first.Frequencies)
	}
	if src.listCalls.Load() != 1 {
		t.Errorf("upstream listed %d times, want 1", src.listCalls.Load())
	}
}

// resolveConcurrently resolves each category in its own goroutine while the
// runner is held open, and returns the results in input order.
func resolveConcurrently(t *testing.T, svc *Service, runner *fakeRunner, categories []string) []*Result {
	t.Helper()
	var wg sync.WaitGroup
	results := make([]*Result, len(categories))
	for i, category := range categories {
		wg.Add(1)
		go func(i int, category string) {
			defer wg.Done()
			res, err := svc.Resolve(context.Background(), category, ResolveOptions{})
			if err != nil {
				t.Errorf("Resolve(%q) error = %v", category, err)
				return
			}
			results[i] = res
		}(i, category)
	}

	<-runner.started
	close(runner.release)
	wg.Wait()
	return results
}

func newHeldRunner(cache *caching.Cache) *fakeRunner {
	return &fakeRunner{
		freq:    models.FrequencyTable{"cat": 1},
		started: make(chan struct{}, 8),
		release: make(chan struct{}),
		store:   cache,
	}
}

func TestResolve_SharesInFlightRun(t *testing.T) {
	now := time.Now()
	cache := clockCache(t, &now)
	runner := newHeldRunner(cache)
	svc := NewService(cache, runner, quietLogger())

	results := resolveConcurrently(t, svc, runner, []string{"Foo", "Foo", "Foo", "Foo"})

	if runner.calls.Load() != 1 {
		t.Errorf("runner called %d times, want 1", runner.calls.Load())
	}
	for i, res := range results {
		if res == nil || res.Frequencies["cat"] != 1 {
			t.Errorf("caller %d got %+v", i, res)
		}
	}
}

func TestResolve_SharesRunAcrossEquivalentNames(t *testing.T) {
	now := time.Now()
	cache := clockCache(t, &now)
	runner := newHeldRunner(cache)
	svc := NewService(cache, runner, quietLogger())

	results := resolveConcurrently(t, svc, runner, []string{"Space probes", "Space-probes", "Space_probes"})

	if runner.calls.Load() != 1 {
		t.Errorf("runner called %d times for one cache key, want 1", runner.calls.Load())
	}
	for i, res := range results {
		if res == nil || res.Frequencies["cat"] != 1 {
			t.Errorf("caller %d got %+v", i, res)
		}
	}
}

func TestResolve_RefreshSkipsRecheck(t *testing.T) {
	now := time.Now()
	cache := clockCache(t, &now)
	if err := cache.Store("Foo", models.FrequencyTable{"old": 1}); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	runner := &fakeRunner{freq: models.FrequencyTable{"new": 1}, store: cache}
	svc := NewService(cache, runner, quietLogger())

	got, err := svc.Resolve(context.Background(), "Foo", ResolveOptions{Refresh: true})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Origin != OriginFresh || got.Frequencies["new"] != 1 {
		t.Errorf("Resolve() = %+v, want fresh run result", got)
	}
	if stored, ok := cache.Lookup("Foo"); !ok || stored["new"] != 1 {
		t.Errorf("cache = %v, want refreshed table", stored)
	}
}
