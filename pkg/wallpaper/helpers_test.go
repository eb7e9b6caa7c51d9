package wallpaper

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/dixieflatline76/jukebox/pkg/exclusion"
	"github.com/dixieflatline76/jukebox/pkg/provider"
	"github.com/dixieflatline76/jukebox/pkg/settings"
	"github.com/dixieflatline76/jukebox/pkg/weather"
	"github.com/prometheus/client_golang/prometheus"
)

type searchCall struct {
	Query string
	Page  int
}

// fakeProvider answers searches from a function and records every call.
type fakeProvider struct {
	id      provider.ID
	respond func(query string, page int) ([]provider.Image, error)

	mu    sync.Mutex
	calls []searchCall
}

func (f *fakeProvider) ID() provider.ID { return f.id }
func (f *fakeProvider) Name() string    { return string(f.id) }

func (f *fakeProvider) Search(ctx context.Context, query string, page int) ([]provider.Image, error) {
	f.mu.Lock()
	f.calls = append(f.calls, searchCall{Query: query, Page: page})
	f.mu.Unlock()
	return f.respond(query, page)
}

func (f *fakeProvider) Calls() []searchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]searchCall(nil), f.calls...)
}

func images(prefix string, from, to int) []provider.Image {
	var out []provider.Image
	for i := from; i <= to; i++ {
		id := fmt.Sprintf("%s%d", prefix, i)
		out = append(out, provider.Image{ID: id, URL: "https://img.test/" + id})
	}
	return out
}

// pagedProvider returns perPage images per page, ids prefixed with the provider id.
func pagedProvider(id provider.ID, perPage int) *fakeProvider {
	return &fakeProvider{id: id, respond: func(query string, page int) ([]provider.Image, error) {
		start := (page-1)*perPage + 1
		return images(string(id)+"-", start, start+perPage-1), nil
	}}
}

// blockingPreloader never finishes until the session is closed, which keeps
// Next pinned and the queue deterministic.
var blockingPreloader = PreloaderFunc(func(ctx context.Context, img provider.Image) error {
	<-ctx.Done()
	return ctx.Err()
})

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) record(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) ofType(t string) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Event
	for _, ev := range l.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

type testSession struct {
	*Session
	store   *exclusion.MemoryStore
	events  *eventLog
	metrics *Metrics
}

func customSettings(query string) settings.Settings {
	s := settings.Default()
	s.Theme = provider.ThemeCustom
	s.CustomQuery = query
	s.RotationInterval = 0
	return s
}

func newTestSession(t *testing.T, s settings.Settings, preloader Preloader, providers ...provider.ImageProvider) *testSession {
	t.Helper()
	return newTestSessionWithStore(t, s, exclusion.NewMemoryStore(), preloader, providers...)
}

func newTestSessionWithStore(t *testing.T, s settings.Settings, store *exclusion.MemoryStore, preloader Preloader, providers ...provider.ImageProvider) *testSession {
	t.Helper()
	metrics := NewMetrics(prometheus.NewRegistry())
	sess := NewSession(context.Background(), "test", s, Options{
		Providers:  providers,
		Resolver:   Resolver{Mapper: weather.NewThemeMapper()},
		Exclusions: store,
		Preloader:  preloader,
		Metrics:    metrics,
		Rand:       rand.New(rand.NewSource(1)),
	})
	events := &eventLog{}
	sess.SetListener(events.record)
	t.Cleanup(sess.Close)
	return &testSession{Session: sess, store: store, events: events, metrics: metrics}
}

// snapshot copies the parts of the state the tests inspect.
func (s *Session) snapshot() RotationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := *s.state
	st.Queue = append([]provider.Image(nil), s.state.Queue...)
	st.ProviderPage = make(map[provider.ID]int)
	for k, v := range s.state.ProviderPage {
		st.ProviderPage[k] = v
	}
	st.SeenIDs = copySet(s.state.SeenIDs)
	st.ExcludedIDs = copySet(s.state.ExcludedIDs)
	st.TriedVariations = copySet(s.state.TriedVariations)
	st.UsedFallbacks = copySet(s.state.UsedFallbacks)
	return st
}

func copySet(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}

func queueIDs(q []provider.Image) []string {
	ids := make([]string, 0, len(q))
	for _, img := range q {
		ids = append(ids, img.ID)
	}
	return ids
}
