package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"jobboard/internal/board"
	"jobboard/internal/domain"
	"jobboard/internal/events"
	"jobboard/internal/upstream"
)

type stubFetcher struct {
	resp *upstream.Response
	err  error
}

func (f stubFetcher) FetchJobs(context.Context) (*upstream.Response, error) {
	return f.resp, f.err
}

// gatedStub holds the fetch until gate closes, so tests can subscribe first.
type gatedStub struct {
	gate <-chan struct{}
	resp *upstream.Response
	err  error
}

func (f gatedStub) FetchJobs(ctx context.Context) (*upstream.Response, error) {
	<-f.gate
	return f.resp, f.err
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func waitLoaded(t *testing.T, sess *Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := sess.Page.Wait(ctx); err != nil {
		t.Fatalf("page never finished loading: %v", err)
	}
}

func nextEvent(t *testing.T, ch chan string) events.Event {
	t.Helper()
	select {
	case raw := <-ch:
		var e events.Event
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			t.Fatalf("bad event %q: %v", raw, err)
		}
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("no event published")
	}
	return events.Event{}
}

func TestStartLoadsAndPublishes(t *testing.T) {
	hub := events.NewHub()
	gate := make(chan struct{})
	s := NewStore(Config{
		Fetcher: gatedStub{gate: gate, resp: &upstream.Response{Jobs: []domain.JobRecord{{CompanyName: "Acme"}}}},
		Hub:     hub,
	})

	sess := s.Start("req-1", board.Options{})
	sub := hub.Subscribe(sess.ID)
	stranger := hub.Subscribe("")
	close(gate)
	if sess.ID == "" {
		t.Fatal("session has no id")
	}
	waitLoaded(t, sess)

	if sess.Page.Phase() != board.PhaseReady {
		t.Fatalf("Phase() = %v, want ready", sess.Page.Phase())
	}
	e := nextEvent(t, sub)
	if e.Type != events.TypeJobsLoaded || e.RequestID != "req-1" {
		t.Fatalf("event = %+v", e)
	}
	var d events.SessionData
	_ = json.Unmarshal(e.Data, &d)
	if d.Session != sess.ID || d.Jobs != 1 {
		t.Fatalf("event data = %+v", d)
	}
	if len(stranger) != 0 {
		t.Fatal("session event reached a subscriber of another topic")
	}

	got, ok := s.Get(sess.ID)
	if !ok || got != sess {
		t.Fatalf("Get(%q) = %v, %v", sess.ID, got, ok)
	}
	if _, ok := s.Get("missing"); ok {
		t.Fatal("Get(missing) ok = true")
	}
}

func TestStartFailurePublishesFailed(t *testing.T) {
	hub := events.NewHub()
	gate := make(chan struct{})
	s := NewStore(Config{Fetcher: gatedStub{gate: gate, err: errors.New("boom")}, Hub: hub})

	sess := s.Start("", board.Options{})
	sub := hub.Subscribe(sess.ID)
	close(gate)
	waitLoaded(t, sess)

	if sess.Page.Phase() != board.PhaseFailed {
		t.Fatalf("Phase() = %v, want failed", sess.Page.Phase())
	}
	if e := nextEvent(t, sub); e.Type != events.TypeJobsFailed {
		t.Fatalf("event type = %q, want %q", e.Type, events.TypeJobsFailed)
	}
}

func TestSweepDropsIdleSessions(t *testing.T) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewStore(Config{TTL: 10 * time.Minute, Fetcher: stubFetcher{}, Now: c.Now})

	idle := s.Start("", board.Options{})
	busy := s.Start("", board.Options{})
	waitLoaded(t, idle)
	waitLoaded(t, busy)

	c.Advance(8 * time.Minute)
	s.Get(busy.ID)
	c.Advance(5 * time.Minute)

	if n := s.Sweep(); n != 1 {
		t.Fatalf("Sweep() = %d, want 1", n)
	}
	if _, ok := s.Get(idle.ID); ok {
		t.Fatal("idle session survived the sweep")
	}
	if _, ok := s.Get(busy.ID); !ok {
		t.Fatal("active session was swept")
	}

	s.Remove(busy.ID)
	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", s.Len())
	}
}

func TestSweepFollowsCurrentTTL(t *testing.T) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	var mu sync.Mutex
	ttl := time.Hour
	s := NewStore(Config{
		TTL: time.Hour,
		CurrentTTL: func() time.Duration {
			mu.Lock()
			defer mu.Unlock()
			return ttl
		},
		Fetcher: stubFetcher{},
		Now:     c.Now,
	})

	sess := s.Start("", board.Options{})
	waitLoaded(t, sess)
	c.Advance(20 * time.Minute)

	if n := s.Sweep(); n != 0 {
		t.Fatalf("Sweep() = %d under a 1h ttl, want 0", n)
	}

	mu.Lock()
	ttl = 15 * time.Minute
	mu.Unlock()
	if n := s.Sweep(); n != 1 {
		t.Fatalf("Sweep() = %d after lowering the ttl, want 1", n)
	}
}
