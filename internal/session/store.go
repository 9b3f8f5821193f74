// Package session keeps the live board pages, one per visitor page load.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobboard/internal/board"
	"jobboard/internal/events"
)

const CookieName = "jobboard_session"

type Session struct {
	ID      string
	Page    *board.Page
	Created time.Time

	lastSeen time.Time // guarded by Store.mu
}

type Config struct {
	TTL time.Duration
	// CurrentTTL, when set, is read on every sweep so config edits apply
	// without a restart. TTL is the fallback.
	CurrentTTL func() time.Duration
	Fetcher    board.Fetcher
	Hub        *events.Hub
	// BaseContext bounds the fetches started by the store; cancel it on shutdown.
	BaseContext context.Context
	Now         func() time.Time
}

type Store struct {
	cfg Config

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore(cfg Config) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.BaseContext == nil {
		cfg.BaseContext = context.Background()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Store{cfg: cfg, sessions: make(map[string]*Session)}
}

// Start opens a new page and kicks off its fetch in the background.
func (s *Store) Start(reqID string, opts board.Options) *Session {
	now := s.cfg.Now()
	sess := &Session{
		ID:       uuid.NewString(),
		Page:     board.NewPage(opts),
		Created:  now,
		lastSeen: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	go s.load(reqID, sess)
	return sess
}

func (s *Store) load(reqID string, sess *Session) {
	start := time.Now()
	err := sess.Page.Load(s.cfg.BaseContext, s.cfg.Fetcher)
	if err != nil {
		log.Printf("[session] load failed session=%s request_id=%s dur_ms=%d err=%v",
			sess.ID, reqID, time.Since(start).Milliseconds(), err)
		s.publish(reqID, events.TypeJobsFailed, events.SessionData{Session: sess.ID, Error: err.Error()})
		return
	}
	n := len(sess.Page.Jobs())
	log.Printf("[session] loaded session=%s request_id=%s jobs=%d dur_ms=%d",
		sess.ID, reqID, n, time.Since(start).Milliseconds())
	s.publish(reqID, events.TypeJobsLoaded, events.SessionData{Session: sess.ID, Jobs: n})
}

func (s *Store) publish(reqID, typ string, data events.SessionData) {
	if s.cfg.Hub == nil {
		return
	}
	s.cfg.Hub.Publish(data.Session, events.MakeEvent(reqID, typ, data))
}

// Get returns a live session and marks it as seen.
func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if ok {
		sess.lastSeen = s.cfg.Now()
	}
	return sess, ok
}

func (s *Store) Remove(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) ttl() time.Duration {
	if s.cfg.CurrentTTL != nil {
		if d := s.cfg.CurrentTTL(); d > 0 {
			return d
		}
	}
	return s.cfg.TTL
}

// Sweep drops sessions idle for longer than the TTL and returns how many went.
func (s *Store) Sweep() int {
	cutoff := s.cfg.Now().Add(-s.ttl())

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// SweepTask adapts Sweep to scheduler.Task.
func (s *Store) SweepTask(ctx context.Context) error {
	if n := s.Sweep(); n > 0 {
		log.Printf("[session] swept=%d live=%d", n, s.Len())
	}
	return nil
}
