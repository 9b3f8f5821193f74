// Package board holds the state of one job board page: the fetched job list,
// the recency toggle and the company search term, plus the views derived
// from them.
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"jobboard/internal/domain"
	"jobboard/internal/upstream"
)

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// FilterMode decides how the recency toggle and the search term combine.
type FilterMode string

const (
	// FilterExclusive shows either the recent jobs or the search matches, never both.
	FilterExclusive FilterMode = "exclusive"
	// FilterConjunctive applies the search term, and the recency window when toggled on.
	FilterConjunctive FilterMode = "conjunctive"
)

func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterExclusive:
		return FilterExclusive, nil
	case FilterConjunctive:
		return FilterConjunctive, nil
	}
	return "", fmt.Errorf("unknown filter mode %q", s)
}

type Options struct {
	RecentDays int
	Mode       FilterMode
}

// Fetcher performs the one job search a page makes.
type Fetcher interface {
	FetchJobs(ctx context.Context) (*upstream.Response, error)
}

var ErrAlreadyLoaded = errors.New("page already loaded")

type Page struct {
	opts Options

	mu         sync.Mutex
	phase      Phase
	jobs       []domain.JobRecord
	showRecent bool
	searchTerm string
	err        error
	started    bool

	done chan struct{}
}

func NewPage(opts Options) *Page {
	if opts.RecentDays <= 0 {
		opts.RecentDays = DefaultRecentDays
	}
	if opts.Mode == "" {
		opts.Mode = FilterExclusive
	}
	return &Page{
		opts: opts,
		jobs: []domain.JobRecord{},
		done: make(chan struct{}),
	}
}

// Load runs the page's single fetch. On success the job list is replaced
// wholesale by the response's jobs; on failure the page moves to PhaseFailed.
func (p *Page) Load(ctx context.Context, f Fetcher) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return ErrAlreadyLoaded
	}
	p.started = true
	p.mu.Unlock()

	defer close(p.done)

	data, err := f.FetchJobs(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.phase = PhaseFailed
		p.err = err
		return err
	}
	if data != nil {
		p.jobs = data.Jobs
	}
	p.phase = PhaseReady
	return nil
}

// Done is closed once Load has finished, successfully or not.
func (p *Page) Done() <-chan struct{} { return p.done }

func (p *Page) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Page) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

func (p *Page) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Jobs returns the loaded list.
func (p *Page) Jobs() []domain.JobRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.JobRecord(nil), p.jobs...)
}

func (p *Page) ShowRecent() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.showRecent
}

func (p *Page) SearchTerm() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.searchTerm
}

// ToggleRecent flips the recency toggle and returns the new value.
func (p *Page) ToggleRecent() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.showRecent = !p.showRecent
	return p.showRecent
}

// Search stores text as the search term, untrimmed.
func (p *Page) Search(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.searchTerm = text
}

// View is what a render of the page shows.
type View struct {
	Phase       Phase              `json:"phase"`
	SearchTerm  string             `json:"searchTerm"`
	ShowRecent  bool               `json:"showRecentJobs"`
	ToggleLabel string             `json:"toggleLabel"`
	Jobs        []domain.JobRecord `json:"jobs"`
	Error       string             `json:"error,omitempty"`
}

func (p *Page) View(now time.Time) View {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := View{
		Phase:       p.phase,
		SearchTerm:  p.searchTerm,
		ShowRecent:  p.showRecent,
		ToggleLabel: p.toggleLabel(),
		Jobs:        []domain.JobRecord{},
	}
	switch p.phase {
	case PhaseReady:
		v.Jobs = p.visible(now)
	case PhaseFailed:
		v.Error = p.err.Error()
	}
	return v
}

func (p *Page) toggleLabel() string {
	if p.showRecent {
		return "Show all jobs"
	}
	return fmt.Sprintf("Published last %d days", p.opts.RecentDays)
}

// caller holds p.mu
func (p *Page) visible(now time.Time) []domain.JobRecord {
	switch p.opts.Mode {
	case FilterConjunctive:
		out := FilterByCompany(p.jobs, p.searchTerm)
		if p.showRecent {
			out = RecentJobs(out, now, p.opts.RecentDays)
		}
		return out
	default:
		if p.showRecent {
			return RecentJobs(p.jobs, now, p.opts.RecentDays)
		}
		return FilterByCompany(p.jobs, p.searchTerm)
	}
}
