package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"jobboard/internal/board"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return fmt.Errorf("config validation failed:\n- %s", strings.Join(v.Errors, "\n- "))
}

// NormalizeAndValidate returns a normalized copy of cfg and what is wrong with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	out.App.Addr = strings.TrimSpace(out.App.Addr)
	out.Upstream.Endpoint = strings.TrimSpace(out.Upstream.Endpoint)
	out.Board.FilterMode = strings.ToLower(strings.TrimSpace(out.Board.FilterMode))

	// app
	if out.App.Addr == "" {
		res.addErr("app.addr is required")
	} else if _, _, err := net.SplitHostPort(out.App.Addr); err != nil {
		res.addErr("app.addr must be host:port (%v)", err)
	}

	// upstream
	if u, err := url.Parse(out.Upstream.Endpoint); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		res.addErr("upstream.endpoint must be an absolute http(s) URL")
	} else if u.Scheme == "http" {
		res.addWarn("upstream.endpoint uses plain http")
	}
	if out.Upstream.NumJobs <= 0 || out.Upstream.NumJobs > 100 {
		res.addErr("upstream.num_jobs must be 1..100")
	}
	if out.Upstream.TimeoutSeconds <= 0 {
		res.addErr("upstream.timeout_seconds must be > 0")
	} else if out.Upstream.TimeoutSeconds > 120 {
		res.addWarn("upstream.timeout_seconds is %d; pages stay in loading that long on a hung request", out.Upstream.TimeoutSeconds)
	}
	if out.Upstream.RequestsPerSecond < 0 {
		res.addErr("upstream.requests_per_second must be >= 0 (0 disables limiting)")
	} else if out.Upstream.RequestsPerSecond == 0 {
		res.addWarn("upstream.requests_per_second is 0; outbound calls are not rate limited")
	}
	if out.Upstream.Burst < 0 {
		res.addErr("upstream.burst must be >= 0")
	}

	// board
	if out.Board.RecentDays <= 0 {
		res.addErr("board.recent_days must be > 0")
	}
	if _, err := board.ParseFilterMode(out.Board.FilterMode); err != nil {
		res.addErr("board.filter_mode must be %q or %q", board.FilterExclusive, board.FilterConjunctive)
	}
	if out.Board.SessionTTLMinutes <= 0 {
		res.addErr("board.session_ttl_minutes must be > 0")
	} else if out.Board.SessionTTLMinutes < 5 {
		res.addWarn("board.session_ttl_minutes is %d; idle pages will refetch often", out.Board.SessionTTLMinutes)
	}

	return out, res
}
