package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"jobboard/internal/domain"
)

const (
	DefaultEndpoint = "https://www.zippia.com/api/jobs/"
	DefaultNumJobs  = 10
)

var ErrUpstreamStatus = errors.New("jobs api returned non-2xx status")

// StatusError carries the status and the first bytes of the body of a failed call.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("jobs api status %s: %q", e.Status, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrUpstreamStatus }

type Config struct {
	Endpoint string
	NumJobs  int
	Timeout  time.Duration
}

// Client posts the fixed job search to the Zippia jobs API.
type Client struct {
	cfg     Config
	hc      *http.Client
	limiter *HostLimiter
}

func New(cfg Config, limiter *HostLimiter) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.NumJobs <= 0 {
		cfg.NumJobs = DefaultNumJobs
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
	}
}

func (c *Client) Name() string { return "zippia" }

// SearchRequest is the request body. Every field is sent, including the empty lists.
type SearchRequest struct {
	CompanySkills          bool     `json:"companySkills"`
	DismissedListingHashes []string `json:"dismissedListingHashes"`
	FetchJobDesc           bool     `json:"fetchJobDesc"`
	Locations              []string `json:"locations"`
	NumJobs                int      `json:"numJobs"`
	PreviousListingHashes  []string `json:"previousListingHashes"`
}

type Response struct {
	Jobs []domain.JobRecord `json:"jobs"`
}

func (c *Client) searchRequest() SearchRequest {
	return SearchRequest{
		CompanySkills:          true,
		DismissedListingHashes: []string{},
		FetchJobDesc:           true,
		Locations:              []string{},
		NumJobs:                c.cfg.NumJobs,
		PreviousListingHashes:  []string{},
	}
}

// FetchJobs issues the single search call and returns the decoded body as is.
func (c *Client) FetchJobs(ctx context.Context) (*Response, error) {
	body, err := json.Marshal(c.searchRequest())
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	if err := c.limiter.Wait(ctx, c.cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("zippia rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "jobboard/1.0 (+local)")

	start := time.Now()
	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("zippia post: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		return nil, &StatusError{StatusCode: res.StatusCode, Status: res.Status, Body: string(b)}
	}

	var out Response
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("zippia decode: %w", err)
	}

	log.Printf("[upstream:zippia] jobs=%d dur_ms=%d", len(out.Jobs), time.Since(start).Milliseconds())
	return &out, nil
}
