package search

import (
	"context"
	"errors"
	"log"
	"strings"

	"golang.org/x/time/rate"

	"scrapster-engine/internal/credentials"
)

type Status string

const (
	// StatusComplete means every query string ran out of results naturally.
	StatusComplete Status = "complete"
	// StatusTargetReached means collection stopped early at target_count.
	StatusTargetReached Status = "partial_target_reached"
	// StatusQuotaExhausted means the whole credential pool ran dry.
	StatusQuotaExhausted Status = "partial_quota_exhausted"
	// StatusNoResults means nothing was collected at all.
	StatusNoResults Status = "no_results"
)

// Paginator drives paged retrieval for each query string, rotating
// credentials on quota errors and pacing every fetch through one
// shared rate limiter.
type Paginator struct {
	fetcher  Fetcher
	pool     *credentials.Pool
	limiter  *rate.Limiter
	pageSize int
	maxPages int
}

type PaginatorConfig struct {
	PageSize       int     // results per page, API max 10
	MaxPages       int     // per query per credential, API caps at 100 results
	RateLimitDelay float64 // minimum seconds between consecutive fetches
}

func NewPaginator(f Fetcher, pool *credentials.Pool, cfg PaginatorConfig) *Paginator {
	if cfg.PageSize <= 0 || cfg.PageSize > 10 {
		cfg.PageSize = 10
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 10
	}
	lim := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimitDelay > 0 {
		lim = rate.NewLimiter(rate.Limit(1/cfg.RateLimitDelay), 1)
	}
	return &Paginator{
		fetcher:  f,
		pool:     pool,
		limiter:  lim,
		pageSize: cfg.PageSize,
		maxPages: cfg.MaxPages,
	}
}

// Collect accumulates candidates across all query strings until the
// target is met, the queries are exhausted, or the credential pool runs
// dry. A transport error on one query string is recorded and the next
// query string is tried; it is only fatal when nothing at all was
// collected.
func (p *Paginator) Collect(ctx context.Context, queries []string, target int, sourceFilter string) ([]Candidate, Status, error) {
	if len(queries) == 0 {
		return nil, StatusNoResults, errors.New("paginate: no query strings")
	}

	cred, ok := p.pool.Next()
	if !ok {
		return nil, StatusQuotaExhausted, errors.New("paginate: no credentials available")
	}

	var (
		out       []Candidate
		seen      = map[string]bool{}
		lastErr   error
		quotaDry  bool
		transport int
	)

queries:
	for _, q := range queries {
		start := 1

		for page := 0; page < p.maxPages; {
			if len(out) >= target {
				break queries
			}

			if err := p.limiter.Wait(ctx); err != nil {
				return out, statusFor(out, quotaDry, target), err
			}

			res, err := p.fetcher.FetchPage(ctx, cred, q, start, p.pageSize)
			if errors.Is(err, ErrQuotaExceeded) {
				p.pool.MarkExhausted(cred)
				log.Printf("[paginate] credential exhausted, rotating (%d/%d spent)", p.pool.Exhausted(), p.pool.Size())

				next, ok := p.pool.Next()
				if !ok {
					quotaDry = true
					break queries
				}
				cred = next
				// same offset is retried with the new credential
				continue
			}
			if err != nil {
				if ctx.Err() != nil {
					return out, statusFor(out, quotaDry, target), ctx.Err()
				}
				log.Printf("[paginate] query %q failed: %v", q, err)
				lastErr = err
				transport++
				continue queries
			}

			if len(res.Candidates) == 0 {
				break // this query is out of results
			}

			for _, c := range res.Candidates {
				if len(out) >= target {
					break
				}
				if !keepCandidate(c, sourceFilter) {
					continue
				}
				key := strings.ToLower(strings.TrimSpace(c.URL))
				if key == "" || seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, c)
			}

			start += p.pageSize
			page++
		}
	}

	status := statusFor(out, quotaDry, target)
	if status == StatusNoResults {
		if lastErr != nil && transport == len(queries) {
			return nil, status, lastErr
		}
		if quotaDry {
			return nil, StatusQuotaExhausted, nil
		}
	}
	return out, status, nil
}

func statusFor(out []Candidate, quotaDry bool, target int) Status {
	switch {
	case quotaDry && len(out) == 0:
		return StatusQuotaExhausted
	case len(out) == 0:
		return StatusNoResults
	case quotaDry:
		return StatusQuotaExhausted
	case len(out) >= target:
		return StatusTargetReached
	default:
		return StatusComplete
	}
}

// keepCandidate applies the source filter and drops obvious
// company/listing pages that are not individual profiles.
func keepCandidate(c Candidate, sourceFilter string) bool {
	lu := strings.ToLower(c.URL)
	if lu == "" {
		return false
	}

	switch sourceFilter {
	case "linkedin":
		if !strings.Contains(lu, "linkedin.com") {
			return false
		}
	case "github":
		if !strings.Contains(lu, "github.com") {
			return false
		}
	}

	for _, skip := range []string{"/company/", "/careers/", "/jobs/", "/team/"} {
		if strings.Contains(lu, skip) {
			if !strings.Contains(lu, "/in/") && !strings.Contains(lu, "/profile/") && !strings.Contains(lu, "/pub/") {
				return false
			}
		}
	}
	return true
}
