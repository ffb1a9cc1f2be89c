// Package run orchestrates one scrape run end to end: query expansion,
// paged search collection, concurrent email extraction, relevance
// scoring, and aggregation into the run store.
package run

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"scrapster-engine/internal/browser"
	"scrapster-engine/internal/config"
	"scrapster-engine/internal/credentials"
	"scrapster-engine/internal/dedupe"
	"scrapster-engine/internal/domain"
	"scrapster-engine/internal/events"
	"scrapster-engine/internal/extract"
	"scrapster-engine/internal/query"
	"scrapster-engine/internal/relevance"
	"scrapster-engine/internal/search"
	"scrapster-engine/internal/store"
)

var ErrAlreadyRunning = errors.New("run: a scrape is already in progress")

// Summary is the terminal report of a run. Status is never empty: a
// run that produced nothing says so explicitly.
type Summary struct {
	Status     string `json:"status"`
	Queries    int    `json:"queries"`
	Candidates int    `json:"candidates"`
	Records    int    `json:"records"`
}

type Runner struct {
	db      *store.DB
	hub     *events.Hub
	fetcher search.Fetcher

	mu      sync.Mutex
	running bool
}

func New(db *store.DB, hub *events.Hub, fetcher search.Fetcher) *Runner {
	return &Runner{db: db, hub: hub, fetcher: fetcher}
}

func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Start validates the request and kicks the run off in the background.
// Validation failures surface synchronously; everything after that is
// reported through the run store and the event hub. cfg is snapshotted
// for the whole run; config edits apply to the next one.
func (r *Runner) Start(cfg config.Config, spec query.Spec) error {
	queries, err := query.Build(spec)
	if err != nil {
		return err
	}
	if len(cfg.Search.Credentials) == 0 {
		return errors.New("run: no search credentials configured")
	}

	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	r.running = true
	r.mu.Unlock()

	go func() {
		defer func() {
			r.mu.Lock()
			r.running = false
			r.mu.Unlock()
		}()
		sum := r.do(context.Background(), cfg, spec, queries)
		log.Printf("[run] finished: status=%s queries=%d candidates=%d records=%d",
			sum.Status, sum.Queries, sum.Candidates, sum.Records)
	}()
	return nil
}

func (r *Runner) do(ctx context.Context, cfg config.Config, spec query.Spec, queries []string) Summary {
	target := cfg.Run.TargetCount

	if err := store.BeginRun(ctx, r.db.Pool, target); err != nil {
		log.Printf("[run] begin: %v", err)
	}
	r.publish(events.TypeRunStarted, map[string]any{"queries": len(queries), "target": target})

	creds := cfg.Search.Credentials
	if !cfg.Search.RotateKeys && len(creds) > 1 {
		creds = creds[:1]
	}
	pool := credentials.NewPool(creds)

	paginator := search.NewPaginator(r.fetcher, pool, search.PaginatorConfig{
		PageSize:       cfg.Search.PageSize,
		MaxPages:       cfg.Search.MaxPagesPerQuery,
		RateLimitDelay: cfg.Search.RateLimitDelay,
	})

	candidates, searchStatus, err := paginator.Collect(ctx, queries, target, spec.Source)
	if err != nil {
		log.Printf("[run] collect: %v", err)
	}
	r.publish(events.TypeSearchDone, map[string]any{
		"candidates": len(candidates),
		"status":     string(searchStatus),
	})

	var b *browser.Browser
	if cfg.Run.Advanced {
		b, err = browser.New(browser.Config{Headless: true})
		if err != nil {
			log.Printf("[run] advanced capability unavailable, degrading: %v", err)
			b = nil
		}
	}
	defer b.Close()

	records := r.extractAll(ctx, cfg, b, spec, candidates)

	status := finalStatus(searchStatus, len(records))
	if err := store.FinishRun(ctx, r.db.Pool, status, len(queries), len(candidates), records); err != nil {
		log.Printf("[run] finish: %v", err)
	}

	sum := Summary{Status: status, Queries: len(queries), Candidates: len(candidates), Records: len(records)}
	r.publish(events.TypeRunDone, sum)
	return sum
}

// extractAll fans candidates out over a bounded worker pool, scores
// each resulting record, and aggregates the survivors.
func (r *Runner) extractAll(ctx context.Context, cfg config.Config, b *browser.Browser, spec query.Spec, candidates []search.Candidate) []domain.Record {
	validator := relevance.NewValidator(cfg.Relevance)
	agg := dedupe.NewAggregator()

	var chain *extract.Chain
	if cfg.Run.ExtractEmails {
		timeout := time.Duration(cfg.Run.CandidateTimeout * float64(time.Second))
		if timeout <= 0 {
			timeout = 45 * time.Second
		}
		chain = extract.NewChain(b, timeout)
	}

	var g errgroup.Group
	workers := cfg.Run.ExtractWorkers
	if workers <= 0 {
		workers = 4
	}
	g.SetLimit(workers)

	var done, kept int64
	var mu sync.Mutex

	for _, cand := range candidates {
		cand := cand
		g.Go(func() error {
			rec := r.buildRecord(ctx, chain, cand)
			validator.Score(&rec, spec.Keywords, spec.Locations)
			added := false
			if validator.Accept(rec, cfg.Run.ExtractEmails) {
				added = agg.Add(rec)
			}

			mu.Lock()
			done++
			if added {
				kept++
			}
			n, k := done, kept
			mu.Unlock()
			r.publish(events.TypeExtractProgress, map[string]any{
				"done": n, "total": len(candidates), "kept": k,
			})
			return nil
		})
	}
	_ = g.Wait()

	return agg.Finalize(cfg.Run.TargetCount)
}

func (r *Runner) buildRecord(ctx context.Context, chain *extract.Chain, cand search.Candidate) domain.Record {
	rec := domain.Record{
		Name:        extract.NameFromTitle(cand.Title),
		Snippet:     cand.Snippet,
		ProfileURL:  cand.URL,
		Source:      displayHost(cand.URL),
		ProfileType: domain.ProfileTypeForURL(cand.URL),
	}

	if chain != nil {
		res, err := chain.Extract(ctx, cand)
		if err != nil {
			log.Printf("[run] extract %s: %v", cand.URL, err)
		} else {
			if res.Name != "" {
				rec.Name = res.Name
			}
			rec.JobTitle = res.JobTitle
			rec.Company = res.Company
			rec.Email = res.BestEmail()
		}
	} else {
		rec.JobTitle = extract.JobTitleFrom(cand.Title + " " + cand.Snippet)
		rec.Company = extract.CompanyFrom(cand.Title + " " + cand.Snippet)
	}
	return rec
}

func (r *Runner) publish(typ string, data any) {
	if r.hub == nil {
		return
	}
	r.hub.Publish(events.MakeEvent("", typ, 1, data))
}

// finalStatus folds the search-phase status with what survived
// extraction and filtering. An empty final list is always reported as
// no_results or a partial, never as a silent success.
func finalStatus(searchStatus search.Status, records int) string {
	if records == 0 {
		if searchStatus == search.StatusQuotaExhausted {
			return string(search.StatusQuotaExhausted)
		}
		return string(search.StatusNoResults)
	}
	return string(searchStatus)
}

func displayHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
