// Package extract turns a search candidate into contact details by
// running a fixed chain of strategies, cheapest first. Each strategy is
// fault-isolated: one failing never stops the others, and the whole
// candidate runs under a single timeout.
package extract

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"scrapster-engine/internal/browser"
	"scrapster-engine/internal/search"
)

// Result is everything the chain learned about one candidate.
type Result struct {
	Emails   []Finding
	Name     string
	JobTitle string
	Company  string
}

// BestEmail picks the address to put on the record: highest trust
// first, preferring addresses that look specific to the person or
// their company. Empty when nothing usable was found.
func (r Result) BestEmail() string {
	for _, f := range r.Emails {
		if MatchesPerson(f.Email, r.Name, r.Company) {
			return f.Email
		}
	}
	if len(r.Emails) > 0 {
		return r.Emails[0].Email
	}
	return ""
}

type strategy struct {
	name         string
	needsBrowser bool
	run          func(*Chain, context.Context, *state) error
}

// allStrategies is the full chain in execution order. NewChain filters
// it once by capability; nothing downstream re-checks modes.
var allStrategies = []strategy{
	{name: "static", run: (*Chain).runStatic},
	{name: "hidden_dom", needsBrowser: true, run: (*Chain).runHiddenDOM},
	{name: "network_capture", needsBrowser: true, run: (*Chain).runNetworkCapture},
	{name: "reveal", needsBrowser: true, run: (*Chain).runReveal},
	{name: "infer", run: (*Chain).runInfer},
}

type Chain struct {
	hc         *http.Client
	browser    *browser.Browser
	timeout    time.Duration
	limiter    *hostLimiter
	strategies []strategy
}

type state struct {
	cand     search.Candidate
	session  *browser.Session
	pageText string
	pageHTML string
	res      *Result
}

// NewChain builds the extraction chain. b may be nil, in which case the
// browser-backed strategies are simply absent and the chain degrades to
// static scanning plus inference.
func NewChain(b *browser.Browser, timeout time.Duration) *Chain {
	c := &Chain{
		hc:      &http.Client{Timeout: 15 * time.Second},
		browser: b,
		timeout: timeout,
		limiter: newHostLimiter(1, 2),
	}
	for _, st := range allStrategies {
		if st.needsBrowser && b == nil {
			continue
		}
		c.strategies = append(c.strategies, st)
	}
	return c
}

// Extract runs the chain for one candidate. It always returns a
// Result, possibly with no emails; the error is non-nil only when the
// candidate could not be processed at all.
func (c *Chain) Extract(ctx context.Context, cand search.Candidate) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	st := &state{cand: cand, res: &Result{}}
	st.res.Name = NameFromTitle(cand.Title)
	if LooksLikeCompanyName(st.res.Name) {
		st.res.Company = st.res.Name
		st.res.Name = ""
	}
	st.res.JobTitle = JobTitleFrom(cand.Title + " " + cand.Snippet)
	if st.res.Company == "" {
		st.res.Company = CompanyFrom(cand.Title + " " + cand.Snippet)
	}
	st.res.Emails = scanEmails(cand.Snippet, TrustPage)

	if err := c.limiter.WaitURL(ctx, cand.URL); err != nil {
		return *st.res, err
	}

	if c.browser != nil {
		sess, err := c.browser.Open(ctx, cand.URL)
		if err != nil {
			log.Printf("[extract] session %s: %v", cand.URL, err)
		} else {
			st.session = sess
			defer sess.Close()
		}
	}

	for _, s := range c.strategies {
		if ctx.Err() != nil {
			break
		}
		if err := c.runIsolated(ctx, s, st); err != nil {
			log.Printf("[extract] %s %s: %v", s.name, cand.URL, err)
		}
	}
	return *st.res, nil
}

func (c *Chain) runIsolated(ctx context.Context, s strategy, st *state) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy panic: %v", r)
		}
	}()
	return s.run(c, ctx, st)
}

// runInfer is the last resort: when no address was found anywhere,
// guess from the name and company.
func (c *Chain) runInfer(ctx context.Context, st *state) error {
	if len(st.res.Emails) > 0 {
		return nil
	}
	st.res.Emails = InferEmails(st.res.Name, st.res.Company)
	return nil
}
