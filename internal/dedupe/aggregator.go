// Package dedupe collects accepted records across all queries of a run
// and collapses duplicates by profile URL.
package dedupe

import (
	"net/url"
	"sort"
	"strings"
	"sync"

	"scrapster-engine/internal/domain"
)

// Aggregator is safe for concurrent Add from extraction workers.
// Identity is the normalized profile URL; on collision the record with
// the higher relevance score wins, ties broken by how many fields the
// record actually filled in.
type Aggregator struct {
	mu    sync.Mutex
	byURL map[string]entry
	order []string
}

type entry struct {
	rec domain.Record
	seq int
}

func NewAggregator() *Aggregator {
	return &Aggregator{byURL: map[string]entry{}}
}

// NormalizeURL canonicalizes a profile URL for identity: lowercase
// scheme and host, trailing slash stripped, query and fragment
// dropped. Unparseable URLs fall back to trimmed lowercase.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// Add merges one record. Returns true when the record was kept, either
// as new or by replacing a weaker duplicate.
func (a *Aggregator) Add(rec domain.Record) bool {
	key := NormalizeURL(rec.ProfileURL)
	if key == "" {
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	cur, ok := a.byURL[key]
	if !ok {
		a.byURL[key] = entry{rec: rec, seq: len(a.order)}
		a.order = append(a.order, key)
		return true
	}
	if !replaces(rec, cur.rec) {
		return false
	}
	cur.rec = rec
	a.byURL[key] = cur
	return true
}

func replaces(candidate, current domain.Record) bool {
	if candidate.RelevanceScore != current.RelevanceScore {
		return candidate.RelevanceScore > current.RelevanceScore
	}
	return candidate.PopulatedFields() > current.PopulatedFields()
}

// Len reports how many distinct records are held so far.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.byURL)
}

// Finalize returns at most target records, relevance descending, with
// discovery order breaking score ties so output stays deterministic.
// target <= 0 means no cap.
func (a *Aggregator) Finalize(target int) []domain.Record {
	a.mu.Lock()
	defer a.mu.Unlock()

	entries := make([]entry, 0, len(a.order))
	for _, key := range a.order {
		entries = append(entries, a.byURL[key])
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].rec.RelevanceScore != entries[j].rec.RelevanceScore {
			return entries[i].rec.RelevanceScore > entries[j].rec.RelevanceScore
		}
		return entries[i].seq < entries[j].seq
	})

	if target > 0 && len(entries) > target {
		entries = entries[:target]
	}
	out := make([]domain.Record, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.rec)
	}
	return out
}
