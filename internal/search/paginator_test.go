package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrapster-engine/internal/config"
	"scrapster-engine/internal/credentials"
)

type fetchCall struct {
	key   string
	query string
	start int
}

// scriptedFetcher answers each call according to a per-credential plan.
type scriptedFetcher struct {
	calls      []fetchCall
	quotaKeys  map[string]bool // credentials that always return quota errors
	perPage    int
	totalPages int
	failQuery  string
}

func (f *scriptedFetcher) FetchPage(_ context.Context, cred credentials.Credential, query string, start, num int) (*Page, error) {
	f.calls = append(f.calls, fetchCall{key: cred.APIKey, query: query, start: start})

	if f.quotaKeys[cred.APIKey] {
		return nil, ErrQuotaExceeded
	}
	if query == f.failQuery {
		return nil, errors.New("connection reset")
	}

	pageIdx := (start - 1) / num
	if pageIdx >= f.totalPages {
		return &Page{}, nil
	}

	page := &Page{}
	for i := 0; i < f.perPage; i++ {
		page.Candidates = append(page.Candidates, Candidate{
			Title:   fmt.Sprintf("Person %d-%d", start, i),
			Snippet: "a snippet",
			URL:     fmt.Sprintf("https://www.linkedin.com/in/p-%s-%d-%d", query, start, i),
		})
	}
	return page, nil
}

func pool(keys ...string) *credentials.Pool {
	var pairs []config.CredentialPair
	for _, k := range keys {
		pairs = append(pairs, config.CredentialPair{APIKey: k, EngineID: "cx-" + k})
	}
	return credentials.NewPool(pairs)
}

func TestCollectReachesTarget(t *testing.T) {
	f := &scriptedFetcher{perPage: 10, totalPages: 10, quotaKeys: map[string]bool{}}
	p := NewPaginator(f, pool("a"), PaginatorConfig{PageSize: 10, MaxPages: 10})

	out, status, err := p.Collect(context.Background(), []string{"q1"}, 15, "all")
	require.NoError(t, err)
	assert.Equal(t, StatusTargetReached, status)
	assert.Len(t, out, 15)
}

func TestCollectRotatesOnQuotaWithoutAdvancingOffset(t *testing.T) {
	f := &scriptedFetcher{perPage: 10, totalPages: 1, quotaKeys: map[string]bool{"a": true}}
	p := NewPaginator(f, pool("a", "b"), PaginatorConfig{PageSize: 10, MaxPages: 10})

	out, status, err := p.Collect(context.Background(), []string{"q1"}, 10, "all")
	require.NoError(t, err)
	assert.Equal(t, StatusTargetReached, status)
	assert.Len(t, out, 10)

	// the quota failure at start=1 is retried at start=1 with the next key
	require.GreaterOrEqual(t, len(f.calls), 2)
	assert.Equal(t, fetchCall{key: "a", query: "q1", start: 1}, f.calls[0])
	assert.Equal(t, fetchCall{key: "b", query: "q1", start: 1}, f.calls[1])
}

func TestCollectWholePoolExhausted(t *testing.T) {
	f := &scriptedFetcher{perPage: 10, totalPages: 1, quotaKeys: map[string]bool{"a": true, "b": true}}
	p := NewPaginator(f, pool("a", "b"), PaginatorConfig{PageSize: 10, MaxPages: 10})

	out, status, err := p.Collect(context.Background(), []string{"q1", "q2"}, 10, "all")
	require.NoError(t, err)
	assert.Equal(t, StatusQuotaExhausted, status)
	assert.Empty(t, out)
}

func TestCollectSkipsFailingQueryAndContinues(t *testing.T) {
	f := &scriptedFetcher{perPage: 5, totalPages: 1, quotaKeys: map[string]bool{}, failQuery: "bad"}
	p := NewPaginator(f, pool("a"), PaginatorConfig{PageSize: 10, MaxPages: 10})

	out, status, err := p.Collect(context.Background(), []string{"bad", "good"}, 50, "all")
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, status)
	assert.Len(t, out, 5)
}

func TestCollectNoQueries(t *testing.T) {
	f := &scriptedFetcher{}
	p := NewPaginator(f, pool("a"), PaginatorConfig{})

	_, status, err := p.Collect(context.Background(), nil, 10, "all")
	assert.Error(t, err)
	assert.Equal(t, StatusNoResults, status)
}

func TestKeepCandidateSourceFilter(t *testing.T) {
	in := Candidate{URL: "https://www.linkedin.com/in/jane"}
	gh := Candidate{URL: "https://github.com/jane"}

	assert.True(t, keepCandidate(in, "linkedin"))
	assert.False(t, keepCandidate(gh, "linkedin"))
	assert.True(t, keepCandidate(gh, "github"))
	assert.True(t, keepCandidate(in, "all"))
}

func TestKeepCandidateDropsCompanyPages(t *testing.T) {
	assert.False(t, keepCandidate(Candidate{URL: "https://www.linkedin.com/company/acme"}, "all"))
	assert.False(t, keepCandidate(Candidate{URL: "https://acme.com/careers/openings"}, "all"))
	// profile paths survive even when a skip term appears
	assert.True(t, keepCandidate(Candidate{URL: "https://acme.com/team/profile/jane"}, "all"))
	assert.False(t, keepCandidate(Candidate{URL: ""}, "all"))
}
