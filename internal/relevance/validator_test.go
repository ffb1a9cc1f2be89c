package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scrapster-engine/internal/config"
	"scrapster-engine/internal/domain"
)

func newTestValidator(minScore float64) *Validator {
	return NewValidator(config.Relevance{MinScore: minScore})
}

func TestScoreFullMatch(t *testing.T) {
	v := newTestValidator(0.3)
	rec := domain.Record{
		Name:     "Jane Doe",
		JobTitle: "Software Engineer",
		Company:  "Acme",
		Snippet:  "Jane builds golang services at Acme",
	}
	v.Score(&rec, []string{"golang"}, nil)

	assert.InDelta(t, 1.0, rec.RelevanceScore, 0.001)
	assert.Contains(t, rec.RelevanceReason, "terms 1/1")
}

func TestScoreNoKeywordMatchIsPenalized(t *testing.T) {
	v := newTestValidator(0.3)
	rec := domain.Record{
		JobTitle: "Software Engineer",
		Company:  "Acme",
		Snippet:  "builds embedded firmware",
	}
	v.Score(&rec, []string{"quantum computing"}, nil)

	// (0.3 + 0.2 + 0.1) * 0.3
	assert.InDelta(t, 0.18, rec.RelevanceScore, 0.001)
	assert.Contains(t, rec.RelevanceReason, "no keyword match")
}

func TestScoreMoreKeywordsScoresHigher(t *testing.T) {
	v := newTestValidator(0.3)
	keywords := []string{"golang", "kubernetes"}

	one := domain.Record{Snippet: "writes golang"}
	both := domain.Record{Snippet: "writes golang on kubernetes"}
	v.Score(&one, keywords, nil)
	v.Score(&both, keywords, nil)

	assert.Greater(t, both.RelevanceScore, one.RelevanceScore)
}

func TestScoreLocationMatchScoresHigher(t *testing.T) {
	v := newTestValidator(0.3)

	without := domain.Record{Snippet: "golang engineer"}
	with := domain.Record{Snippet: "golang engineer in Berlin"}
	v.Score(&without, []string{"golang"}, []string{"Berlin"})
	v.Score(&with, []string{"golang"}, []string{"Berlin"})

	assert.Greater(t, with.RelevanceScore, without.RelevanceScore)
}

func TestScoreIrrelevantTermZeroes(t *testing.T) {
	v := newTestValidator(0.3)
	rec := domain.Record{
		JobTitle: "Software Engineer",
		Company:  "Acme",
		Snippet:  "Buy now and get our golang course",
	}
	v.Score(&rec, []string{"golang"}, nil)

	assert.Zero(t, rec.RelevanceScore)
	assert.Contains(t, rec.RelevanceReason, "irrelevant term")
}

func TestAcceptThreshold(t *testing.T) {
	v := newTestValidator(0.3)

	assert.True(t, v.Accept(domain.Record{Name: "Jane", Email: "j@a.com", RelevanceScore: 0.3}, true))
	assert.False(t, v.Accept(domain.Record{Name: "Jane", Email: "j@a.com", RelevanceScore: 0.29}, true))
}

func TestAcceptRequiresName(t *testing.T) {
	v := newTestValidator(0.3)
	assert.False(t, v.Accept(domain.Record{Email: "j@a.com", RelevanceScore: 0.9}, true))
}

func TestAcceptRequiresEmailOnlyWhenExtracting(t *testing.T) {
	v := newTestValidator(0.3)
	noEmail := domain.Record{Name: "Jane", RelevanceScore: 0.9}

	assert.False(t, v.Accept(noEmail, true))
	assert.True(t, v.Accept(noEmail, false))
}
