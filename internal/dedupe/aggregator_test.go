package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrapster-engine/internal/domain"
)

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t,
		NormalizeURL("https://linkedin.com/in/jane/"),
		NormalizeURL("https://linkedin.com/in/jane?utm_source=x#bio"),
	)
	assert.Equal(t, "not a url", NormalizeURL(" NOT A URL "))
	assert.Equal(t,
		NormalizeURL("HTTPS://LINKEDIN.COM/in/jane"),
		NormalizeURL("https://linkedin.com/in/jane"),
	)
}

func rec(url string, score float64, email string) domain.Record {
	return domain.Record{ProfileURL: url, RelevanceScore: score, Email: email}
}

func TestAddKeepsHigherScoreOnCollision(t *testing.T) {
	agg := NewAggregator()

	require.True(t, agg.Add(rec("https://linkedin.com/in/jane", 0.4, "")))
	require.True(t, agg.Add(rec("https://linkedin.com/in/jane/", 0.8, "jane@acme.com")))
	assert.Equal(t, 1, agg.Len())

	out := agg.Finalize(0)
	require.Len(t, out, 1)
	assert.Equal(t, 0.8, out[0].RelevanceScore)
	assert.Equal(t, "jane@acme.com", out[0].Email)
}

func TestAddRejectsWeakerDuplicate(t *testing.T) {
	agg := NewAggregator()

	require.True(t, agg.Add(rec("https://linkedin.com/in/jane", 0.8, "jane@acme.com")))
	assert.False(t, agg.Add(rec("https://linkedin.com/in/jane", 0.4, "")))
	assert.Equal(t, 1, agg.Len())
}

func TestTieBrokenByPopulatedFields(t *testing.T) {
	agg := NewAggregator()

	sparse := rec("https://linkedin.com/in/jane", 0.5, "")
	full := rec("https://linkedin.com/in/jane", 0.5, "jane@acme.com")
	full.Name = "Jane Doe"
	full.Company = "Acme"

	require.True(t, agg.Add(sparse))
	require.True(t, agg.Add(full))

	out := agg.Finalize(0)
	require.Len(t, out, 1)
	assert.Equal(t, "Jane Doe", out[0].Name)
}

func TestFinalizeOrdersAndTruncates(t *testing.T) {
	agg := NewAggregator()
	agg.Add(rec("https://a.com/1", 0.3, ""))
	agg.Add(rec("https://a.com/2", 0.9, ""))
	agg.Add(rec("https://a.com/3", 0.9, ""))
	agg.Add(rec("https://a.com/4", 0.6, ""))

	out := agg.Finalize(3)
	require.Len(t, out, 3)
	// score descending, discovery order breaking the tie
	assert.Equal(t, "https://a.com/2", out[0].ProfileURL)
	assert.Equal(t, "https://a.com/3", out[1].ProfileURL)
	assert.Equal(t, "https://a.com/4", out[2].ProfileURL)
}

func TestAddDropsEmptyURL(t *testing.T) {
	agg := NewAggregator()
	assert.False(t, agg.Add(rec("", 0.9, "x@y.com")))
	assert.Equal(t, 0, agg.Len())
}
