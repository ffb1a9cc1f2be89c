package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrapster-engine/internal/config"
)

func testPairs(n int) []config.CredentialPair {
	var out []config.CredentialPair
	for i := 0; i < n; i++ {
		out = append(out, config.CredentialPair{
			APIKey:   string(rune('a' + i)),
			EngineID: string(rune('A' + i)),
		})
	}
	return out
}

func TestNextReturnsFirstConfiguredCredential(t *testing.T) {
	p := NewPool(testPairs(3))

	c, ok := p.Next()
	require.True(t, ok)
	assert.Equal(t, "a", c.APIKey)
}

func TestNextSkipsExhausted(t *testing.T) {
	p := NewPool(testPairs(3))

	first, _ := p.Next()
	p.MarkExhausted(first)

	c, ok := p.Next()
	require.True(t, ok)
	assert.Equal(t, "b", c.APIKey)

	p.MarkExhausted(c)
	c, ok = p.Next()
	require.True(t, ok)
	assert.Equal(t, "c", c.APIKey)
}

func TestPoolRunsDry(t *testing.T) {
	p := NewPool(testPairs(2))

	for i := 0; i < 2; i++ {
		c, ok := p.Next()
		require.True(t, ok)
		p.MarkExhausted(c)
	}

	_, ok := p.Next()
	assert.False(t, ok)
	assert.False(t, p.HasAvailable())
	assert.Equal(t, 2, p.Exhausted())
}

func TestMarkExhaustedIsIdempotent(t *testing.T) {
	p := NewPool(testPairs(2))

	c, _ := p.Next()
	p.MarkExhausted(c)
	p.MarkExhausted(c)

	assert.Equal(t, 1, p.Exhausted())
	assert.True(t, p.HasAvailable())
}

func TestEmptyPool(t *testing.T) {
	p := NewPool(nil)

	_, ok := p.Next()
	assert.False(t, ok)
	assert.Equal(t, 0, p.Size())
}
