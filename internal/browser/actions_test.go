package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanSequenceShape(t *testing.T) {
	seq := HumanSequence(900)
	require.NotEmpty(t, seq)

	// ends with scroll-to-top, one contact attempt, one dismiss
	n := len(seq)
	assert.Equal(t, ActionScroll, seq[n-3].Kind)
	assert.Zero(t, seq[n-3].ScrollY)
	assert.Equal(t, ActionContactClick, seq[n-2].Kind)
	assert.Equal(t, ActionDismiss, seq[n-1].Kind)
}

func TestHumanSequenceCapsPageHeight(t *testing.T) {
	short := HumanSequence(2000)
	tall := HumanSequence(50000)
	assert.Equal(t, len(short), len(tall))
}

func TestHumanSequenceScrollsProgress(t *testing.T) {
	seq := HumanSequence(1000)

	var last int
	for _, a := range seq[:len(seq)-3] {
		if a.Kind != ActionScroll {
			continue
		}
		assert.GreaterOrEqual(t, a.ScrollY, last)
		last = a.ScrollY
	}
	assert.Positive(t, last)
}

func TestRandomPauseWithinBounds(t *testing.T) {
	for i := 0; i < 50; i++ {
		p := randomPause(100, 300)
		assert.GreaterOrEqual(t, p.Milliseconds(), int64(100))
		assert.Less(t, p.Milliseconds(), int64(300))
	}
}
