package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededPicker_PickIsReplayable(t *testing.T) {
	p := NewSeededPicker()

	for i := 0; i < 50; i++ {
		idx, seed, err := p.Pick(7)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 7)
		assert.Equal(t, idx, Replay(seed, 7))
	}
}

func TestSeededPicker_RejectsEmpty(t *testing.T) {
	_, _, err := NewSeededPicker().Pick(0)
	assert.Error(t, err)
}

func TestReplay_Uniform(t *testing.T) {
	const n, draws = 4, 40000
	counts := make([]int, n)

	for s := int64(0); s < draws; s++ {
		counts[Replay(s, n)]++
	}

	for i, c := range counts {
		assert.InDelta(t, draws/n, c, draws/n*0.1, "bucket %d", i)
	}
}
