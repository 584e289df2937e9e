package discretizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIndexer(t *testing.T) {
	_, err := NewIndexer(0)
	assert.Error(t, err)

	ix, err := NewIndexer(25)
	require.NoError(t, err)
	assert.Equal(t, 25, ix.Resolution())
	assert.Equal(t, StateIndex(25*25*6*25), ix.Terminal())
	assert.Equal(t, 25*25*6*25+1, ix.Len())
}

func TestIndexBijection(t *testing.T) {
	for m := 1; m <= 5; m++ {
		ix, err := NewIndexer(m)
		require.NoError(t, err)

		seen := make(map[StateIndex]bool)
		for row := 0; row < m; row++ {
			for col := 0; col < m; col++ {
				for _, x := range []int{Away, Towards} {
					for y := Up; y <= Down; y++ {
						for paddle := 0; paddle < m; paddle++ {
							s := State{row, col, x, y, paddle}
							i := ix.Index(s)

							require.GreaterOrEqual(t, int(i), 0)
							require.Less(t, i, ix.Terminal(),
								"state %v indexed at or past terminal", s)
							require.False(t, seen[i],
								"index %v produced twice", i)
							seen[i] = true

							back, err := ix.State(i)
							require.NoError(t, err)
							require.Equal(t, s, back)
						}
					}
				}
			}
		}

		// Indices are contiguous: every index below the terminal index
		// is produced by exactly one state
		assert.Len(t, seen, int(ix.Terminal()))
	}
}

func TestIndexLayout(t *testing.T) {
	ix, err := NewIndexer(25)
	require.NoError(t, err)

	assert.Equal(t, StateIndex(0), ix.Index(State{0, 0, Away, Up, 0}))
	assert.Equal(t, StateIndex(1), ix.Index(State{0, 0, Away, Up, 1}))
	assert.Equal(t, StateIndex(25), ix.Index(State{0, 0, Away, Flat, 0}))
	assert.Equal(t, StateIndex(75), ix.Index(State{0, 0, Towards, Up, 0}))
	assert.Equal(t, StateIndex(150), ix.Index(State{0, 1, Away, Up, 0}))
	assert.Equal(t, StateIndex(25*150), ix.Index(State{1, 0, Away, Up, 0}))
	assert.Equal(t, ix.Terminal()-1,
		ix.Index(State{24, 24, Towards, Down, 24}))
}

func TestStateErrors(t *testing.T) {
	ix, err := NewIndexer(3)
	require.NoError(t, err)

	_, err = ix.State(ix.Terminal())
	assert.Error(t, err)

	_, err = ix.State(ix.Terminal() + 1)
	assert.Error(t, err)

	_, err = ix.State(-1)
	assert.Error(t, err)
}

func TestIndexPanicsOutOfRange(t *testing.T) {
	ix, err := NewIndexer(3)
	require.NoError(t, err)

	invalid := []State{
		{3, 0, Away, Up, 0},
		{0, -1, Away, Up, 0},
		{0, 0, 0, Up, 0},
		{0, 0, Away, 2, 0},
		{0, 0, Towards, Down, 3},
	}
	for _, s := range invalid {
		assert.False(t, ix.Valid(s))
		assert.Panics(t, func() { ix.Index(s) }, "state %v", s)
	}
}

func BenchmarkIndex(b *testing.B) {
	ix, err := NewIndexer(25)
	if err != nil {
		b.Fatal(err)
	}
	s := State{12, 20, Towards, Flat, 7}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ix.Index(s)
	}
}
