package pong

import (
	"testing"

	"github.com/samuelfneumann/tdpong/utils/matutils/discretizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDiscretize(t *testing.T) {
	d, err := NewDiscretizer(25)
	require.NoError(t, err)

	tests := []struct {
		name string
		obs  []float64
		want discretizer.State
	}{
		{
			name: "default start",
			obs:  []float64{StartX, StartY, StartXVelocity, StartYVelocity, StartPaddle},
			want: discretizer.State{
				Row: 12, Column: 12, XVelocity: discretizer.Towards,
				YVelocity: discretizer.Flat, Paddle: 12,
			},
		},
		{
			name: "past paddle wall is clamped",
			obs:  []float64{1.01, 0.67, 0.03, 0.01, 0.4},
			want: discretizer.State{
				Row: 16, Column: 24, XVelocity: discretizer.Towards,
				YVelocity: discretizer.Flat, Paddle: 12,
			},
		},
		{
			name: "origin moving away and up",
			obs:  []float64{0, 0, -0.05, -0.02, 0},
			want: discretizer.State{
				Row: 0, Column: 0, XVelocity: discretizer.Away,
				YVelocity: discretizer.Up, Paddle: 0,
			},
		},
		{
			name: "top paddle and y edge",
			obs:  []float64{0.999, 1, 0.05, 0.5, MaxPaddle},
			want: discretizer.State{
				Row: 24, Column: 24, XVelocity: discretizer.Towards,
				YVelocity: discretizer.Down, Paddle: 24,
			},
		},
		{
			name: "y speed on the flat band edge",
			obs:  []float64{0.5, 0.5, 0.05, FlatYSpeed, 0.4},
			want: discretizer.State{
				Row: 12, Column: 12, XVelocity: discretizer.Towards,
				YVelocity: discretizer.Down, Paddle: 12,
			},
		},
		{
			name: "y speed just inside the flat band",
			obs:  []float64{0.5, 0.5, 0.05, -0.0149, 0.4},
			want: discretizer.State{
				Row: 12, Column: 12, XVelocity: discretizer.Towards,
				YVelocity: discretizer.Flat, Paddle: 12,
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			obs := mat.NewVecDense(ObservationDims, test.obs)
			assert.Equal(t, test.want, d.Discretize(obs))
		})
	}
}

func TestDiscretizeSnapshot(t *testing.T) {
	d, err := NewDiscretizer(10)
	require.NoError(t, err)

	s := Snapshot{X: 0.35, Y: 0.91, XVelocity: -0.1, YVelocity: -0.2,
		Paddle: 0.2}
	assert.Equal(t, discretizer.State{
		Row: 9, Column: 3, XVelocity: discretizer.Away,
		YVelocity: discretizer.Up, Paddle: 2,
	}, d.DiscretizeSnapshot(s))
}

func TestDiscretizeAlwaysIndexable(t *testing.T) {
	d, err := NewDiscretizer(7)
	require.NoError(t, err)
	ix, err := discretizer.NewIndexer(7)
	require.NoError(t, err)

	xs := []float64{-0.1, 0, 0.3, 0.999, 1, 1.9}
	speeds := []float64{-0.9, -0.015, 0, 0.0149, 0.9}
	paddles := []float64{0, 0.4, MaxPaddle}

	for _, x := range xs {
		for _, y := range xs {
			for _, v := range speeds {
				for _, paddle := range paddles {
					obs := mat.NewVecDense(ObservationDims, []float64{
						x, y, v, v, paddle,
					})
					s := d.Discretize(obs)
					require.True(t, ix.Valid(s), "state %v", s)
				}
			}
		}
	}
}

func TestNewDiscretizer(t *testing.T) {
	_, err := NewDiscretizer(0)
	assert.Error(t, err)
}
