package pong

import (
	"math"
	"testing"

	env "github.com/samuelfneumann/tdpong/environment"
	ts "github.com/samuelfneumann/tdpong/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

const tolerance = 1e-9

// startAt returns a Starter which always starts from the given state
func startAt(x, y, xVelocity, yVelocity, paddle float64) env.Starter {
	return fixedStart{mat.NewVecDense(ObservationDims, []float64{
		x, y, xVelocity, yVelocity, paddle,
	})}
}

func newPong(t *testing.T, s env.Starter, cutoff int, seed uint64) *Pong {
	task := NewRally(s, cutoff, HitReward, MissReward)
	p, step, err := New(task, 0.2, rand.NewSource(seed))
	require.NoError(t, err)
	require.True(t, step.First())
	return p
}

func act(a Action) *mat.VecDense {
	return mat.NewVecDense(1, []float64{float64(a)})
}

func TestDefaultStartMissesWhenHolding(t *testing.T) {
	p := newPong(t, NewDefaultStarter(), 0, 1)

	var step ts.TimeStep
	var err error
	for i := 1; i <= 16; i++ {
		step, _, err = p.Step(act(Hold))
		require.NoError(t, err)
		require.False(t, step.Last(), "episode ended early at tick %v", i)
		require.Equal(t, ts.NoEvent, step.Event)
		require.Equal(t, 0.0, step.Reward)
	}

	step, last, err := p.Step(act(Hold))
	require.NoError(t, err)
	assert.True(t, last)
	assert.True(t, step.Terminal())
	assert.Equal(t, 17, step.Number)
	assert.Equal(t, ts.Miss, step.Event)
	assert.Equal(t, MissReward, step.Reward)
	assert.Equal(t, 0, p.Bounces())
	assert.True(t, p.GameOver())

	s := p.Snapshot()
	assert.InDelta(t, 1.01, s.X, tolerance)
	assert.InDelta(t, 0.67, s.Y, tolerance)
	assert.InDelta(t, StartPaddle, s.Paddle, tolerance)

	_, _, err = p.Step(act(Hold))
	assert.Error(t, err, "stepping after the last step should fail")
}

func TestHit(t *testing.T) {
	for seed := uint64(0); seed < 200; seed++ {
		p := newPong(t, startAt(0.99, 0.5, 0.03, 0.01, 0.4), 0, seed)

		step, last, err := p.Step(act(Hold))
		require.NoError(t, err)
		require.False(t, last)
		require.Equal(t, ts.Hit, step.Event)
		require.Equal(t, HitReward, step.Reward)
		require.Equal(t, 1, p.Bounces())
		require.False(t, p.GameOver())

		s := p.Snapshot()
		require.InDelta(t, 0.98, s.X, tolerance)

		// x velocity reversed with jitter and redrawn until fast enough
		require.Less(t, s.XVelocity, -MinBounceXSpeed)
		require.GreaterOrEqual(t, s.XVelocity, -0.03-XJitter)

		// y velocity reversed with jitter
		require.GreaterOrEqual(t, s.YVelocity, -0.01-YJitter)
		require.LessOrEqual(t, s.YVelocity, -0.01+YJitter)
	}
}

func TestPaddleEdgesHit(t *testing.T) {
	// Ball lands exactly on the lower and upper paddle edges
	for _, y := range []float64{0.3, 0.5} {
		p := newPong(t, startAt(0.98, y, 0.04, 0, 0.3), 0, 3)
		step, _, err := p.Step(act(Hold))
		require.NoError(t, err)
		assert.Equal(t, ts.Hit, step.Event, "y = %v", y)
	}
}

func TestMiss(t *testing.T) {
	p := newPong(t, startAt(0.99, 0.1, 0.03, 0, 0.4), 0, 1)

	step, last, err := p.Step(act(Hold))
	require.NoError(t, err)
	assert.True(t, last)
	assert.Equal(t, ts.Miss, step.Event)
	assert.Equal(t, ts.TerminalStateReached, step.EndType())
	assert.Equal(t, MissReward, step.Reward)
}

func TestMoveBallReflects(t *testing.T) {
	tests := []struct {
		name           string
		x, y, vx, vy   float64
		wantX, wantY   float64
		wantVX, wantVY float64
	}{
		{"no wall", 0.5, 0.5, 0.03, 0.01, 0.53, 0.51, 0.03, 0.01},
		{"bottom wall", 0.5, 0.02, 0.03, -0.05, 0.53, 0.03, 0.03, 0.05},
		{"top wall", 0.5, 0.98, 0.03, 0.05, 0.53, 0.97, 0.03, -0.05},
		{"back wall", 0.02, 0.5, -0.05, 0, 0.03, 0.5, 0.05, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := newPong(t, startAt(test.x, test.y, test.vx, test.vy, 0.4),
				0, 1)
			p.MoveBall()

			s := p.Snapshot()
			assert.InDelta(t, test.wantX, s.X, tolerance)
			assert.InDelta(t, test.wantY, s.Y, tolerance)
			assert.InDelta(t, test.wantVX, s.XVelocity, tolerance)
			assert.InDelta(t, test.wantVY, s.YVelocity, tolerance)
		})
	}
}

func TestPaddleWrapsAround(t *testing.T) {
	p := newPong(t, startAt(0.5, 0.5, 0.03, 0, 0.78), 0, 1)
	p.MovePaddleUp()
	assert.Equal(t, 0.0, p.Snapshot().Paddle)

	p.MovePaddleDown()
	assert.Equal(t, MaxPaddle, p.Snapshot().Paddle)

	p.MovePaddleDown()
	assert.InDelta(t, MaxPaddle-PaddleStep, p.Snapshot().Paddle, tolerance)

	p.MovePaddleUp()
	assert.InDelta(t, MaxPaddle, p.Snapshot().Paddle, tolerance)

	// The paddle never leaves [0, MaxPaddle]
	for i := 0; i < 100; i++ {
		p.MovePaddleUp()
		paddle := p.Snapshot().Paddle
		require.GreaterOrEqual(t, paddle, 0.0)
		require.LessOrEqual(t, paddle, MaxPaddle+tolerance)
	}
	for i := 0; i < 100; i++ {
		p.MovePaddleDown()
		paddle := p.Snapshot().Paddle
		require.GreaterOrEqual(t, paddle, 0.0)
		require.LessOrEqual(t, paddle, MaxPaddle+tolerance)
	}
}

func TestBounceRuleBounds(t *testing.T) {
	p := newPong(t, NewDefaultStarter(), 0, 42)

	for _, previous := range []float64{0.016, 0.03, 0.5, 0.95, -0.04} {
		for i := 0; i < 1000; i++ {
			v := p.newXVelocity(previous)
			require.Greater(t, math.Abs(v), MinBounceXSpeed)
			require.Less(t, math.Abs(v), MaxTolerableSpeed)
			if math.Abs(-previous) < MaxTolerableSpeed-XJitter {
				require.InDelta(t, -previous, v, XJitter+tolerance)
			}

			v = p.newYVelocity(previous)
			require.Less(t, math.Abs(v), MaxTolerableSpeed)
			if math.Abs(-previous) < MaxTolerableSpeed-YJitter {
				require.InDelta(t, -previous, v, YJitter+tolerance)
			}
		}
	}
}

func TestCapSpeed(t *testing.T) {
	assert.Equal(t, 0.5, capSpeed(0.5))
	assert.Equal(t, -0.99, capSpeed(-0.99))
	assert.Equal(t, SpeedCap, capSpeed(1.0))
	assert.Equal(t, SpeedCap, capSpeed(1.2))
	assert.Equal(t, -SpeedCap, capSpeed(-1.0))
}

func TestEpisodeCutoff(t *testing.T) {
	p := newPong(t, NewDefaultStarter(), 5, 1)

	var step ts.TimeStep
	for i := 0; i < 5; i++ {
		var err error
		step, _, err = p.Step(act(Hold))
		require.NoError(t, err)
	}
	assert.True(t, step.Last())
	assert.Equal(t, ts.Timeout, step.EndType())
	assert.False(t, step.Terminal())
	assert.False(t, p.GameOver())
}

func TestResetReinitializes(t *testing.T) {
	p := newPong(t, NewDefaultStarter(), 0, 1)
	for !p.GameOver() {
		_, _, err := p.Step(act(Hold))
		require.NoError(t, err)
	}

	step, err := p.Reset()
	require.NoError(t, err)
	assert.True(t, step.First())
	assert.Equal(t, 0, step.Number)
	assert.Equal(t, 0, p.Bounces())
	assert.False(t, p.GameOver())
	assert.Equal(t, Snapshot{
		X: StartX, Y: StartY, XVelocity: StartXVelocity,
		YVelocity: StartYVelocity, Paddle: StartPaddle,
	}, p.Snapshot())
}

func TestIllegalActionPanics(t *testing.T) {
	p := newPong(t, NewDefaultStarter(), 0, 1)

	assert.Panics(t, func() { p.Step(act(Action(3))) })
	assert.Panics(t, func() { p.Step(act(Action(-1))) })
	assert.Panics(t, func() { p.Step(mat.NewVecDense(2, nil)) })
}

func TestInvalidStart(t *testing.T) {
	starts := []env.Starter{
		startAt(1.5, 0.5, 0.03, 0, 0.4),
		startAt(0.5, -0.1, 0.03, 0, 0.4),
		startAt(0.5, 0.5, 0.01, 0, 0.4),
		startAt(0.5, 0.5, 1.0, 0, 0.4),
		startAt(0.5, 0.5, 0.03, 1.0, 0.4),
		startAt(0.5, 0.5, 0.03, 0, 0.9),
	}

	for _, s := range starts {
		task := NewRally(s, 0, HitReward, MissReward)
		_, _, err := New(task, 0.2, rand.NewSource(1))
		assert.Error(t, err, "start %v", s.Start())
	}

	task := NewRally(NewDefaultStarter(), 0, HitReward, MissReward)
	_, _, err := New(task, 1.5, rand.NewSource(1))
	assert.Error(t, err)
}

func TestUniformStarter(t *testing.T) {
	bounds := StartBounds()
	bounds[YIndex].Min, bounds[YIndex].Max = 0.2, 0.8

	s, err := NewUniformStarter(bounds, rand.NewSource(7))
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		start := s.Start()
		assert.Equal(t, StartX, start.AtVec(XIndex))
		assert.GreaterOrEqual(t, start.AtVec(YIndex), 0.2)
		assert.LessOrEqual(t, start.AtVec(YIndex), 0.8)
	}

	_, err = NewUniformStarter(bounds[:2], rand.NewSource(7))
	assert.Error(t, err)
}

func TestRallyRewards(t *testing.T) {
	r := NewRally(NewDefaultStarter(), 0, 2, -3)
	assert.Equal(t, 2.0, r.GetReward(ts.Hit))
	assert.Equal(t, -3.0, r.GetReward(ts.Miss))
	assert.Equal(t, 0.0, r.GetReward(ts.NoEvent))
	assert.Equal(t, -3.0, r.Min())
	assert.Equal(t, 2.0, r.Max())
}

func BenchmarkStep(b *testing.B) {
	task := NewRally(NewDefaultStarter(), 0, HitReward, MissReward)
	p, _, err := New(task, 0.2, rand.NewSource(1))
	if err != nil {
		b.Fatal(err)
	}
	a := act(Hold)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if p.GameOver() {
			b.StopTimer()
			if _, err := p.Reset(); err != nil {
				b.Fatal(err)
			}
			b.StartTimer()
		}
		if _, _, err := p.Step(a); err != nil {
			b.Fatal(err)
		}
	}
}
