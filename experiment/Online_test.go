package experiment

import (
	"testing"

	"github.com/samuelfneumann/tdpong/environment/envconfig"
	"github.com/samuelfneumann/tdpong/environment/pong"
	"github.com/samuelfneumann/tdpong/experiment/tracker"
	ts "github.com/samuelfneumann/tdpong/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// holdAgent always holds the paddle still and records what it is
// shown
type holdAgent struct {
	observed []ts.TimeStep
	updates  int
	ended    int
}

func (h *holdAgent) ObserveFirst(t ts.TimeStep) error {
	h.observed = append(h.observed, t)
	return nil
}

func (h *holdAgent) Observe(_ *mat.VecDense, t ts.TimeStep) error {
	h.observed = append(h.observed, t)
	return nil
}

func (h *holdAgent) Step() error {
	h.updates++
	return nil
}

func (h *holdAgent) EndEpisode() { h.ended++ }

func (h *holdAgent) SelectAction(ts.TimeStep) *mat.VecDense {
	return mat.NewVecDense(1, []float64{float64(pong.Hold)})
}

func (h *holdAgent) Eval()        {}
func (h *holdAgent) Train()       {}
func (h *holdAgent) IsEval() bool { return false }

// recorder is an Observer recording every snapshot
type recorder struct {
	snapshots []pong.Snapshot
}

func (r *recorder) OnStep(s pong.Snapshot) {
	r.snapshots = append(r.snapshots, s)
}

func TestRunEpisodeHolding(t *testing.T) {
	e, game, _, err := envconfig.Default().Create(rand.NewSource(1))
	require.NoError(t, err)

	a := &holdAgent{}
	bounces := tracker.NewBounces()
	o := NewOnline(e, a, bounces)
	rec := &recorder{}
	o.Attach(game, 0, rec)

	last, err := o.RunEpisode()
	require.NoError(t, err)

	assert.True(t, last.Terminal())
	assert.Equal(t, 17, last.Number)
	assert.Equal(t, 0, game.Bounces())

	// The agent sees the first timestep and every following one, and
	// is stepped once per transition
	require.Len(t, a.observed, 18)
	assert.True(t, a.observed[0].First())
	assert.Equal(t, float64(e.Indexer().Terminal()),
		a.observed[17].Observation.AtVec(0))
	assert.Equal(t, 17, a.updates)
	assert.Equal(t, 1, a.ended)

	require.Len(t, rec.snapshots, 17)
	assert.Equal(t, 1, rec.snapshots[0].Step)
	assert.True(t, rec.snapshots[16].GameOver)

	r := bounces.Report()
	assert.Equal(t, 1, r.Episodes)
	assert.Equal(t, []int{1}, r.Histogram)

	// Detached observers are no longer notified
	o.Detach()
	_, err = o.RunEpisode()
	require.NoError(t, err)
	assert.Len(t, rec.snapshots, 17)
	assert.Equal(t, 2, a.ended)
}

func TestRunEpisodeCutoff(t *testing.T) {
	c := envconfig.Default()
	c.EpisodeCutoff = 10
	e, _, _, err := c.Create(rand.NewSource(1))
	require.NoError(t, err)

	last, err := NewOnline(e, &holdAgent{}).RunEpisode()
	require.NoError(t, err)
	assert.Equal(t, 10, last.Number)
	assert.Equal(t, ts.Timeout, last.EndType())
}
