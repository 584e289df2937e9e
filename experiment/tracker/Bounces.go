package tracker

import (
	"fmt"
	"strings"

	ts "github.com/samuelfneumann/tdpong/timestep"
	"gonum.org/v1/gonum/stat"
)

// Report summarizes the number of bounces in a batch of episodes
type Report struct {
	Episodes int

	// Histogram[b] is the number of episodes with exactly b bounces
	Histogram []int
	Max       int
	Mean      float64

	// BelowThreshold is the number of state-action pairs still below
	// the exploration threshold. It is only filled in for reports of
	// training batches.
	BelowThreshold int
}

func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Episodes: %v  |  Max Bounces: %v  |  Mean Bounces: %.3f",
		r.Episodes, r.Max, r.Mean)
	for bounces, count := range r.Histogram {
		if count > 0 {
			fmt.Fprintf(&b, "\n%6v bounces: %v", bounces, count)
		}
	}
	return b.String()
}

// Bounces tracks the number of times the ball is returned by the
// paddle in each episode. Bounces are counted from the Hit events of
// timesteps.
//
// Bounces keeps the bounce counts of the current batch of episodes,
// which are summarized and cleared by Report, as well as those of
// every episode ever tracked, which are saved by Save.
type Bounces struct {
	current int
	batch   []int
	all     []int
}

// NewBounces returns a new Bounces tracker
func NewBounces() *Bounces {
	return &Bounces{}
}

// Track records a bounce if the transition into t was a hit, and
// caches the episode's bounce count if t is the last timestep in an
// episode
func (b *Bounces) Track(t ts.TimeStep) {
	if t.First() {
		b.current = 0
	}
	if t.Event == ts.Hit {
		b.current++
	}
	if t.Last() {
		b.batch = append(b.batch, b.current)
		b.all = append(b.all, b.current)
		b.current = 0
	}
}

// Report summarizes the current batch of episodes and starts a new
// batch
func (b *Bounces) Report() Report {
	r := Report{Episodes: len(b.batch)}
	if len(b.batch) == 0 {
		b.batch = nil
		return r
	}

	counts := make([]float64, len(b.batch))
	for i, bounces := range b.batch {
		counts[i] = float64(bounces)
		if bounces > r.Max {
			r.Max = bounces
		}
	}
	r.Mean = stat.Mean(counts, nil)

	r.Histogram = make([]int, r.Max+1)
	for _, bounces := range b.batch {
		r.Histogram[bounces]++
	}

	b.batch = nil
	return r
}

// Save saves the bounce counts of every tracked episode to filename
func (b *Bounces) Save(filename string) error {
	return save(filename, b.all)
}
