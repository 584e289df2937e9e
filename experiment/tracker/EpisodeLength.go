package tracker

import ts "github.com/samuelfneumann/tdpong/timestep"

// EpisodeLength tracks and saves the number of steps in each episode
// of an experiment.
//
// Note that an episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that episode's
// length will not be saved.
type EpisodeLength struct {
	episodeLengths []int
}

// NewEpisodeLength returns a new EpisodeLength tracker
func NewEpisodeLength() *EpisodeLength {
	return &EpisodeLength{}
}

// Track caches the episode length if t is the last timestep in an
// episode
func (e *EpisodeLength) Track(t ts.TimeStep) {
	if t.Last() {
		e.episodeLengths = append(e.episodeLengths, t.Number)
	}
}

// Lengths returns the lengths of all finished episodes
func (e *EpisodeLength) Lengths() []int {
	return append([]int(nil), e.episodeLengths...)
}

// Save saves the episode lengths to filename
func (e *EpisodeLength) Save(filename string) error {
	return save(filename, e.episodeLengths)
}
