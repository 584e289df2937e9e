// Package experiment implements functionality for running training
// and evaluation experiments of a TD agent on the ball-and-paddle
// environment
package experiment

import (
	"github.com/samuelfneumann/tdpong/environment/pong"
	"github.com/samuelfneumann/tdpong/experiment/tracker"
)

// Phase is a stage of an experiment
type Phase string

const (
	Training   Phase = "train"
	Evaluation Phase = "eval"
	Visual     Phase = "visual"
)

// Observer is notified of the environment state after every step of
// an episode. Observers only receive copies of the state and cannot
// influence the experiment.
type Observer interface {
	OnStep(s pong.Snapshot)
}

// Reporter receives a summary of each batch of episodes in an
// experiment
type Reporter interface {
	Report(phase Phase, r tracker.Report) error
}

// Snapshotter is an environment whose state can be copied for
// Observers
type Snapshotter interface {
	Snapshot() pong.Snapshot
}
