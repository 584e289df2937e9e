package experiment

import (
	"fmt"
	"time"

	"github.com/samuelfneumann/tdpong/agent"
	env "github.com/samuelfneumann/tdpong/environment"
	"github.com/samuelfneumann/tdpong/experiment/tracker"
	ts "github.com/samuelfneumann/tdpong/timestep"
)

// Online runs episodes of an agent online, updating the agent after
// every step. If the agent is in evaluation mode, its Step method
// performs no updates and Online simply evaluates the agent.
type Online struct {
	env.Environment
	agent.Agent
	trackers []tracker.Tracker

	source    Snapshotter
	observers []Observer
	delay     time.Duration
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The t parameter is a slice of
// tracker.Tracker which are sent every timestep of every episode.
func NewOnline(e env.Environment, a agent.Agent,
	t ...tracker.Tracker) *Online {
	return &Online{Environment: e, Agent: a, trackers: t}
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Attach attaches observers which receive a snapshot of source after
// every environment step. If delay is positive, Online sleeps for delay
// after notifying the observers.
func (o *Online) Attach(source Snapshotter, delay time.Duration,
	observers ...Observer) {
	o.source = source
	o.delay = delay
	o.observers = append(o.observers, observers...)
}

// Detach removes all attached observers
func (o *Online) Detach() {
	o.source = nil
	o.delay = 0
	o.observers = nil
}

// RunEpisode runs a single episode of the experiment and returns the
// last timestep of the episode
func (o *Online) RunEpisode() (ts.TimeStep, error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return step, fmt.Errorf("runEpisode: could not reset: %w", err)
	}
	if err := o.Agent.ObserveFirst(step); err != nil {
		return step, fmt.Errorf("runEpisode: %w", err)
	}
	o.track(step)

	for !step.Last() {
		// Select action, step in environment
		action := o.Agent.SelectAction(step)
		step, _, err = o.Environment.Step(action)
		if err != nil {
			return step, fmt.Errorf("runEpisode: %w", err)
		}

		o.track(step)
		o.notify()

		// Observe the timestep and step the agent
		if err := o.Agent.Observe(action, step); err != nil {
			return step, fmt.Errorf("runEpisode: %w", err)
		}
		if err := o.Agent.Step(); err != nil {
			return step, fmt.Errorf("runEpisode: %w", err)
		}
	}

	o.Agent.EndEpisode()
	return step, nil
}

// track tracks the current timestep by sending it to each tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}

// notify sends the current environment state to each observer
func (o *Online) notify() {
	if o.source == nil || len(o.observers) == 0 {
		return
	}

	snapshot := o.source.Snapshot()
	for _, observer := range o.observers {
		observer.OnStep(snapshot)
	}
	if o.delay > 0 {
		time.Sleep(o.delay)
	}
}
