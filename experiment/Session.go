package experiment

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/samuelfneumann/tdpong/agent/tabular/table"
	"github.com/samuelfneumann/tdpong/agent/tabular/td"
	"github.com/samuelfneumann/tdpong/environment/pong"
	"github.com/samuelfneumann/tdpong/environment/wrappers"
	"github.com/samuelfneumann/tdpong/experiment/checkpointer"
	"github.com/samuelfneumann/tdpong/experiment/tracker"
	"github.com/samuelfneumann/tdpong/utils/progressbar"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
)

const progressBarWidth = 50

// Session holds everything one training run shares across episodes:
// the utility table, the agent learning it, and the environment the
// agent plays in. Each episode starts from a freshly reset
// environment; only the table carries over between episodes.
//
// A Session is not safe for concurrent use.
type Session struct {
	config Config
	id     uuid.UUID
	log    *logrus.Entry
	source rand.Source

	table  *table.Table
	agent  *td.TD
	env    *wrappers.StateIndex
	game   *pong.Pong
	online *Online

	bounces *tracker.Bounces
	lengths *tracker.EpisodeLength

	reporters    []Reporter
	observers    []Observer
	checkpointer checkpointer.Checkpointer
	progress     io.Writer
	trained      int
}

// NewSession creates a new Session from a Config. All randomness of
// the session is drawn from a single source seeded with c.Seed.
func NewSession(c Config, logger *logrus.Logger) (*Session, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newSession: %w", err)
	}
	source := rand.NewSource(c.Seed)

	e, game, _, err := c.EnvConf.Create(source)
	if err != nil {
		return nil, fmt.Errorf("newSession: %w", err)
	}

	t, err := table.NewFromIndexer(e.Indexer())
	if err != nil {
		return nil, fmt.Errorf("newSession: %w", err)
	}
	a, err := c.AgentConf.CreateAgent(t, source)
	if err != nil {
		return nil, fmt.Errorf("newSession: %w", err)
	}

	id := uuid.New()
	bounces := tracker.NewBounces()
	lengths := tracker.NewEpisodeLength()

	s := &Session{
		config:  c,
		id:      id,
		source:  source,
		log:     logger.WithField("run", id.String()),
		table:   t,
		agent:   a,
		env:     e,
		game:    game,
		online:  NewOnline(e, a, bounces, lengths),
		bounces: bounces,
		lengths: lengths,
	}

	if err := s.setCheckpointer(); err != nil {
		return nil, fmt.Errorf("newSession: %w", err)
	}
	return s, nil
}

// setCheckpointer creates the checkpointer of the current table, which
// continues numbering checkpoints from the episodes trained so far
func (s *Session) setCheckpointer() error {
	if s.config.CheckpointEvery <= 0 {
		return nil
	}

	prefix := fmt.Sprintf("table-%v", s.id)
	filename := checkpointer.FilenameEnumerator(
		s.trained/s.config.CheckpointEvery, s.config.CheckpointDir, prefix,
		".gob",
	)

	var err error
	s.checkpointer, err = checkpointer.NewNStep(s.config.CheckpointEvery,
		s.table, filename)
	return err
}

// ID returns the identifier of the run
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Config returns the configuration of the session
func (s *Session) Config() Config {
	return s.config
}

// Table returns the utility table learned by the session
func (s *Session) Table() *table.Table {
	return s.table
}

// Game returns the unwrapped environment of the session
func (s *Session) Game() *pong.Pong {
	return s.game
}

// SetTable replaces the utility table with t, which must have one row
// for every state of the session's discretization. Previously learned
// utilities are discarded.
func (s *Session) SetTable(t *table.Table) error {
	if states := s.env.ObservationSpec().Size(); t.States() != states {
		return fmt.Errorf("setTable: table has %v states, need %v",
			t.States(), states)
	}

	a, err := s.config.AgentConf.CreateAgent(t, s.source)
	if err != nil {
		return fmt.Errorf("setTable: %w", err)
	}
	s.table = t
	s.agent = a
	s.online.Agent = a

	if err := s.setCheckpointer(); err != nil {
		return fmt.Errorf("setTable: %w", err)
	}
	return nil
}

// AddReporter adds reporters which receive the report of every batch
// of episodes
func (s *Session) AddReporter(r ...Reporter) {
	s.reporters = append(s.reporters, r...)
}

// AddObserver adds observers which watch the visual trials
func (s *Session) AddObserver(o ...Observer) {
	s.observers = append(s.observers, o...)
}

// ShowProgress draws a progress bar to out while training
func (s *Session) ShowProgress(out io.Writer) {
	s.progress = out
}

// BelowThreshold returns the number of non-terminal state-action pairs
// which have been attempted fewer times than the exploration threshold
func (s *Session) BelowThreshold() int {
	return s.table.CountBelow(s.agent.Threshold())
}

// PlayEpisode plays a single episode, updating the utility table if
// training is true, and returns the number of times the ball was
// returned
func (s *Session) PlayEpisode(training bool) (int, error) {
	if training {
		s.agent.Train()
	} else {
		s.agent.Eval()
	}

	last, err := s.online.RunEpisode()
	if err != nil {
		return 0, fmt.Errorf("playEpisode: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"training": training,
		"bounces":  s.game.Bounces(),
		"steps":    last.Number,
		"end":      last.EndType(),
	}).Debug("episode finished")

	return s.game.Bounces(), nil
}

// Train runs the configured number of training episodes
func (s *Session) Train() error {
	log := s.log.WithField("phase", Training)
	log.WithField("episodes", s.config.TrainEpisodes).Info("training")
	if s.config.TrainEpisodes == 0 {
		return nil
	}

	var bar *progressbar.ManualProgressBar
	if s.progress != nil {
		bar = progressbar.NewManualProgressBar(s.progress, progressBarWidth,
			s.config.TrainEpisodes)
		defer bar.Close()
	}

	s.bounces.Report() // Discard episodes from other phases
	every := s.config.ReportEvery
	for i := 1; i <= s.config.TrainEpisodes; i++ {
		if _, err := s.PlayEpisode(true); err != nil {
			return fmt.Errorf("train: %w", err)
		}
		s.trained++

		if s.checkpointer != nil {
			if err := s.checkpointer.Checkpoint(s.trained); err != nil {
				return fmt.Errorf("train: %w", err)
			}
		}

		if every > 0 && i%every == 0 && i != s.config.TrainEpisodes {
			if err := s.report(Training); err != nil {
				return fmt.Errorf("train: %w", err)
			}
		}

		if bar != nil {
			bar.Increment()
			bar.Display()
		}
	}

	if err := s.report(Training); err != nil {
		return fmt.Errorf("train: %w", err)
	}
	return nil
}

// Evaluate runs n episodes of the greedy policy without updating the
// utility table and returns their report
func (s *Session) Evaluate(n int) (tracker.Report, error) {
	log := s.log.WithField("phase", Evaluation)
	log.WithField("episodes", n).Info("evaluating")

	s.bounces.Report()
	for i := 0; i < n; i++ {
		if _, err := s.PlayEpisode(false); err != nil {
			return tracker.Report{}, fmt.Errorf("evaluate: %w", err)
		}
	}

	r := s.bounces.Report()
	if err := s.send(Evaluation, r); err != nil {
		return r, fmt.Errorf("evaluate: %w", err)
	}
	return r, nil
}

// Watch plays n evaluation episodes with all observers attached,
// waiting for the configured delays between steps and episodes
func (s *Session) Watch(n int) (tracker.Report, error) {
	log := s.log.WithField("phase", Visual)
	log.WithField("episodes", n).Info("watching")

	s.online.Attach(s.game, s.config.StepDelay, s.observers...)
	defer s.online.Detach()

	s.bounces.Report()
	for i := 0; i < n; i++ {
		if i > 0 && s.config.GameDelay > 0 {
			time.Sleep(s.config.GameDelay)
		}

		bounces, err := s.PlayEpisode(false)
		if err != nil {
			return tracker.Report{}, fmt.Errorf("watch: %w", err)
		}
		log.WithFields(logrus.Fields{
			"game":    i + 1,
			"bounces": bounces,
		}).Info("game over")
	}

	r := s.bounces.Report()
	if err := s.send(Visual, r); err != nil {
		return r, fmt.Errorf("watch: %w", err)
	}
	return r, nil
}

// Run trains the agent, evaluates it in the configured number of
// batches, and finally plays the visual trials if any observers were
// added
func (s *Session) Run() error {
	start := time.Now()
	s.logParameters()

	if err := s.Train(); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	for i := 0; i < s.config.EvalBatches; i++ {
		if _, err := s.Evaluate(s.config.EvalEpisodes); err != nil {
			return fmt.Errorf("run: %w", err)
		}
	}

	if len(s.observers) > 0 && s.config.VisualTrials > 0 {
		if _, err := s.Watch(s.config.VisualTrials); err != nil {
			return fmt.Errorf("run: %w", err)
		}
	}

	s.log.WithField("duration", time.Since(start).Truncate(time.Millisecond)).
		Info("run finished")
	return nil
}

// SaveData saves the per-episode bounce counts and episode lengths of
// every episode played so far
func (s *Session) SaveData(bouncesFile, lengthsFile string) error {
	if err := s.bounces.Save(bouncesFile); err != nil {
		return fmt.Errorf("saveData: %w", err)
	}
	if err := s.lengths.Save(lengthsFile); err != nil {
		return fmt.Errorf("saveData: %w", err)
	}
	return nil
}

// report sends the report of the current batch of episodes to all
// reporters
func (s *Session) report(phase Phase) error {
	r := s.bounces.Report()
	if phase == Training {
		r.BelowThreshold = s.BelowThreshold()
	}
	return s.send(phase, r)
}

func (s *Session) send(phase Phase, r tracker.Report) error {
	s.log.WithFields(logrus.Fields{
		"phase":    phase,
		"episodes": r.Episodes,
		"max":      r.Max,
		"mean":     r.Mean,
	}).Info("batch finished")

	for _, reporter := range s.reporters {
		if err := reporter.Report(phase, r); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}
	return nil
}

// logParameters logs the parameters of the run
func (s *Session) logParameters() {
	c := s.config
	s.log.WithFields(logrus.Fields{
		"resolution":    c.EnvConf.Resolution,
		"discount":      c.EnvConf.Discount,
		"episodeCutoff": c.EnvConf.EpisodeCutoff,
		"learningRate":  c.AgentConf.LearningRateConstant,
		"threshold":     c.AgentConf.ExplorationThreshold,
		"trainEpisodes": c.TrainEpisodes,
		"evalEpisodes":  c.EvalEpisodes,
		"states":        s.table.States(),
		"maxSpeed":      pong.MaxTolerableSpeed,
		"cappedSpeed":   pong.SpeedCap,
		"seed":          c.Seed,
	}).Info("parameters")
}
