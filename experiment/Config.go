package experiment

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/samuelfneumann/tdpong/agent/tabular/td"
	"github.com/samuelfneumann/tdpong/environment/envconfig"
)

// Config represents a configuration of an experiment. Configs are
// JSON serializable; durations are serialized in nanoseconds.
type Config struct {
	EnvConf   envconfig.Config
	AgentConf td.Config

	TrainEpisodes int
	EvalEpisodes  int // episodes per evaluation batch
	EvalBatches   int

	// ReportEvery is the number of training episodes summarized in
	// each training report. If 0, a single report is made after
	// training.
	ReportEvery int

	// VisualTrials is the number of evaluation episodes played with
	// observers attached
	VisualTrials int
	StepDelay    time.Duration // sleep after each observed step
	GameDelay    time.Duration // sleep between observed episodes

	// CheckpointEvery is the number of training episodes between
	// saves of the utility table to CheckpointDir. If 0, no
	// checkpoints are saved.
	CheckpointEvery int
	CheckpointDir   string

	Seed     uint64
	Progress bool // draw a progress bar while training
}

// DefaultConfig returns the default experiment configuration
func DefaultConfig() Config {
	return Config{
		EnvConf: envconfig.Default(),
		AgentConf: td.Config{
			LearningRateConstant: 100000,
			ExplorationThreshold: 20,
		},
		TrainEpisodes: 200000,
		EvalEpisodes:  1000,
		EvalBatches:   1,
		VisualTrials:  20,
		StepDelay:     50 * time.Millisecond,
		GameDelay:     2 * time.Second,
		CheckpointDir: ".",
	}
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if err := c.EnvConf.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if err := c.AgentConf.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	counts := []struct {
		name  string
		value int
	}{
		{"TrainEpisodes", c.TrainEpisodes},
		{"EvalEpisodes", c.EvalEpisodes},
		{"EvalBatches", c.EvalBatches},
		{"ReportEvery", c.ReportEvery},
		{"VisualTrials", c.VisualTrials},
		{"CheckpointEvery", c.CheckpointEvery},
	}
	for _, count := range counts {
		if count.value < 0 {
			return fmt.Errorf("validate: %v must be >= 0, have %v",
				count.name, count.value)
		}
	}

	if c.StepDelay < 0 || c.GameDelay < 0 {
		return fmt.Errorf("validate: delays must be >= 0")
	}
	return nil
}

// LoadConfig loads a JSON Config from filename. Fields missing from
// the file keep their default values.
func LoadConfig(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: could not read config: %w",
			err)
	}

	c := DefaultConfig()
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("loadConfig: could not decode config: %w",
			err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("loadConfig: %w", err)
	}
	return c, nil
}

// Save saves the Config as JSON to filename
func (c Config) Save(filename string) error {
	data, err := json.MarshalIndent(c, "", "\t")
	if err != nil {
		return fmt.Errorf("save: could not encode config: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("save: could not write config: %w", err)
	}
	return nil
}
