// Package report implements experiment.Reporters which display the
// bounce summaries of batches of episodes
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/samuelfneumann/tdpong/experiment"
	"github.com/samuelfneumann/tdpong/experiment/tracker"
)

const histogramWidth = 40

// Console writes each report as a coloured text histogram
type Console struct {
	out   io.Writer
	color aurora.Aurora
}

// NewConsole returns a new Console reporter writing to out. Colours
// are only used if colors is true.
func NewConsole(out io.Writer, colors bool) *Console {
	return &Console{out: out, color: aurora.NewAurora(colors)}
}

// Report writes the report r of a batch of episodes of phase
func (c *Console) Report(phase experiment.Phase, r tracker.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%v %v episodes\n",
		c.color.Bold(c.color.Cyan(strings.ToUpper(string(phase)))), r.Episodes)

	// Scale bars so that the most frequent bounce count fills the width
	most := 0
	for _, count := range r.Histogram {
		if count > most {
			most = count
		}
	}
	for bounces, count := range r.Histogram {
		if count == 0 {
			continue
		}
		width := count * histogramWidth / most
		if width == 0 {
			width = 1
		}
		fmt.Fprintf(&b, "%6v | %v %v\n", bounces,
			c.color.Green(strings.Repeat("█", width)), count)
	}

	fmt.Fprintf(&b, "max bounces: %v  mean bounces: %v\n",
		c.color.Yellow(r.Max), c.color.Yellow(fmt.Sprintf("%.3f", r.Mean)))
	if phase == experiment.Training {
		fmt.Fprintf(&b, "state-action pairs below threshold: %v\n",
			c.color.Magenta(r.BelowThreshold))
	}

	if _, err := io.WriteString(c.out, b.String()); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}
