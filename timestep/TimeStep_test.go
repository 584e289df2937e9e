package timestep

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndType(t *testing.T) {
	step := New(Mid, 0, 1, nil, 4)
	assert.Equal(t, Unknown, step.EndType())
	assert.False(t, step.Terminal())
	assert.Panics(t, func() { step.SetEnd(TerminalStateReached) })

	step.StepType = Last
	step.SetEnd(Timeout)
	assert.Equal(t, Timeout, step.EndType())
	assert.False(t, step.Terminal())

	step.SetEnd(TerminalStateReached)
	assert.True(t, step.Terminal())
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "Hit", Hit.String())
	assert.Equal(t, "Miss", Miss.String())
	assert.Equal(t, "None", NoEvent.String())
	assert.Equal(t, "Last", Last.String())
	assert.Equal(t, "TerminalStateReached", TerminalStateReached.String())
}
