// Package checkpointer implements periodic saving of serializable
// objects during an experiment
package checkpointer

import "encoding/gob"

// Serializable is an object that can be saved/serialized
type Serializable interface {
	gob.GobEncoder
	gob.GobDecoder
	Save(filename string) error
}

// Checkpointer checkpoints/saves serializable objects based on the
// number of finished episodes
type Checkpointer interface {
	Checkpoint(episode int) error
}
