package checkpointer

import "fmt"

// nStep implements checkpointing every N episodes
type nStep struct {
	interval int
	object   Serializable // Object to save

	// filename returns the string filename of the file to save the object
	// in.
	//
	// If each serialized object should be saved in a separate file with
	// each file having an incremented number as a suffix (e.g.
	// file1.gob, file2.gob, ..., fileK.gob), then simply use the
	// static function FilenameEnumerator, which will return a function
	// that will enumerate filenames.
	filename func() string
}

// NewNStep returns a checkpointer that checkpoints every n episodes
func NewNStep(n int, object Serializable,
	filename func() string) (Checkpointer, error) {
	if n < 1 {
		return nil, fmt.Errorf("newNStep: interval must be >= 1, have %v", n)
	}
	return &nStep{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint checkpoints the Checkpointer's tracked object by calling
// its Save() method if episode is a multiple of the interval
func (n *nStep) Checkpoint(episode int) error {
	if episode > 0 && episode%n.interval == 0 {
		if err := n.object.Save(n.filename()); err != nil {
			return fmt.Errorf("checkpoint: %w", err)
		}
	}
	return nil
}
