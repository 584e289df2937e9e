// Package table implements a tabular state-action utility function
package table

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/samuelfneumann/tdpong/environment/pong"
	"github.com/samuelfneumann/tdpong/utils/matutils"
	"github.com/samuelfneumann/tdpong/utils/matutils/discretizer"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// TerminalUtility is the utility of every action in the terminal state
const TerminalUtility float64 = -1.0

// Entry is the utility estimate of one state-action pair together
// with the number of times the pair has been updated
type Entry struct {
	Utility  float64
	Attempts int
}

// Table stores an Entry for every state-action pair. Rows are states
// and columns are actions. The last row is the terminal state.
//
// All accessors panic if given a state or action outside the table.
type Table struct {
	utilities *mat.Dense
	attempts  []int
}

// New returns a zero-initialized Table with the argument number of
// states, the last of which is the terminal state
func New(states int) (*Table, error) {
	if states < 1 {
		return nil, fmt.Errorf("new: table must have at least 1 state, "+
			"have %v", states)
	}
	return &Table{
		utilities: mat.NewDense(states, pong.NumActions, nil),
		attempts:  make([]int, states*pong.NumActions),
	}, nil
}

// NewFromIndexer returns a zero-initialized Table holding one row for
// every index of ix
func NewFromIndexer(ix *discretizer.Indexer) (*Table, error) {
	return New(ix.Len())
}

// States returns the number of states in the table
func (t *Table) States() int {
	states, _ := t.utilities.Dims()
	return states
}

// Terminal returns the index of the terminal state
func (t *Table) Terminal() discretizer.StateIndex {
	return discretizer.StateIndex(t.States() - 1)
}

// Entry returns the entry for taking action a in state s
func (t *Table) Entry(s discretizer.StateIndex, a pong.Action) Entry {
	t.checkBounds(s, a)
	return Entry{
		Utility:  t.utilities.At(int(s), int(a)),
		Attempts: t.attempts[t.flat(s, a)],
	}
}

// Visit records one more attempt of action a in state s and returns
// the updated entry
func (t *Table) Visit(s discretizer.StateIndex, a pong.Action) Entry {
	t.checkBounds(s, a)
	t.attempts[t.flat(s, a)]++
	return t.Entry(s, a)
}

// SetUtility sets the utility of taking action a in state s
func (t *Table) SetUtility(s discretizer.StateIndex, a pong.Action,
	utility float64) {
	t.checkBounds(s, a)
	t.utilities.Set(int(s), int(a), utility)
}

// SetTerminal sets the utility of every action in the terminal state
// to TerminalUtility
func (t *Table) SetTerminal() {
	terminal := int(t.Terminal())
	for _, a := range pong.Actions {
		t.utilities.Set(terminal, int(a), TerminalUtility)
	}
}

// Best returns the maximum utility over all actions in state s
func (t *Table) Best(s discretizer.StateIndex) float64 {
	t.checkBounds(s, pong.Hold)
	return floats.Max(t.utilities.RawRowView(int(s)))
}

// Greedy returns the action of maximum utility in state s. Ties are
// broken in favour of the action with the lowest index.
func (t *Table) Greedy(s discretizer.StateIndex) pong.Action {
	t.checkBounds(s, pong.Hold)
	return pong.Action(matutils.MaxVec(t.utilities.RowView(int(s))))
}

// Below returns, in index order, the actions in state s attempted
// fewer than threshold times
func (t *Table) Below(s discretizer.StateIndex, threshold int) []pong.Action {
	t.checkBounds(s, pong.Hold)

	below := make([]pong.Action, 0, pong.NumActions)
	for _, a := range pong.Actions {
		if t.attempts[t.flat(s, a)] < threshold {
			below = append(below, a)
		}
	}
	return below
}

// NumBelow returns the number of actions in state s attempted fewer
// than threshold times
func (t *Table) NumBelow(s discretizer.StateIndex, threshold int) int {
	return len(t.Below(s, threshold))
}

// CountBelow returns the number of non-terminal state-action pairs
// attempted fewer than threshold times
func (t *Table) CountBelow(threshold int) int {
	count := 0
	for s := discretizer.StateIndex(0); s < t.Terminal(); s++ {
		count += t.NumBelow(s, threshold)
	}
	return count
}

// Utilities returns a copy of the utility matrix
func (t *Table) Utilities() *mat.Dense {
	return mat.DenseCopyOf(t.utilities)
}

// tableData is the serialized form of a Table
type tableData struct {
	Utilities []byte
	Attempts  []int
}

// GobEncode implements the gob.GobEncoder interface
func (t *Table) GobEncode() ([]byte, error) {
	utilities, err := t.utilities.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("gobEncode: could not marshal utilities: %w",
			err)
	}

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(tableData{utilities, t.attempts}); err != nil {
		return nil, fmt.Errorf("gobEncode: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface
func (t *Table) GobDecode(in []byte) error {
	var data tableData
	dec := gob.NewDecoder(bytes.NewReader(in))
	if err := dec.Decode(&data); err != nil {
		return fmt.Errorf("gobDecode: %w", err)
	}

	utilities := &mat.Dense{}
	if err := utilities.UnmarshalBinary(data.Utilities); err != nil {
		return fmt.Errorf("gobDecode: could not unmarshal utilities: %w",
			err)
	}

	states, actions := utilities.Dims()
	if actions != pong.NumActions || len(data.Attempts) != states*actions {
		return fmt.Errorf("gobDecode: table shape (%v, %v) with %v "+
			"attempt counts is invalid", states, actions, len(data.Attempts))
	}

	t.utilities = utilities
	t.attempts = data.Attempts
	return nil
}

// Save saves the table to a file
func (t *Table) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not create file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(t); err != nil {
		return fmt.Errorf("save: could not encode table: %w", err)
	}
	return nil
}

// Load loads a table saved with Save
func Load(filename string) (*Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("load: could not open file: %w", err)
	}
	defer file.Close()

	t := &Table{}
	if err := gob.NewDecoder(file).Decode(t); err != nil {
		return nil, fmt.Errorf("load: could not decode table: %w", err)
	}
	return t, nil
}

func (t *Table) flat(s discretizer.StateIndex, a pong.Action) int {
	return int(s)*pong.NumActions + int(a)
}

func (t *Table) checkBounds(s discretizer.StateIndex, a pong.Action) {
	if s < 0 || int(s) >= t.States() {
		panic(fmt.Sprintf("state index %v out of range [0, %v)", s,
			t.States()))
	}
	if !a.Valid() {
		panic(fmt.Sprintf("illegal action %v ∉ (0, 1, 2)", a))
	}
}
