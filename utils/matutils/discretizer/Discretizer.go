// Package discretizer implements a closed-form bijection between
// discrete ball-and-paddle states and dense integer indices.
//
// A discrete state consists of the ball's row and column on an M x M
// grid, the sign of the ball's x velocity, the sign (or absence) of the
// ball's y velocity, and the paddle's bucket on an M-bucket grid. There
// are therefore M·M·2·3·M non-terminal states. States are packed in
// mixed-radix, row-major order:
//
//	index = (row·M + column)·6M + (xBit·3 + (ySign+1))·M + paddle
//
// where xBit is 0 for a ball moving away from the paddle and 1 for a
// ball moving towards it. One extra index, one past the last packed
// index, is reserved for the absorbing terminal state.
package discretizer

import "fmt"

// Velocity signs
const (
	Away    int = -1 // x velocity away from the paddle
	Towards int = 1  // x velocity towards the paddle

	Up   int = -1 // y velocity towards y = 0
	Flat int = 0  // little or no y velocity
	Down int = 1  // y velocity towards y = 1
)

// velocityCombinations is the number of (x sign, y sign) pairs
const velocityCombinations = 6

// StateIndex is the index of a discrete state in a utility table
type StateIndex int

// State is a discretized ball-and-paddle state
type State struct {
	Row       int
	Column    int
	XVelocity int // Away or Towards
	YVelocity int // Up, Flat, or Down
	Paddle    int
}

func (s State) String() string {
	return fmt.Sprintf("State | Row: %v  |  Column: %v  |  XVelocity: %v  "+
		"|  YVelocity: %v  |  Paddle: %v", s.Row, s.Column, s.XVelocity,
		s.YVelocity, s.Paddle)
}

// Indexer maps discrete states to indices and back for a fixed
// resolution M
type Indexer struct {
	resolution int
}

// NewIndexer returns a new Indexer for resolution m. The resolution
// must be at least 1.
func NewIndexer(m int) (*Indexer, error) {
	if m < 1 {
		return nil, fmt.Errorf("newIndexer: resolution must be >= 1, "+
			"have %v", m)
	}
	return &Indexer{m}, nil
}

// Resolution returns the number of rows, columns, and paddle buckets
func (ix *Indexer) Resolution() int {
	return ix.resolution
}

// Terminal returns the index reserved for the terminal state
func (ix *Indexer) Terminal() StateIndex {
	m := ix.resolution
	return StateIndex(m * m * velocityCombinations * m)
}

// Len returns the total number of indices, including the terminal
// index
func (ix *Indexer) Len() int {
	return int(ix.Terminal()) + 1
}

// Valid returns whether s is a state of this Indexer's grid
func (ix *Indexer) Valid(s State) bool {
	m := ix.resolution
	inGrid := func(v int) bool { return v >= 0 && v < m }

	validX := s.XVelocity == Away || s.XVelocity == Towards
	validY := s.YVelocity >= Up && s.YVelocity <= Down

	return inGrid(s.Row) && inGrid(s.Column) && inGrid(s.Paddle) &&
		validX && validY
}

// Index returns the index of a discrete state. Index panics if the
// state is not on the Indexer's grid.
func (ix *Indexer) Index(s State) StateIndex {
	if !ix.Valid(s) {
		panic(fmt.Sprintf("index: state out of range for resolution %v: %v",
			ix.resolution, s))
	}
	m := ix.resolution

	xBit := 0
	if s.XVelocity == Towards {
		xBit = 1
	}
	yBit := s.YVelocity + 1

	board := (s.Row*m + s.Column) * velocityCombinations * m
	trajectory := (xBit*3 + yBit) * m

	return StateIndex(board + trajectory + s.Paddle)
}

// State returns the discrete state with index i. An error is returned
// if i is the terminal index or is out of range.
func (ix *Indexer) State(i StateIndex) (State, error) {
	if i == ix.Terminal() {
		return State{}, fmt.Errorf("state: index %v is terminal", i)
	}
	if i < 0 || i > ix.Terminal() {
		return State{}, fmt.Errorf("state: index %v out of range [0, %v)",
			i, ix.Terminal())
	}
	m := ix.resolution
	rem := int(i)

	paddle := rem % m
	rem /= m

	trajectory := rem % velocityCombinations
	rem /= velocityCombinations

	column := rem % m
	row := rem / m

	xVelocity := Away
	if trajectory/3 == 1 {
		xVelocity = Towards
	}
	yVelocity := trajectory%3 - 1

	return State{
		Row:       row,
		Column:    column,
		XVelocity: xVelocity,
		YVelocity: yVelocity,
		Paddle:    paddle,
	}, nil
}
