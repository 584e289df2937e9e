// Package pong implements a single-player ball-and-paddle environment
// on the unit square
package pong

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	env "github.com/samuelfneumann/tdpong/environment"
	ts "github.com/samuelfneumann/tdpong/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// Board and paddle geometry, as fractions of the board side
	PaddleHeight float64 = 0.2
	PaddleStep   float64 = 0.04
	MaxPaddle    float64 = 1 - PaddleHeight

	// Bounce randomization. After a paddle hit the x velocity is
	// redrawn with jitter in [-XJitter, XJitter] until its magnitude
	// exceeds MinBounceXSpeed. The y velocity is redrawn once with
	// jitter in [-YJitter, YJitter].
	XJitter         float64 = 0.015
	YJitter         float64 = 0.03
	MinBounceXSpeed float64 = 0.03

	// A velocity whose magnitude reaches MaxTolerableSpeed is capped
	// to SpeedCap, keeping its sign
	MaxTolerableSpeed float64 = 1.0
	SpeedCap          float64 = 0.9

	// Default starting state
	StartX         float64 = 0.5
	StartY         float64 = 0.5
	StartXVelocity float64 = 0.03
	StartYVelocity float64 = 0.01
	StartPaddle    float64 = 0.5 - PaddleHeight/2

	// Observation layout
	ObservationDims int = 5
	ActionDims      int = 1
)

// Indices of the features in an observation vector
const (
	XIndex int = iota
	YIndex
	XVelocityIndex
	YVelocityIndex
	PaddleIndex
)

// Pong implements a ball bouncing inside the unit square with a paddle
// on the x = 1 wall. The ball reflects off the walls at y = 0, y = 1,
// and x = 0. When the ball crosses x = 1 moving towards the paddle, it
// either hits the paddle, which returns it with a randomized velocity,
// or misses it, which ends the game.
//
// Observations are continuous and consist of, in order, the ball's x
// position, y position, x velocity, y velocity, and the paddle's
// position (the y coordinate of its lower edge). The paddle position
// is always in [0, 1 - PaddleHeight].
//
// Actions are discrete:
//
//	Action	Meaning
//	  0		Move paddle up
//	  1		Move paddle down
//	  2		Hold
//
// Illegal actions will cause the environment to panic.
//
// Pong is renderer-agnostic. Collaborators that need the continuous
// state read it through Snapshot() after a step; nothing they do feeds
// back into the simulation.
type Pong struct {
	env.Task
	discount float64

	x, y                 float64
	xVelocity, yVelocity float64
	paddle               float64
	bounces              int
	gameOver             bool

	xJitter distuv.Uniform
	yJitter distuv.Uniform

	currentStep ts.TimeStep
}

// New constructs a new Pong environment. Starting states are drawn
// from the Task, and all randomness of ball bounces is drawn from src.
func New(t env.Task, discount float64, src rand.Source) (*Pong, ts.TimeStep,
	error) {
	if discount < 0 || discount > 1 {
		return nil, ts.TimeStep{}, fmt.Errorf("new: discount must be in "+
			"[0, 1], have %v", discount)
	}

	p := &Pong{
		Task:     t,
		discount: discount,
		xJitter:  distuv.Uniform{Min: -XJitter, Max: XJitter, Src: src},
		yJitter:  distuv.Uniform{Min: -YJitter, Max: YJitter, Src: src},
	}

	step, err := p.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}
	return p, step, nil
}

// Reset starts a new episode from a starting state drawn from the
// Task. All ball, paddle, and score state of the previous episode is
// discarded.
func (p *Pong) Reset() (ts.TimeStep, error) {
	state := p.Start()
	if err := validateState(state); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	p.x, p.y = state.AtVec(XIndex), state.AtVec(YIndex)
	p.xVelocity = state.AtVec(XVelocityIndex)
	p.yVelocity = state.AtVec(YVelocityIndex)
	p.paddle = state.AtVec(PaddleIndex)
	p.bounces = 0
	p.gameOver = false

	p.currentStep = ts.New(ts.First, 0, p.discount, p.observation(), 0)
	return p.currentStep, nil
}

// Step takes one environmental step given action a and returns the
// next timestep, whether the episode has ended, and an error if the
// episode has already ended. A step applies the paddle action, moves
// the ball, and then resolves a paddle hit or miss.
func (p *Pong) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if p.currentStep.Last() {
		return ts.TimeStep{}, true, fmt.Errorf("step: cannot step in " +
			"an episode that has ended, call Reset first")
	}

	if !p.ActionSpec().Contains(a) {
		panic(fmt.Sprintf("step: illegal action %v", mat.Formatted(a.T())))
	}

	p.Apply(Action(a.AtVec(0)))
	p.MoveBall()

	event := ts.NoEvent
	hit := p.CheckHit()
	missed := p.CheckMiss()
	if hit {
		event = ts.Hit
	} else if missed {
		event = ts.Miss
	}

	nextStep := ts.New(ts.Mid, p.GetReward(event), p.discount,
		p.observation(), p.currentStep.Number+1)
	nextStep.Event = event

	// Check if the step ends the episode
	p.End(&nextStep)

	p.currentStep = nextStep
	return nextStep, nextStep.Last(), nil
}

// Apply applies a paddle action without moving the ball
func (p *Pong) Apply(a Action) {
	switch a {
	case Up:
		p.MovePaddleUp()
	case Down:
		p.MovePaddleDown()
	case Hold:
	default:
		panic(fmt.Sprintf("illegal action %v ∉ (0, 1, 2)", a))
	}
}

// MoveBall advances the ball by one tick and reflects it off the
// walls at y = 0, y = 1, and x = 0. The ball is not reflected at
// x = 1; that is resolved by CheckHit and CheckMiss.
func (p *Pong) MoveBall() {
	p.x += p.xVelocity
	p.y += p.yVelocity

	if p.y <= 0 || p.y >= 1 {
		if p.y <= 0 {
			p.y = -p.y
		} else {
			p.y = 2 - p.y
		}
		p.yVelocity = -p.yVelocity
	}

	if p.x <= 0 {
		p.x = -p.x
		p.xVelocity = -p.xVelocity
	}
}

// CheckHit returns whether the ball has reached the paddle wall while
// moving towards it and is within the paddle's extent. On a hit, the
// ball is reflected back onto the board, its velocity is randomized,
// and the bounce counter is incremented.
func (p *Pong) CheckHit() bool {
	if !p.atPaddleWall() || !p.withinPaddle() {
		return false
	}

	p.x = 2 - p.x
	p.xVelocity = p.newXVelocity(p.xVelocity)
	p.yVelocity = p.newYVelocity(p.yVelocity)
	p.bounces++

	return true
}

// CheckMiss returns whether the ball has reached the paddle wall while
// moving towards it and is outside the paddle's extent. A miss ends
// the game.
func (p *Pong) CheckMiss() bool {
	if !p.atPaddleWall() || p.withinPaddle() {
		return false
	}

	p.gameOver = true
	return true
}

// MovePaddleUp moves the paddle up by PaddleStep. A paddle that
// cannot move up a full step without leaving the board wraps to 0.
func (p *Pong) MovePaddleUp() {
	if p.paddle <= MaxPaddle-PaddleStep {
		p.paddle += PaddleStep
	} else {
		p.paddle = 0
	}
}

// MovePaddleDown moves the paddle down by PaddleStep. A paddle that
// cannot move down a full step without leaving the board wraps to
// MaxPaddle.
func (p *Pong) MovePaddleDown() {
	if p.paddle >= PaddleStep {
		p.paddle -= PaddleStep
	} else {
		p.paddle = MaxPaddle
	}
}

// Bounces returns the number of paddle hits in the current episode
func (p *Pong) Bounces() int {
	return p.bounces
}

// GameOver returns whether the ball has been missed
func (p *Pong) GameOver() bool {
	return p.gameOver
}

// CurrentTimeStep returns the last TimeStep that occurred in the
// environment
func (p *Pong) CurrentTimeStep() ts.TimeStep {
	return p.currentStep
}

// Snapshot returns a copy of the continuous state of the environment
func (p *Pong) Snapshot() Snapshot {
	return Snapshot{
		X:         p.x,
		Y:         p.y,
		XVelocity: p.xVelocity,
		YVelocity: p.yVelocity,
		Paddle:    p.paddle,
		Bounces:   p.bounces,
		GameOver:  p.gameOver,
		Step:      p.currentStep.Number,
	}
}

// ActionSpec returns the action specification of the environment
func (p *Pong) ActionSpec() env.Spec {
	lowerBound := mat.NewVecDense(ActionDims, []float64{float64(Up)})
	upperBound := mat.NewVecDense(ActionDims, []float64{float64(Hold)})

	return env.NewSpec(ActionDims, env.Action, lowerBound, upperBound,
		env.Discrete)
}

// ObservationSpec returns the observation specification of the
// environment. The x position is bounded above by 1 + SpeedCap, since
// the ball is only reflected at x = 1 after crossing it.
func (p *Pong) ObservationSpec() env.Spec {
	lowerBound := mat.NewVecDense(ObservationDims, []float64{
		0, 0, -SpeedCap, -SpeedCap, 0,
	})
	upperBound := mat.NewVecDense(ObservationDims, []float64{
		1 + SpeedCap, 1, SpeedCap, SpeedCap, MaxPaddle,
	})

	return env.NewSpec(ObservationDims, env.Observation, lowerBound,
		upperBound, env.Continuous)
}

// DiscountSpec returns the discounting specification of the environment
func (p *Pong) DiscountSpec() env.Spec {
	lowerBound := mat.NewVecDense(1, []float64{p.discount})
	upperBound := mat.NewVecDense(1, []float64{p.discount})

	return env.NewSpec(1, env.Discount, lowerBound, upperBound,
		env.Continuous)
}

func (p *Pong) String() string {
	msg := "Pong  |  Ball: (%.3f, %.3f)  |  Velocity: (%.3f, %.3f)  |  " +
		"Paddle: %.2f  |  Bounces: %v"

	return fmt.Sprintf(msg, p.x, p.y, p.xVelocity, p.yVelocity, p.paddle,
		p.bounces)
}

// atPaddleWall returns whether the ball has crossed x = 1 moving
// towards the paddle
func (p *Pong) atPaddleWall() bool {
	return p.x >= 1 && p.xVelocity > 0
}

// withinPaddle returns whether the ball's y position is within the
// paddle's extent
func (p *Pong) withinPaddle() bool {
	return p.y >= p.paddle && p.y <= p.paddle+PaddleHeight
}

// newXVelocity reverses the x velocity and adds jitter, redrawing until
// the new speed exceeds MinBounceXSpeed
func (p *Pong) newXVelocity(previous float64) float64 {
	v := -previous + p.xJitter.Rand()
	for math.Abs(v) <= MinBounceXSpeed {
		v = -previous + p.xJitter.Rand()
	}
	return capSpeed(v)
}

// newYVelocity reverses the y velocity and adds jitter
func (p *Pong) newYVelocity(previous float64) float64 {
	return capSpeed(-previous + p.yJitter.Rand())
}

func (p *Pong) observation() *mat.VecDense {
	obs := make([]float64, ObservationDims)
	obs[XIndex] = p.x
	obs[YIndex] = p.y
	obs[XVelocityIndex] = p.xVelocity
	obs[YVelocityIndex] = p.yVelocity
	obs[PaddleIndex] = p.paddle

	return mat.NewVecDense(ObservationDims, obs)
}

// capSpeed caps a velocity component whose magnitude reaches
// MaxTolerableSpeed to SpeedCap, keeping its sign
func capSpeed(v float64) float64 {
	if math.Abs(v) < MaxTolerableSpeed {
		return v
	}
	if v > 0 {
		return SpeedCap
	}
	return -SpeedCap
}

// validateState ensures that a starting state is on the board and that
// the ball can always be returned with the minimum bounce speed
func validateState(obs mat.Vector) error {
	if obs.Len() != ObservationDims {
		return fmt.Errorf("state should have %v features, have %v",
			ObservationDims, obs.Len())
	}

	x, y := obs.AtVec(XIndex), obs.AtVec(YIndex)
	if x < 0 || x > 1 || y < 0 || y > 1 {
		return fmt.Errorf("ball position (%v, %v) is not on the board", x, y)
	}

	paddle := obs.AtVec(PaddleIndex)
	if paddle < 0 || paddle > MaxPaddle {
		return fmt.Errorf("paddle position %v is not within [0, %v]",
			paddle, MaxPaddle)
	}

	xVelocity := math.Abs(obs.AtVec(XVelocityIndex))
	if xVelocity <= XJitter || xVelocity >= MaxTolerableSpeed {
		return fmt.Errorf("x speed %v is not within (%v, %v)", xVelocity,
			XJitter, MaxTolerableSpeed)
	}

	yVelocity := math.Abs(obs.AtVec(YVelocityIndex))
	if yVelocity >= MaxTolerableSpeed {
		return fmt.Errorf("y speed %v is not below %v", yVelocity,
			MaxTolerableSpeed)
	}

	return nil
}
