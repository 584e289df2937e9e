package pong

// Snapshot is a copy of the continuous state of a Pong environment
// after some step of an episode
type Snapshot struct {
	X, Y                 float64
	XVelocity, YVelocity float64
	Paddle               float64
	Bounces              int
	GameOver             bool
	Step                 int
}
