// Package render draws snapshots of the ball-and-paddle environment
package render

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/samuelfneumann/tdpong/environment/pong"
)

// BallRadius is the radius of the ball as a fraction of the frame size
const BallRadius float64 = 0.015

// Frames draws every snapshot it observes as a PNG image in a
// directory. Frames are named by game and step number, for example
// game-002-step-000031.png. Games are counted from the snapshots of
// their first step.
//
// Since observers cannot return errors, the first error encountered
// while saving a frame is recorded and returned by Err, after which
// no more frames are saved.
type Frames struct {
	dir  string
	size int
	game int
	err  error

	background color.Color
	ball       color.Color
	paddle     color.Color
	text       color.Color
}

// NewFrames returns a new Frames saving size x size images to dir
func NewFrames(dir string, size int) (*Frames, error) {
	if size < 1 {
		return nil, fmt.Errorf("newFrames: size must be >= 1, have %v", size)
	}
	return &Frames{
		dir:        dir,
		size:       size,
		background: color.Black,
		ball:       color.White,
		paddle:     color.RGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff},
		text:       color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff},
	}, nil
}

// OnStep draws and saves the snapshot s
func (f *Frames) OnStep(s pong.Snapshot) {
	if f.err != nil {
		return
	}
	if s.Step <= 1 {
		f.game++
	}

	name := fmt.Sprintf("game-%03d-step-%06d.png", f.game, s.Step)
	if err := f.Draw(s).SavePNG(filepath.Join(f.dir, name)); err != nil {
		f.err = fmt.Errorf("onStep: could not save frame: %w", err)
	}
}

// Draw draws the snapshot s
func (f *Frames) Draw(s pong.Snapshot) *gg.Context {
	size := float64(f.size)
	dc := gg.NewContext(f.size, f.size)

	dc.SetColor(f.background)
	dc.Clear()

	// The paddle lies along the right wall, x = 1
	paddleWidth := size * 0.01
	dc.DrawRectangle(size-paddleWidth, s.Paddle*size, paddleWidth,
		pong.PaddleHeight*size)
	dc.SetColor(f.paddle)
	dc.Fill()

	if !s.GameOver {
		dc.DrawCircle(s.X*size, s.Y*size, BallRadius*size)
		dc.SetColor(f.ball)
		dc.Fill()
	}

	dc.SetColor(f.text)
	dc.DrawString(fmt.Sprintf("bounces: %v", s.Bounces), 5, 15)

	return dc
}

// Games returns the number of games drawn
func (f *Frames) Games() int {
	return f.game
}

// Err returns the first error encountered while saving frames
func (f *Frames) Err() error {
	return f.err
}
