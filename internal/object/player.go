package object

import (
	"math"

	"github.com/tomz197/starfall/internal/loop/config"
	"github.com/tomz197/starfall/internal/physics"
)

// Player is the avatar at the bottom of the field. Only X changes during a session.
type Player struct {
	X, Y  float64 // Center
	Size  float64
	Speed float64 // Units per tick
}

// NewPlayer places the player horizontally centered near the bottom edge.
func NewPlayer(screen Screen) *Player {
	return &Player{
		X:     screen.W() / 2,
		Y:     screen.H() - config.PlayerBottomOffset,
		Size:  config.PlayerSize,
		Speed: config.PlayerSpeed,
	}
}

// Move applies held left/right input and clamps X into [0, width].
// A position corrupted to NaN snaps back to the center.
func (p *Player) Move(in Input, screen Screen) {
	if math.IsNaN(p.X) {
		p.X = screen.W() / 2
	}
	if in.Left {
		p.X -= p.Speed
	}
	if in.Right {
		p.X += p.Speed
	}
	p.X = physics.Clamp(p.X, 0, screen.W())
}

// GetPosition returns the player's center position.
func (p *Player) GetPosition() (float64, float64) {
	return p.X, p.Y
}
