package object

import "github.com/tomz197/starfall/internal/loop/config"

// Boss patrols horizontally near the top of the field.
type Boss struct {
	X, Y float64 // Top-left corner
	W, H float64
	HP   int
	Dir  float64 // +1 moving right, -1 moving left
}

// NewBoss creates a boss centered horizontally near the top, moving right.
func NewBoss(screen Screen) *Boss {
	return &Boss{
		X:   (screen.W() - config.BossWidth) / 2,
		Y:   config.BossY,
		W:   config.BossWidth,
		H:   config.BossHeight,
		HP:  config.BossHP,
		Dir: 1,
	}
}

// Patrol moves the boss one step and reflects it off either side of the field.
func (b *Boss) Patrol(screen Screen) {
	b.X += config.BossStep * b.Dir
	if b.X < 0 {
		b.X = 0
		b.Dir = 1
	} else if b.X+b.W > screen.W() {
		b.X = screen.W() - b.W
		b.Dir = -1
	}
}

// Box returns the boss's collision box.
func (b *Boss) Box() Box {
	return Box{X: b.X, Y: b.Y, W: b.W, H: b.H}
}

// Muzzle returns the point boss bullets are fired from.
func (b *Boss) Muzzle() (float64, float64) {
	return b.X + b.W/2, b.Y
}

// Hit removes one hit point and reports whether the boss is destroyed.
func (b *Boss) Hit() bool {
	if b.HP > 0 {
		b.HP--
	}
	return b.HP <= 0
}
