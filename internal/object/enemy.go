package object

import "github.com/tomz197/starfall/internal/loop/config"

// Enemy is a square that falls from above the field.
type Enemy struct {
	ID   ID
	X, Y float64 // Top-left corner
	Size float64
	HP   int
}

// NewEnemy creates an enemy above the visible area at horizontal position x.
func NewEnemy(x float64) Enemy {
	return Enemy{
		X:    x,
		Y:    config.EnemySpawnY,
		Size: config.EnemySize,
		HP:   config.EnemyHP,
	}
}

// Advance moves the enemy down by one tick.
func (e *Enemy) Advance() {
	e.Y += config.EnemySpeed
}

// Escaped reports whether the enemy has left the bottom of the field.
func (e *Enemy) Escaped(screen Screen) bool {
	return e.Y >= screen.H()
}

// Box returns the enemy's collision box.
func (e *Enemy) Box() Box {
	return Box{X: e.X, Y: e.Y, W: e.Size, H: e.Size}
}

// Muzzle returns the point enemy bullets are fired from.
func (e *Enemy) Muzzle() (float64, float64) {
	return e.X, e.Y
}
