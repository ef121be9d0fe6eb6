package object

// Projectile is a bullet travelling vertically. Player and enemy bullets share the shape.
type Projectile struct {
	ID ID
	X  float64
	Y  float64
	VY float64 // Units per tick, negative is up
}

// NewProjectile creates a projectile at (x,y) with vertical velocity vy.
// The ID is assigned when the projectile is stored.
func NewProjectile(x, y, vy float64) Projectile {
	return Projectile{X: x, Y: y, VY: vy}
}

// Advance moves the projectile by one tick.
func (p *Projectile) Advance() {
	p.Y += p.VY
}

// AboveTop reports whether a rising projectile has left the field.
func (p *Projectile) AboveTop() bool {
	return p.Y <= 0
}

// BelowBottom reports whether a falling projectile has left the field.
func (p *Projectile) BelowBottom(screen Screen) bool {
	return p.Y >= screen.H()
}
