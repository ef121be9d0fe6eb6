package object

import (
	"fmt"

	"github.com/tomz197/starfall/internal/loop/config"
)

// PowerKind identifies what a power-up grants.
type PowerKind int

const (
	PowerTripleShot PowerKind = iota
	PowerShield
)

// String returns the wire name of the kind.
func (k PowerKind) String() string {
	switch k {
	case PowerTripleShot:
		return "triple"
	case PowerShield:
		return "shield"
	default:
		return fmt.Sprintf("PowerKind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k PowerKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind by name.
func (k *PowerKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "triple":
		*k = PowerTripleShot
	case "shield":
		*k = PowerShield
	default:
		return fmt.Errorf("unknown power-up kind %q", text)
	}
	return nil
}

// PowerUp is a falling pickup.
type PowerUp struct {
	ID   ID
	X, Y float64
	Kind PowerKind
}

// NewPowerUp creates a power-up above the visible area at horizontal position x.
func NewPowerUp(x float64, kind PowerKind) PowerUp {
	return PowerUp{X: x, Y: config.PowerUpSpawnY, Kind: kind}
}

// Advance moves the power-up down by one tick.
func (p *PowerUp) Advance() {
	p.Y += config.PowerUpSpeed
}

// Escaped reports whether the power-up has left the bottom of the field.
func (p *PowerUp) Escaped(screen Screen) bool {
	return p.Y >= screen.H()
}
