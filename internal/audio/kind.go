// Package audio carries fire-and-forget sound events from the simulation to a playback backend.
package audio

import "fmt"

// Kind identifies a sound event.
type Kind int

const (
	Shoot Kind = iota
	Explosion
	Pickup
	Start
	GameOver
	MusicStart
	MusicStop
)

// Kinds lists every sound kind.
var Kinds = []Kind{Shoot, Explosion, Pickup, Start, GameOver, MusicStart, MusicStop}

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case Shoot:
		return "shoot"
	case Explosion:
		return "explosion"
	case Pickup:
		return "pickup"
	case Start:
		return "start"
	case GameOver:
		return "gameover"
	case MusicStart:
		return "music-start"
	case MusicStop:
		return "music-stop"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind by name.
func (k *Kind) UnmarshalText(text []byte) error {
	for _, kind := range Kinds {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown sound kind %q", text)
}

// Sink receives sound events. Play must never block the caller;
// overlapping instances of the same kind are expected.
type Sink interface {
	Play(k Kind)
}

// Nop discards every event.
type Nop struct{}

// Play implements Sink.
func (Nop) Play(Kind) {}
