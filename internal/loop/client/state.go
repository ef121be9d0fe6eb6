package client

import (
	"time"

	"github.com/tomz197/starfall/internal/input"
)

// Screen is the frontend phase.
type Screen int

const (
	ScreenTitle    Screen = iota // Title and controls
	ScreenPlaying                // A session is running
	ScreenGameOver               // Final score, SPACE starts a new session
)

// State holds the per-connection frontend state.
type State struct {
	Input       input.Input
	Screen      Screen
	prevScreen  Screen
	FinalScore  int
	Running     bool
	Sessions    int // Sessions started on this connection
	isInactive  bool
	wasInactive bool
	lastInput   time.Time
}

// NewState creates the state of a fresh connection.
func NewState(now time.Time) *State {
	return &State{
		Screen:     ScreenTitle,
		prevScreen: ScreenTitle,
		Running:    true,
		lastInput:  now,
	}
}
