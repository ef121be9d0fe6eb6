// Package network serves game sessions to browsers over WebSocket.
package network

import (
	"github.com/tomz197/starfall/internal/audio"
	"github.com/tomz197/starfall/internal/input"
	"github.com/tomz197/starfall/internal/loop/server"
)

// Server message types.
const (
	TypeFrame    = "frame"
	TypeGameOver = "gameover"
)

// ClientMessage is sent by the browser whenever its key state changes.
// Mute toggles on every message that carries it.
type ClientMessage struct {
	Input   input.Input `json:"input"`
	Restart bool        `json:"restart,omitempty"`
}

// ServerMessage is sent to the browser once per frame, and once more on game over.
type ServerMessage struct {
	Type     string           `json:"type"`
	Snapshot *server.Snapshot `json:"snapshot,omitempty"`
	Sounds   []audio.Kind     `json:"sounds,omitempty"`
	Muted    bool             `json:"muted"`
	Score    int              `json:"score,omitempty"` // Final score on game over
}
