// Package object defines the entities of a session and how each of them moves.
package object

import (
	"github.com/tomz197/starfall/internal/input"
	"github.com/tomz197/starfall/internal/physics"
)

// Input is an alias for the input package's Input type.
type Input = input.Input

// ID identifies a stored entity. IDs are unique within one store and never reused.
type ID uint64

// Screen represents the logical play field dimensions.
type Screen struct {
	Width  int
	Height int
}

// W returns the width as a float for position math.
func (s Screen) W() float64 { return float64(s.Width) }

// H returns the height as a float for position math.
func (s Screen) H() float64 { return float64(s.Height) }

// Box is an axis-aligned rectangle with its top-left corner at (X, Y).
type Box struct {
	X, Y float64
	W, H float64
}

// Contains reports whether the point lies strictly inside the box.
func (b Box) Contains(px, py float64) bool {
	return physics.PointInRect(px, py, b.X, b.Y, b.W, b.H)
}

// Center returns the center point of the box.
func (b Box) Center() (float64, float64) {
	return b.X + b.W/2, b.Y + b.H/2
}
