package server

import (
	"github.com/tomz197/starfall/internal/audio"
	"github.com/tomz197/starfall/internal/input"
	"github.com/tomz197/starfall/internal/loop/config"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/physics"
)

// DefaultScreen is the logical play field.
var DefaultScreen = object.Screen{Width: config.CanvasWidth, Height: config.CanvasHeight}

// Game is one deterministic session: the store, the session counters and the
// collaborators every entry point needs. It is not safe for concurrent use.
type Game struct {
	store   *Store
	session Session
	env     Env
}

// NewGame creates a session on the default field.
func NewGame(r Rand, sink audio.Sink) *Game {
	return NewGameWithScreen(DefaultScreen, r, sink)
}

// NewGameWithScreen creates a session on a custom field.
func NewGameWithScreen(screen object.Screen, r Rand, sink audio.Sink) *Game {
	if sink == nil {
		sink = audio.Nop{}
	}
	return &Game{
		store:   NewStore(screen),
		session: NewSession(),
		env: Env{
			Screen: screen,
			Rand:   r,
			Sink:   sink,
			Grid:   physics.NewSpatialGrid(screen.W(), screen.H(), collisionGridCellSize),
		},
	}
}

// Tick runs one simulation step and reports whether the session is over.
func (g *Game) Tick(in input.Input) bool {
	g.session = Step(g.store, g.session, in, g.env)
	return g.session.Over
}

// SpawnWave runs the enemy spawn timer's action.
func (g *Game) SpawnWave() {
	if g.session.Over {
		return
	}
	NewSpawner(g.env.Screen, g.env.Rand).SpawnWave(g.store)
}

// Fire runs the player fire timer's action.
func (g *Game) Fire() {
	if g.session.Over {
		return
	}
	NewSpawner(g.env.Screen, g.env.Rand).Fire(g.store, g.session, g.env.Sink)
}

// Reset reinitializes the whole session.
func (g *Game) Reset() {
	g.store.Reset(g.env.Screen)
	g.session = NewSession()
}

// Over reports whether the session has ended.
func (g *Game) Over() bool { return g.session.Over }

// Session returns a copy of the session counters.
func (g *Game) Session() Session { return g.session }

// Store returns the entity store.
func (g *Game) Store() *Store { return g.store }

// Screen returns the play field.
func (g *Game) Screen() object.Screen { return g.env.Screen }
