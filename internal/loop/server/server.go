// Package server runs the simulation core of a session: the entity store,
// the spawner, the per-tick step and the real-time driver that schedules them.
package server

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/starfall/internal/audio"
	"github.com/tomz197/starfall/internal/input"
	"github.com/tomz197/starfall/internal/loop/config"
	"github.com/tomz197/starfall/internal/object"
)

// ErrSessionOver is returned by Run when the player ran out of lives.
var ErrSessionOver = errors.New("session over")

// GameServer is the interface frontends use to drive a session.
type GameServer interface {
	Run(ctx context.Context) error
	SendInput(in input.Input)
	Snapshot() *Snapshot
	Events() <-chan Event
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// Factory creates the driver of a new session.
type Factory func(Options) GameServer

// NewGameServer is the Factory for Server.
func NewGameServer(opts Options) GameServer {
	return NewServer(opts)
}

// EventType identifies a session notification.
type EventType int

const (
	EventGameOver EventType = iota
)

// Event is a notification sent from the driver to its frontend.
type Event struct {
	Type  EventType
	Score int // Final score for EventGameOver
}

// Options configures a Server. Zero values select the defaults from loop/config.
type Options struct {
	TickRate      int           // Simulation ticks per second
	Seed          int64         // Random seed; 0 picks one from the clock
	Screen        object.Screen // Play field
	Sink          audio.Sink
	Logger        *log.Logger
	SpawnInterval time.Duration
	FireInterval  time.Duration
	MusicDelay    time.Duration
}

func (o Options) withDefaults() Options {
	if o.TickRate <= 0 {
		o.TickRate = config.DefaultTickRate
	}
	if o.TickRate > config.MaxTickRate {
		o.TickRate = config.MaxTickRate
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	if o.Screen.Width <= 0 || o.Screen.Height <= 0 {
		o.Screen = DefaultScreen
	}
	if o.Sink == nil {
		o.Sink = audio.Nop{}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.SpawnInterval <= 0 {
		o.SpawnInterval = config.EnemySpawnInterval
	}
	if o.FireInterval <= 0 {
		o.FireInterval = config.FireInterval
	}
	if o.MusicDelay <= 0 {
		o.MusicDelay = config.MusicDelay
	}
	return o
}

// Server drives one session in real time. All mutation happens on the
// goroutine running Run; other goroutines only send input and read snapshots.
type Server struct {
	opts     Options
	game     *Game
	logger   *log.Logger
	snapshot atomic.Pointer[Snapshot]
	inputCh  chan input.Input
	events   chan Event
	held     input.Input // Latest input, sampled once per tick
}

// NewServer creates a server with a fresh session. A new session needs a new server.
func NewServer(opts Options) *Server {
	opts = opts.withDefaults()
	rng := rand.New(rand.NewSource(opts.Seed))

	s := &Server{
		opts:    opts,
		game:    NewGameWithScreen(opts.Screen, rng, opts.Sink),
		logger:  opts.Logger,
		inputCh: make(chan input.Input, 64),
		events:  make(chan Event, 1),
	}
	s.publish()
	return s
}

// Run starts the session loop. Blocks until the session ends (ErrSessionOver)
// or the context is cancelled. The events channel is closed on return.
func (s *Server) Run(ctx context.Context) error {
	defer close(s.events)

	frame := time.NewTicker(time.Second / time.Duration(s.opts.TickRate))
	defer frame.Stop()
	spawn := time.NewTicker(s.opts.SpawnInterval)
	defer spawn.Stop()
	fire := time.NewTicker(s.opts.FireInterval)
	defer fire.Stop()
	music := time.NewTimer(s.opts.MusicDelay)
	defer music.Stop()

	s.logger.Info("session started", "tickRate", s.opts.TickRate, "seed", s.opts.Seed)
	s.opts.Sink.Play(audio.Start)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session cancelled", "score", s.game.Session().Score)
			return ctx.Err()
		case in := <-s.inputCh:
			s.held = in
		case <-spawn.C:
			s.game.SpawnWave()
		case <-fire.C:
			s.game.Fire()
		case <-music.C:
			s.opts.Sink.Play(audio.MusicStart)
		case <-frame.C:
			if s.tick() {
				return s.finish()
			}
		}
	}
}

// tick drains pending input, runs one step and publishes the result.
func (s *Server) tick() bool {
	s.collectInputs()

	hadBoss := s.game.Store().Boss() != nil
	over := s.game.Tick(s.held)
	if !hadBoss && s.game.Store().Boss() != nil {
		s.logger.Info("boss arrived", "score", s.game.Session().Score)
	}

	s.publish()
	return over
}

// finish stops the music and notifies the frontend with the final score.
func (s *Server) finish() error {
	score := s.game.Session().Score
	s.opts.Sink.Play(audio.MusicStop)
	s.logger.Info("session over", "score", score, "ticks", s.game.Session().Tick)

	select {
	case s.events <- Event{Type: EventGameOver, Score: score}:
	default:
	}
	return ErrSessionOver
}

// collectInputs keeps only the most recent pending input.
func (s *Server) collectInputs() {
	for {
		select {
		case in := <-s.inputCh:
			s.held = in
		default:
			return
		}
	}
}

// publish stores an immutable snapshot for readers.
func (s *Server) publish() {
	s.snapshot.Store(s.game.Snapshot())
}

// SendInput hands the current held-key state to the driver. Never blocks.
func (s *Server) SendInput(in input.Input) {
	select {
	case s.inputCh <- in:
	default:
		s.logger.Debug("input dropped")
	}
}

// Snapshot returns the latest published snapshot.
func (s *Server) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Events returns the notification channel. It is closed when Run returns.
func (s *Server) Events() <-chan Event {
	return s.events
}
