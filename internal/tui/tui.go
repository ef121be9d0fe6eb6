// Package tui is the tcell frontend for local play.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/tomz197/starfall/internal/audio"
	"github.com/tomz197/starfall/internal/input"
	"github.com/tomz197/starfall/internal/loop/config"
	"github.com/tomz197/starfall/internal/loop/server"
)

// Options configures the app.
type Options struct {
	Sink      audio.Sink // Sound backend; nil plays nothing
	Muted     bool
	TickRate  int
	Seed      int64
	Logger    *log.Logger
	NewServer server.Factory
}

type phase int

const (
	phaseTitle phase = iota
	phasePlaying
	phaseGameOver
)

// App runs sessions on a tcell screen. The caller owns Init and Fini of the screen.
type App struct {
	screen  tcell.Screen
	opts    Options
	logger  *log.Logger
	tracker *input.Tracker
	mute    *audio.Mute

	phase      phase
	finalScore int
	running    bool

	srv      server.GameServer
	cancel   context.CancelFunc
	finished chan struct{}
}

// New creates an app drawing to screen.
func New(screen tcell.Screen, opts Options) *App {
	if opts.NewServer == nil {
		opts.NewServer = server.NewGameServer
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	var sink audio.Sink = audio.Nop{}
	if opts.Sink != nil {
		sink = opts.Sink
	}
	return &App{
		screen:  screen,
		opts:    opts,
		logger:  logger,
		tracker: input.NewTracker(),
		mute:    audio.NewMute(sink, opts.Muted),
		running: true,
	}
}

// Run blocks until the user quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	defer a.stopSession()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return // Screen finalized
			}
			events <- ev
		}
	}()

	a.screen.HideCursor()
	ticker := time.NewTicker(config.ClientTargetFrameTime)
	defer ticker.Stop()

	for a.running {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			a.handleEvent(ev, time.Now())
		case now := <-ticker.C:
			a.frame(ctx, now)
		}
	}
	return nil
}

// handleEvent feeds key presses into the tracker.
func (a *App) handleEvent(ev tcell.Event, now time.Time) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if act, ok := keyAction(ev); ok {
			a.tracker.Press(act, now)
		} else {
			a.tracker.Touch()
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
}

// keyAction maps a tcell key to its action.
func keyAction(ev *tcell.EventKey) (input.Action, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return input.ActionLeft, true
	case tcell.KeyRight:
		return input.ActionRight, true
	case tcell.KeyEnter:
		return input.ActionEnter, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return input.ActionQuit, true
	case tcell.KeyRune:
		return input.RuneAction(ev.Rune())
	}
	return 0, false
}

// frame samples input, advances the phase and redraws.
func (a *App) frame(ctx context.Context, now time.Time) {
	in := a.tracker.Sample(now)
	if in.Quit {
		a.running = false
		return
	}
	if in.Mute {
		a.mute.Toggle()
	}

	switch a.phase {
	case phaseTitle, phaseGameOver:
		if in.Space || in.Enter {
			a.startSession(ctx)
		}
	case phasePlaying:
		a.srv.SendInput(in)
		a.pollEvents()
	}
	a.draw()
}

func (a *App) pollEvents() {
	select {
	case ev, ok := <-a.srv.Events():
		switch {
		case !ok:
			a.finish(a.srv.Snapshot().Score)
		case ev.Type == server.EventGameOver:
			a.finish(ev.Score)
		}
	default:
	}
}

func (a *App) finish(score int) {
	a.finalScore = score
	a.phase = phaseGameOver
	a.tracker.Reset()
	a.logger.Info("game over", "score", score)
}

func (a *App) startSession(ctx context.Context) {
	a.stopSession()
	a.tracker.Reset()

	sctx, cancel := context.WithCancel(ctx)
	srv := a.opts.NewServer(server.Options{
		TickRate: a.opts.TickRate,
		Seed:     a.opts.Seed,
		Sink:     a.mute,
		Logger:   a.logger,
	})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		if err := srv.Run(sctx); err != nil && !errors.Is(err, server.ErrSessionOver) && !errors.Is(err, context.Canceled) {
			a.logger.Error("session failed", "err", err)
		}
	}()
	a.srv, a.cancel, a.finished = srv, cancel, finished
	a.phase = phasePlaying
}

func (a *App) stopSession() {
	if a.cancel == nil {
		return
	}
	a.cancel()
	<-a.finished
	a.cancel = nil
}

func (a *App) draw() {
	a.screen.Clear()
	w, h := a.screen.Size()
	switch a.phase {
	case phaseTitle:
		a.drawTitle(w, h)
	case phasePlaying:
		if snap := a.srv.Snapshot(); snap != nil {
			a.drawSnapshot(snap, w, h)
		}
	case phaseGameOver:
		a.drawCentered(h/2-1, "GAME OVER", styleBoss)
		a.drawCentered(h/2+1, fmt.Sprintf("Final score: %d", a.finalScore), styleText)
		a.drawCentered(h/2+3, "SPACE to play again, Q to quit", styleText)
	}
	a.screen.Show()
}

func (a *App) drawTitle(_, h int) {
	a.drawCentered(h/2-4, "S T A R F A L L", styleShield)
	a.drawCentered(h/2-1, "A D / < >  move", styleText)
	a.drawCentered(h/2, "M  mute    Q  quit", styleText)
	a.drawCentered(h/2+3, ">>  Press SPACE to Start  <<", styleText)
}

func (a *App) drawCentered(row int, s string, style tcell.Style) {
	w, _ := a.screen.Size()
	a.drawText((w-len([]rune(s)))/2, row, s, style)
}

func (a *App) drawText(col, row int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		a.screen.SetContent(col+i, row, r, nil, style)
	}
}
