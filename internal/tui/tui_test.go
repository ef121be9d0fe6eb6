package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/tomz197/starfall/internal/input"
	"github.com/tomz197/starfall/internal/loop/server"
	"github.com/tomz197/starfall/internal/object"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	sim.SetSize(80, 30)
	t.Cleanup(sim.Fini)
	return sim
}

func cellAt(sim tcell.SimulationScreen, col, row int) rune {
	cells, w, _ := sim.GetContents()
	c := cells[row*w+col]
	if len(c.Runes) == 0 {
		return ' '
	}
	return c.Runes[0]
}

func TestKeyAction(t *testing.T) {
	for _, tc := range []struct {
		ev   *tcell.EventKey
		want input.Action
		ok   bool
	}{
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), input.ActionLeft, true},
		{tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), input.ActionRight, true},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), input.ActionEnter, true},
		{tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), input.ActionQuit, true},
		{tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone), input.ActionRight, true},
		{tcell.NewEventKey(tcell.KeyRune, 'm', tcell.ModNone), input.ActionMute, true},
		{tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), 0, false},
	} {
		got, ok := keyAction(tc.ev)
		if got != tc.want || ok != tc.ok {
			t.Errorf("keyAction(%v) = %v,%v want %v,%v", tc.ev.Name(), got, ok, tc.want, tc.ok)
		}
	}
}

func TestHandleEventHoldsKey(t *testing.T) {
	a := New(newSimScreen(t), Options{})
	now := time.Now()
	a.handleEvent(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), now)

	if in := a.tracker.Sample(now.Add(10 * time.Millisecond)); !in.Left {
		t.Fatal("left not held right after the press")
	}
	if in := a.tracker.Sample(now.Add(time.Second)); in.Left {
		t.Fatal("left still held a second later")
	}
}

func TestDrawSnapshot(t *testing.T) {
	sim := newSimScreen(t)
	a := New(sim, Options{})

	snap := &server.Snapshot{
		Width:    800,
		Height:   600,
		Player:   server.PlayerView{X: 400, Y: 520, Size: 40},
		Shield:   true,
		Bullets:  []server.Point{{X: 100, Y: 100}},
		Enemies:  []server.Rect{{X: 200, Y: 200, W: 35, H: 35}},
		PowerUps: []server.PowerUpView{{X: 600, Y: 300, Kind: object.PowerShield}},
		Score:    30,
		Lives:    2,
	}
	a.drawSnapshot(snap, 80, 30)
	sim.Show()

	// 800x600 onto 80x30: 10 units per column, 20 per row.
	for _, tc := range []struct {
		col, row int
		want     rune
	}{
		{40, 26, glyphPlayer},
		{39, 26, '('},
		{41, 26, ')'},
		{10, 5, glyphBullet},
		{20, 10, glyphEnemy},
		{60, 15, glyphPowerUp},
		{1, 0, 'S'},
	} {
		if got := cellAt(sim, tc.col, tc.row); got != tc.want {
			t.Errorf("cell (%d,%d) = %q, want %q", tc.col, tc.row, got, tc.want)
		}
	}
}

type stubServer struct {
	events chan server.Event
}

func (s *stubServer) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}
func (s *stubServer) SendInput(input.Input) {}
func (s *stubServer) Snapshot() *server.Snapshot {
	return &server.Snapshot{Width: 800, Height: 600, Lives: 3}
}
func (s *stubServer) Events() <-chan server.Event { return s.events }

func TestRunStartsAndFinishesSessions(t *testing.T) {
	sim := newSimScreen(t)
	var mu sync.Mutex
	var started []*stubServer
	a := New(sim, Options{NewServer: func(server.Options) server.GameServer {
		s := &stubServer{events: make(chan server.Event, 1)}
		mu.Lock()
		started = append(started, s)
		mu.Unlock()
		return s
	}})

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(started)
	}
	waitFor := func(what string, cond func() bool) {
		t.Helper()
		deadline := time.Now().Add(3 * time.Second)
		for !cond() {
			if time.Now().After(deadline) {
				t.Fatalf("timed out waiting for %s", what)
			}
			time.Sleep(5 * time.Millisecond)
		}
	}

	sim.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	waitFor("session start", func() bool { return count() == 1 })

	mu.Lock()
	first := started[0]
	mu.Unlock()
	first.events <- server.Event{Type: server.EventGameOver, Score: 50}

	// Game over needs a moment before the restart key lands on the right screen.
	time.Sleep(100 * time.Millisecond)
	sim.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	waitFor("restart", func() bool { return count() == 2 })

	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not stop on q")
	}
}
