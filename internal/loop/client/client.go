// Package client is the ANSI frontend: it runs sessions for one terminal
// connection and draws them with half-block characters.
package client

import (
	"bufio"
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/starfall/internal/audio"
	"github.com/tomz197/starfall/internal/draw"
	"github.com/tomz197/starfall/internal/input"
	"github.com/tomz197/starfall/internal/loop/config"
	"github.com/tomz197/starfall/internal/loop/server"
)

// Options configures the client.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Sink         audio.Sink // Sound backend; nil plays nothing
	Bell         bool       // Ring the terminal bell for pickups and game over
	Muted        bool
	TickRate     int
	Seed         int64
	Logger       *log.Logger
	NewServer    server.Factory
}

// Client handles rendering and input for a single connection.
type Client struct {
	opts        Options
	state       *State
	canvas      *draw.Canvas
	chunkWriter *draw.ChunkWriter
	writer      io.Writer
	inputStream *input.Stream
	logger      *log.Logger
	mute        *audio.Mute
	bells       *audio.Queue

	srv      server.GameServer
	cancel   context.CancelFunc
	finished chan struct{} // Closed when the current session's Run returns
}

// NewClient creates a client reading keys from r and drawing to w.
func NewClient(r *bufio.Reader, w io.Writer, opts Options) *Client {
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if opts.NewServer == nil {
		opts.NewServer = server.NewGameServer
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Username != "" {
		logger = logger.With("user", opts.Username)
	}

	var sinks audio.Fanout
	if opts.Sink != nil {
		sinks = append(sinks, opts.Sink)
	}
	bells := audio.NewQueue(config.SoundQueueSize)
	if opts.Bell {
		sinks = append(sinks, bells)
	}

	termWidth, termHeight, _ := opts.TermSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.CanvasWidth, config.CanvasHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		opts:        opts,
		state:       NewState(time.Now()),
		canvas:      canvas,
		chunkWriter: draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:      w,
		inputStream: input.StartStream(r),
		logger:      logger,
		mute:        audio.NewMute(sinks, opts.Muted),
		bells:       bells,
	}
}

// Run starts the client loop. Blocks until the user quits, goes idle or ctx is done.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.stopSession()

	for c.state.Running {
		frameStart := time.Now()

		if ctx.Err() != nil {
			break
		}
		c.processInput(frameStart)
		c.updateScreen()

		switch c.state.Screen {
		case ScreenTitle, ScreenGameOver:
			if c.state.Input.Space || c.state.Input.Enter {
				c.startSession(ctx)
			}
		case ScreenPlaying:
			c.processServerEvents()
		}

		if err := c.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			select {
			case <-ctx.Done():
			case <-time.After(config.ClientTargetFrameTime - elapsed):
			}
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input, tracks idleness and forwards held keys to the session.
func (c *Client) processInput(now time.Time) {
	in := input.ReadInput(c.inputStream)
	c.state.Input = in

	idle := now.Sub(c.state.lastInput).Seconds()
	switch {
	case in.Active:
		c.state.lastInput = now
		c.state.isInactive = false
	case idle > config.InactivityDisconnectUser:
		c.logger.Info("disconnecting idle client")
		c.state.Running = false
	case idle > config.InactivityWarnUser:
		c.state.isInactive = true
	}

	if in.Quit {
		c.state.Running = false
	}
	if in.Mute {
		muted := c.mute.Toggle()
		c.logger.Debug("mute toggled", "muted", muted)
	}
	if c.state.Screen == ScreenPlaying && c.srv != nil {
		c.srv.SendInput(in)
	}
}

// processServerEvents switches to the game-over screen once the session ends.
func (c *Client) processServerEvents() {
	select {
	case ev, ok := <-c.srv.Events():
		if !ok {
			c.finishSession(c.srv.Snapshot().Score)
			return
		}
		if ev.Type == server.EventGameOver {
			c.finishSession(ev.Score)
		}
	default:
	}
}

func (c *Client) finishSession(score int) {
	c.state.FinalScore = score
	c.state.Screen = ScreenGameOver
	input.ResetKeyInput(c.inputStream)
}

// startSession starts a brand-new session, discarding any previous one.
func (c *Client) startSession(ctx context.Context) {
	c.stopSession()
	input.ResetKeyInput(c.inputStream)

	sctx, cancel := context.WithCancel(ctx)
	srv := c.opts.NewServer(server.Options{
		TickRate: c.opts.TickRate,
		Seed:     c.opts.Seed,
		Sink:     c.mute,
		Logger:   c.logger,
	})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		if err := srv.Run(sctx); err != nil && !errors.Is(err, server.ErrSessionOver) && !errors.Is(err, context.Canceled) {
			c.logger.Error("session failed", "err", err)
		}
	}()

	c.srv = srv
	c.cancel = cancel
	c.finished = finished
	c.state.Sessions++
	c.state.Screen = ScreenPlaying
}

// stopSession cancels the running session and waits for its driver to return.
func (c *Client) stopSession() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.finished
	c.cancel = nil
}

// updateScreen handles terminal resize, clamping to max render resolution.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.opts.TermSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		// Residual pixels and borders outside the new area must go.
		c.chunkWriter.WriteString("\033[H\033[2J")
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(max(termWidth, 1), config.MaxTermWidth)
	renderHeight = min(max(termHeight, 1), config.MaxTermHeight)
	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-renderHeight)/2, 0)
	return
}
