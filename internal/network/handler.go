package network

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/tomz197/starfall/internal/audio"
	"github.com/tomz197/starfall/internal/loop/config"
	"github.com/tomz197/starfall/internal/loop/server"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Options configures the handler.
type Options struct {
	TickRate      int
	Seed          int64
	Logger        *log.Logger
	NewServer     server.Factory
	FrameInterval time.Duration // How often snapshots are pushed
	CheckOrigin   func(r *http.Request) bool
}

// Handler upgrades requests to WebSocket and runs one session per connection.
type Handler struct {
	opts     Options
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a handler.
func NewHandler(opts Options) *Handler {
	if opts.NewServer == nil {
		opts.NewServer = server.NewGameServer
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = config.ClientTargetFrameTime
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Handler{
		opts:   opts,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     opts.CheckOrigin,
		},
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	logger := h.logger.With("remote", r.RemoteAddr)
	logger.Info("player connected")
	c := &peer{Handler: h, conn: conn, logger: logger}
	if err := c.serve(r.Context()); err != nil && !isClosed(err) {
		logger.Warn("connection ended", "err", err)
	}
	logger.Info("player disconnected")
}

func isClosed(err error) bool {
	return errors.Is(err, context.Canceled) ||
		websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}

// peer is the state of one connection.
type peer struct {
	*Handler
	conn   *websocket.Conn
	logger *log.Logger
}

// readPump decodes client messages until the connection fails.
func (c *peer) readPump(ctx context.Context, msgs chan<- ClientMessage) error {
	defer close(msgs)
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return err
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Debug("bad client message", "err", err)
			continue
		}
		select {
		case msgs <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// serve runs sessions back to back until the peer leaves. It is the only writer.
func (c *peer) serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	msgs := make(chan ClientMessage, 16)
	readErr := make(chan error, 1)
	go func() { readErr <- c.readPump(ctx, msgs) }()

	sounds := audio.NewQueue(config.SoundQueueSize)
	mute := audio.NewMute(sounds, false)

	frames := time.NewTicker(c.opts.FrameInterval)
	defer frames.Stop()
	pings := time.NewTicker(pingPeriod)
	defer pings.Stop()

	sess := c.startSession(ctx, mute)
	defer func() { sess.stop() }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg, ok := <-msgs:
			if !ok {
				return <-readErr
			}
			if msg.Input.Mute {
				mute.Toggle()
			}
			if sess.over && msg.Restart {
				sess.stop()
				sounds.Drain()
				sess = c.startSession(ctx, mute)
				continue
			}
			if !sess.over {
				sess.srv.SendInput(msg.Input)
			}

		case ev, ok := <-sess.events():
			if !ok || ev.Type == server.EventGameOver {
				sess.over = true
				score := sess.srv.Snapshot().Score
				if ok {
					score = ev.Score
				}
				c.logger.Info("game over", "score", score)
				if err := c.write(ServerMessage{
					Type:     TypeGameOver,
					Snapshot: sess.srv.Snapshot(),
					Sounds:   sounds.Drain(),
					Muted:    mute.Muted(),
					Score:    score,
				}); err != nil {
					return err
				}
			}

		case <-frames.C:
			if sess.over {
				continue
			}
			if err := c.write(ServerMessage{
				Type:     TypeFrame,
				Snapshot: sess.srv.Snapshot(),
				Sounds:   sounds.Drain(),
				Muted:    mute.Muted(),
			}); err != nil {
				return err
			}

		case <-pings.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

func (c *peer) write(msg ServerMessage) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

// session is one running game on the connection.
type session struct {
	srv      server.GameServer
	cancel   context.CancelFunc
	finished chan struct{}
	over     bool
}

// events returns the session's events, or nil once it is over so select skips it.
func (s *session) events() <-chan server.Event {
	if s.over {
		return nil
	}
	return s.srv.Events()
}

func (s *session) stop() {
	s.cancel()
	<-s.finished
}

func (c *peer) startSession(ctx context.Context, sink audio.Sink) *session {
	sctx, cancel := context.WithCancel(ctx)
	srv := c.opts.NewServer(server.Options{
		TickRate: c.opts.TickRate,
		Seed:     c.opts.Seed,
		Sink:     sink,
		Logger:   c.logger,
	})
	s := &session{srv: srv, cancel: cancel, finished: make(chan struct{})}
	go func() {
		defer close(s.finished)
		if err := srv.Run(sctx); err != nil && !errors.Is(err, server.ErrSessionOver) && !errors.Is(err, context.Canceled) {
			c.logger.Error("session failed", "err", err)
		}
	}()
	return s
}
