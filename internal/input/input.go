// Package input turns key presses into held-key state sampled once per tick.
package input

import (
	"bufio"
	"sync"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report presses, so auto-repeat keeps a key alive while held.
const keyHoldDuration = 30 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Left   bool `json:"left"`
	Right  bool `json:"right"`
	Quit   bool `json:"-"`
	Space  bool `json:"-"`
	Enter  bool `json:"-"`
	Mute   bool `json:"mute"`
	Active bool `json:"-"` // Any byte or key arrived since the last read
}

// Action is a logical key.
type Action int

const (
	ActionLeft Action = iota
	ActionRight
	ActionQuit
	ActionSpace
	ActionEnter
	ActionMute
	actionCount
)

// Tracker remembers when each action was last pressed.
// Mute is edge-triggered: it reports true once per press.
type Tracker struct {
	mu       sync.Mutex
	last     [actionCount]time.Time
	mutes    int
	activity bool
	hold     time.Duration
}

// NewTracker creates a tracker with the default hold duration.
func NewTracker() *Tracker {
	return &Tracker{hold: keyHoldDuration}
}

// Press records a press of the action at the given time.
func (t *Tracker) Press(a Action, now time.Time) {
	if a < 0 || a >= actionCount {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last[a] = now
	t.activity = true
	if a == ActionMute {
		t.mutes++
	}
}

// Touch records activity that maps to no action.
func (t *Tracker) Touch() {
	t.mu.Lock()
	t.activity = true
	t.mu.Unlock()
}

// Sample builds the input state for the given time.
func (t *Tracker) Sample(now time.Time) Input {
	t.mu.Lock()
	defer t.mu.Unlock()

	held := func(a Action) bool {
		return !t.last[a].IsZero() && now.Sub(t.last[a]) < t.hold
	}
	in := Input{
		Left:   held(ActionLeft),
		Right:  held(ActionRight),
		Quit:   held(ActionQuit),
		Space:  held(ActionSpace),
		Enter:  held(ActionEnter),
		Mute:   t.mutes > 0,
		Active: t.activity,
	}
	if t.mutes > 0 {
		t.mutes--
	}
	t.activity = false
	return in
}

// Reset forgets all pressed keys.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = [actionCount]time.Time{}
	t.mutes = 0
	t.activity = false
}

// Stream delivers input bytes via a channel and feeds them into a Tracker.
type Stream struct {
	ch      chan byte
	tracker *Tracker
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch:      make(chan byte, 128),
		tracker: NewTracker(),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking)
// and returns the held-key state.
// A closed stream (reader hit EOF) reports Quit.
func ReadInput(s *Stream) Input {
	now := time.Now()
	var buf []byte
	closed := false

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	ParseBytes(s.tracker, buf, now)
	in := s.tracker.Sample(now)
	if closed {
		in.Quit = true
	}
	return in
}

// ResetKeyInput clears held keys, so a key pressed on one screen does not leak into the next.
func ResetKeyInput(s *Stream) {
	if s == nil {
		return
	}
	s.tracker.Reset()
}

// ParseBytes maps raw terminal bytes to presses on the tracker.
// Handles CSI arrow sequences and single-byte keys.
func ParseBytes(t *Tracker, buf []byte, now time.Time) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'C':
				t.Press(ActionRight, now)
				i += 2
				continue
			case 'D':
				t.Press(ActionLeft, now)
				i += 2
				continue
			case 'A', 'B':
				t.Touch()
				i += 2
				continue
			}
		}

		if a, ok := byteAction(b); ok {
			t.Press(a, now)
		} else {
			t.Touch()
		}
	}
}

// byteAction maps a single byte to its action.
func byteAction(b byte) (Action, bool) {
	switch b {
	case 'q', 'Q', '\x03':
		return ActionQuit, true
	case 'a', 'A', 'j', 'J':
		return ActionLeft, true
	case 'd', 'D', 'l', 'L':
		return ActionRight, true
	case 'm', 'M':
		return ActionMute, true
	case ' ':
		return ActionSpace, true
	case '\n', '\r':
		return ActionEnter, true
	}
	return 0, false
}

// RuneAction maps a printable key to its action, for frontends that decode keys themselves.
func RuneAction(r rune) (Action, bool) {
	if r > 0x7f {
		return 0, false
	}
	return byteAction(byte(r))
}
