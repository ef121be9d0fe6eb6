package audio

import "sync"

// Recorder keeps every event it receives. Used as a test double and for diagnostics.
type Recorder struct {
	mu     sync.Mutex
	events []Kind
}

// Play implements Sink.
func (r *Recorder) Play(k Kind) {
	r.mu.Lock()
	r.events = append(r.events, k)
	r.mu.Unlock()
}

// Count returns how many events of kind k were recorded.
func (r *Recorder) Count(k Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == k {
			n++
		}
	}
	return n
}

// Events returns a copy of all recorded events in arrival order.
func (r *Recorder) Events() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Kind, len(r.events))
	copy(out, r.events)
	return out
}

// Reset forgets all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = r.events[:0]
	r.mu.Unlock()
}

// Queue buffers events for a consumer on another goroutine.
// When the buffer is full new events are dropped.
type Queue struct {
	ch chan Kind
}

// NewQueue creates a queue holding up to size pending events.
func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{ch: make(chan Kind, size)}
}

// Play implements Sink.
func (q *Queue) Play(k Kind) {
	select {
	case q.ch <- k:
	default:
	}
}

// Drain returns all pending events without blocking.
func (q *Queue) Drain() []Kind {
	var out []Kind
	for {
		select {
		case k := <-q.ch:
			out = append(out, k)
		default:
			return out
		}
	}
}

// Fanout forwards every event to all sinks in order.
type Fanout []Sink

// Play implements Sink.
func (f Fanout) Play(k Kind) {
	for _, s := range f {
		s.Play(k)
	}
}

// Mute owns the global mute flag in front of another sink.
// While muted nothing reaches the backend except MusicStop.
// Toggling stops or resumes background music if the session had started it.
type Mute struct {
	mu      sync.Mutex
	next    Sink
	muted   bool
	musicOn bool
}

// NewMute wraps next. muted sets the initial state.
func NewMute(next Sink, muted bool) *Mute {
	return &Mute{next: next, muted: muted}
}

// Play implements Sink.
func (m *Mute) Play(k Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch k {
	case MusicStart:
		m.musicOn = true
	case MusicStop:
		m.musicOn = false
		m.next.Play(k)
		return
	}
	if !m.muted {
		m.next.Play(k)
	}
}

// Toggle flips the mute flag and returns the new state.
func (m *Mute) Toggle() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.muted = !m.muted
	if m.musicOn {
		if m.muted {
			m.next.Play(MusicStop)
		} else {
			m.next.Play(MusicStart)
		}
	}
	return m.muted
}

// Muted reports the current mute state.
func (m *Mute) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}
