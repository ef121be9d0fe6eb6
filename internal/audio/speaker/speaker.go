// Package speaker plays sound events on the local audio device.
package speaker

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	device "github.com/gopxl/beep/speaker"
	"github.com/tomz197/starfall/internal/audio"
)

const sampleRate = beep.SampleRate(44100)

// Speaker plays synthesized tones on the local audio device.
// All one-shot sounds are added to a shared mixer, so instances overlap freely.
type Speaker struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	music       *beep.Ctrl
	initialized bool
}

// New creates an uninitialized speaker. Play is a no-op until Init succeeds.
func New() *Speaker {
	return &Speaker{mixer: &beep.Mixer{}}
}

// Init opens the audio device.
func (s *Speaker) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := device.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	device.Play(s.mixer)
	s.initialized = true
	return nil
}

// Close stops all sounds and releases the device.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	device.Lock()
	s.mixer.Clear()
	device.Unlock()
	device.Close()
	s.music = nil
	s.initialized = false
}

// Play implements audio.Sink.
func (s *Speaker) Play(k audio.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}

	switch k {
	case audio.MusicStart:
		s.startMusic()
		return
	case audio.MusicStop:
		s.stopMusic()
		return
	}

	st := s.effect(k)
	if st == nil {
		return
	}
	device.Lock()
	s.mixer.Add(st)
	device.Unlock()
}

// startMusic resumes the background loop, creating it on first use.
func (s *Speaker) startMusic() {
	device.Lock()
	defer device.Unlock()

	if s.music != nil {
		s.music.Paused = false
		return
	}
	s.music = &beep.Ctrl{Streamer: volume(newMusic(sampleRate), 0.3)}
	s.mixer.Add(s.music)
}

func (s *Speaker) stopMusic() {
	if s.music == nil {
		return
	}
	device.Lock()
	s.music.Paused = true
	device.Unlock()
}

// effect builds the one-shot streamer for a kind.
func (s *Speaker) effect(k audio.Kind) beep.Streamer {
	switch k {
	case audio.Shoot:
		sine, err := generators.SineTone(sampleRate, 880)
		if err != nil {
			return nil
		}
		return volume(beep.Take(sampleRate.N(60*time.Millisecond), sine), 0.25)
	case audio.Explosion:
		return newNoiseBurst(sampleRate, 180*time.Millisecond)
	case audio.Pickup:
		return newArpeggio(sampleRate, []float64{660, 990}, 80*time.Millisecond, 0.4)
	case audio.Start:
		return newArpeggio(sampleRate, []float64{440, 550, 660}, 120*time.Millisecond, 0.4)
	case audio.GameOver:
		return newArpeggio(sampleRate, []float64{440, 330, 220}, 200*time.Millisecond, 0.5)
	}
	return nil
}

// volume scales a streamer linearly; 0 silences it.
func volume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain), Silent: false}
}

// arpeggio plays a fixed sequence of sine notes once, with a linear fade per note.
type arpeggio struct {
	freqs       []float64
	noteSamples int
	gain        float64
	sr          beep.SampleRate
	pos         int
}

func newArpeggio(sr beep.SampleRate, freqs []float64, note time.Duration, gain float64) *arpeggio {
	return &arpeggio{freqs: freqs, noteSamples: sr.N(note), gain: gain, sr: sr}
}

func (a *arpeggio) Stream(samples [][2]float64) (int, bool) {
	total := a.noteSamples * len(a.freqs)
	if a.pos >= total {
		return 0, false
	}
	n := 0
	for i := range samples {
		if a.pos >= total {
			break
		}
		note := a.pos / a.noteSamples
		offset := a.pos % a.noteSamples
		t := float64(a.pos) / float64(a.sr)
		fade := 1 - float64(offset)/float64(a.noteSamples)
		v := math.Sin(2*math.Pi*a.freqs[note]*t) * a.gain * fade
		samples[i][0] = v
		samples[i][1] = v
		a.pos++
		n++
	}
	return n, true
}

func (a *arpeggio) Err() error { return nil }

// noiseBurst is white noise with an exponential decay.
type noiseBurst struct {
	total int
	pos   int
}

func newNoiseBurst(sr beep.SampleRate, d time.Duration) *noiseBurst {
	return &noiseBurst{total: sr.N(d)}
}

func (b *noiseBurst) Stream(samples [][2]float64) (int, bool) {
	if b.pos >= b.total {
		return 0, false
	}
	n := 0
	for i := range samples {
		if b.pos >= b.total {
			break
		}
		env := math.Exp(-5 * float64(b.pos) / float64(b.total))
		v := (rand.Float64()*2 - 1) * 0.5 * env
		samples[i][0] = v
		samples[i][1] = v
		b.pos++
		n++
	}
	return n, true
}

func (b *noiseBurst) Err() error { return nil }

// music is an endless minor arpeggio for the background loop.
type music struct {
	notes       []float64
	noteSamples int
	sr          beep.SampleRate
	pos         int
}

func newMusic(sr beep.SampleRate) *music {
	return &music{
		notes:       []float64{220, 261.63, 329.63, 261.63, 196, 246.94, 293.66, 246.94},
		noteSamples: sr.N(250 * time.Millisecond),
		sr:          sr,
	}
}

func (m *music) Stream(samples [][2]float64) (int, bool) {
	cycle := m.noteSamples * len(m.notes)
	for i := range samples {
		note := (m.pos / m.noteSamples) % len(m.notes)
		t := float64(m.pos) / float64(m.sr)
		v := math.Sin(2*math.Pi*m.notes[note]*t) * 0.5
		samples[i][0] = v
		samples[i][1] = v
		m.pos = (m.pos + 1) % cycle
	}
	return len(samples), true
}

func (m *music) Err() error { return nil }
