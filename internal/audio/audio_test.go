package audio

import (
	"go/build"
	"strings"
	"testing"
)

func TestKindString(t *testing.T) {
	want := map[Kind]string{
		Shoot:      "shoot",
		Explosion:  "explosion",
		Pickup:     "pickup",
		Start:      "start",
		GameOver:   "gameover",
		MusicStart: "music-start",
		MusicStop:  "music-stop",
	}
	for _, k := range Kinds {
		if k.String() != want[k] {
			t.Fatalf("Kind(%d).String() = %q, want %q", int(k), k.String(), want[k])
		}
	}
}

func TestRecorderCountsOverlappingInstances(t *testing.T) {
	var r Recorder
	r.Play(Explosion)
	r.Play(Explosion)
	r.Play(Shoot)

	if got := r.Count(Explosion); got != 2 {
		t.Fatalf("Count(Explosion) = %d, want 2", got)
	}
	if got := len(r.Events()); got != 3 {
		t.Fatalf("len(Events) = %d, want 3", got)
	}
	r.Reset()
	if got := r.Count(Shoot); got != 0 {
		t.Fatalf("Count after Reset = %d, want 0", got)
	}
}

func TestQueueDropsWhenFull(t *testing.T) {
	q := NewQueue(2)
	q.Play(Shoot)
	q.Play(Pickup)
	q.Play(GameOver) // dropped, must not block

	got := q.Drain()
	if len(got) != 2 || got[0] != Shoot || got[1] != Pickup {
		t.Fatalf("Drain = %v, want [shoot pickup]", got)
	}
	if rest := q.Drain(); len(rest) != 0 {
		t.Fatalf("second Drain = %v, want empty", rest)
	}
}

func TestMuteSuppressesAndRestoresMusic(t *testing.T) {
	var r Recorder
	m := NewMute(&r, false)

	m.Play(MusicStart)
	m.Play(Shoot)
	if !m.Toggle() {
		t.Fatal("Toggle should report muted")
	}
	m.Play(Explosion)
	if m.Toggle() {
		t.Fatal("second Toggle should report unmuted")
	}

	want := []Kind{MusicStart, Shoot, MusicStop, MusicStart}
	got := r.Events()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMuteStartsMutedWithoutMusic(t *testing.T) {
	var r Recorder
	m := NewMute(&r, true)
	m.Play(Start)
	m.Play(MusicStart)
	m.Play(MusicStop)
	m.Toggle()

	// Only the MusicStop passes through; music was stopped before unmuting.
	if got := r.Events(); len(got) != 1 || got[0] != MusicStop {
		t.Fatalf("events = %v, want [music-stop]", got)
	}
}

func TestFanout(t *testing.T) {
	var a, b Recorder
	Fanout{&a, &b, Nop{}}.Play(Pickup)
	if a.Count(Pickup) != 1 || b.Count(Pickup) != 1 {
		t.Fatal("fanout should deliver to every sink")
	}
}

func TestKindUnmarshalText(t *testing.T) {
	var k Kind
	if err := k.UnmarshalText([]byte("music-stop")); err != nil || k != MusicStop {
		t.Fatalf("UnmarshalText(music-stop) = %v, %v", k, err)
	}
	if err := k.UnmarshalText([]byte("boom")); err == nil {
		t.Fatal("unknown kind should fail")
	}
}

// The sink types are linked into headless servers, so this package must stay free of
// the audio device stack.
func TestNoDeviceImports(t *testing.T) {
	pkg, err := build.ImportDir(".", 0)
	if err != nil {
		t.Fatalf("ImportDir: %v", err)
	}
	for _, imp := range pkg.Imports {
		if strings.HasPrefix(imp, "github.com/gopxl/") || strings.Contains(imp, "oto") {
			t.Errorf("audio imports %s", imp)
		}
	}
}
