package input

import (
	"bufio"
	"strings"
	"testing"
	"time"
)

func TestParseBytesArrowKeys(t *testing.T) {
	tr := NewTracker()
	now := time.Unix(100, 0)
	ParseBytes(tr, []byte("\x1b[D\x1b[C"), now)

	in := tr.Sample(now.Add(10 * time.Millisecond))
	if !in.Left || !in.Right {
		t.Fatalf("arrow keys not held: %+v", in)
	}
	if !in.Active {
		t.Fatal("expected activity after key presses")
	}
}

func TestTrackerHoldExpires(t *testing.T) {
	tr := NewTracker()
	now := time.Unix(100, 0)
	tr.Press(ActionLeft, now)

	if in := tr.Sample(now.Add(29 * time.Millisecond)); !in.Left {
		t.Fatal("left should still be held within the hold duration")
	}
	if in := tr.Sample(now.Add(31 * time.Millisecond)); in.Left {
		t.Fatal("left should be released after the hold duration")
	}
}

func TestTrackerMuteIsEdgeTriggered(t *testing.T) {
	tr := NewTracker()
	now := time.Unix(100, 0)
	ParseBytes(tr, []byte("m"), now)

	if in := tr.Sample(now); !in.Mute {
		t.Fatal("first sample after pressing m should report Mute")
	}
	if in := tr.Sample(now); in.Mute {
		t.Fatal("second sample should not report Mute again")
	}
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker()
	now := time.Unix(100, 0)
	ParseBytes(tr, []byte(" a"), now)
	tr.Reset()
	in := tr.Sample(now)
	if in.Space || in.Left || in.Active {
		t.Fatalf("expected empty input after Reset, got %+v", in)
	}
}

func TestKeyMapping(t *testing.T) {
	tests := []struct {
		key  byte
		want Action
	}{
		{'a', ActionLeft},
		{'J', ActionLeft},
		{'d', ActionRight},
		{'l', ActionRight},
		{'q', ActionQuit},
		{' ', ActionSpace},
		{'\r', ActionEnter},
		{'M', ActionMute},
	}
	for _, tt := range tests {
		got, ok := byteAction(tt.key)
		if !ok || got != tt.want {
			t.Fatalf("byteAction(%q) = %v,%v want %v", tt.key, got, ok, tt.want)
		}
	}
	if _, ok := RuneAction('é'); ok {
		t.Fatal("non-ASCII rune should not map to an action")
	}
}

func TestReadInputReportsQuitOnEOF(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("")))
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if in := ReadInput(s); in.Quit {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("expected Quit after the reader hit EOF")
}
