package abctune

import (
	"bytes"
	"testing"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func noteOnCount(t *testing.T, content string) int {
	t.Helper()
	tune, err := Parse(content)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := tune.WriteSMF(&buf); err != nil {
		t.Fatal(err)
	}
	s, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Tracks) != 1 {
		t.Fatalf("tracks = %d", len(s.Tracks))
	}
	count := 0
	for _, evt := range s.Tracks[0] {
		if evt.Message.Is(midi.NoteOnMsg) {
			count++
		}
	}
	return count
}

func TestWriteSMFNotes(t *testing.T) {
	if got := noteOnCount(t, "X:1\nK:C\nC D E |\n"); got != 3 {
		t.Errorf("note-ons = %d", got)
	}
}

func TestWriteSMFTieMerges(t *testing.T) {
	if got := noteOnCount(t, "X:1\nK:C\nC2- C2 |\n"); got != 1 {
		t.Errorf("note-ons = %d", got)
	}
}

func TestWriteSMFChordSoundsAllPitches(t *testing.T) {
	if got := noteOnCount(t, "X:1\nK:C\n[CEG] |\n"); got != 3 {
		t.Errorf("note-ons = %d", got)
	}
}

func TestWriteSMFRepeatsExpand(t *testing.T) {
	if got := noteOnCount(t, "X:1\nK:C\n|: C D :|\n"); got != 4 {
		t.Errorf("note-ons = %d", got)
	}
}

func TestWriteSMFRestGap(t *testing.T) {
	tune, err := Parse("X:1\nL:1/4\nK:C\nC z C |\n")
	if err != nil {
		t.Fatal(err)
	}
	spans := tune.midiSpans()
	if len(spans) != 2 {
		t.Fatalf("spans = %+v", spans)
	}
	if spans[0].gap != 0 || spans[1].gap != 960 {
		t.Errorf("gaps = %d, %d", spans[0].gap, spans[1].gap)
	}
	if spans[0].ticks != 960 {
		t.Errorf("ticks = %d", spans[0].ticks)
	}
}

func TestDurationTicks(t *testing.T) {
	tune, err := Parse("X:1\nL:1/8\nK:C\n(3CDE F |\n")
	if err != nil {
		t.Fatal(err)
	}
	spans := tune.midiSpans()
	if len(spans) != 4 {
		t.Fatalf("spans = %+v", spans)
	}
	// Triplet eighths at 960 ticks a quarter are 320 ticks each.
	for i := 0; i < 3; i++ {
		if spans[i].ticks != 320 {
			t.Errorf("span %d ticks = %d", i, spans[i].ticks)
		}
	}
	if spans[3].ticks != 480 {
		t.Errorf("plain eighth ticks = %d", spans[3].ticks)
	}
}
