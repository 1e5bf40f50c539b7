package abctune

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func melodyNames(t *testing.T, content string) []string {
	t.Helper()
	tune, err := Parse(content)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for n := range tune.Melody() {
		names = append(names, n.Pitch.Name())
	}
	return names
}

func TestMelodyOrder(t *testing.T) {
	got := melodyNames(t, "X:1\nK:C\nC D E |\n")
	want := []string{"C4", "D4", "E4"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestMelodyFollowsPlaythrough(t *testing.T) {
	got := melodyNames(t, "X:1\nK:C\nG | A :|\n|: B | c :|\n")
	want := []string{"G4", "A4", "G4", "A4", "B4", "C5", "B4", "C5"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestMelodyTieMerge(t *testing.T) {
	tune, err := Parse("X:1\nL:1/4\nK:C\nC2- | C2 | D |\n")
	if err != nil {
		t.Fatal(err)
	}
	notes := tune.MelodyNotes()
	if len(notes) != 2 {
		t.Fatalf("notes = %+v", notes)
	}
	if got := notes[0].Duration.RatString(); got != "1" {
		t.Errorf("merged duration = %s", got)
	}
	if notes[0].Measure != 0 {
		t.Errorf("merged note measure = %d", notes[0].Measure)
	}
}

func TestMelodyTieDifferentPitch(t *testing.T) {
	tune, err := Parse("X:1\nK:C\nC- D\n")
	if err != nil {
		t.Fatal(err)
	}
	if n := len(tune.MelodyNotes()); n != 2 {
		t.Errorf("notes = %d", n)
	}
}

func TestMelodyRestBreaksTie(t *testing.T) {
	tune, err := Parse("X:1\nK:C\nC- z C\n")
	if err != nil {
		t.Fatal(err)
	}
	if n := len(tune.MelodyNotes()); n != 2 {
		t.Errorf("notes = %d", n)
	}
}

func TestMelodyChordLeadingPitch(t *testing.T) {
	got := melodyNames(t, "X:1\nK:C\n[CEG] [EG]\n")
	want := []string{"C4", "E4"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestMelodyRestartable(t *testing.T) {
	tune, err := Parse("X:1\nK:C\nC- C D | E :|\n")
	if err != nil {
		t.Fatal(err)
	}
	seq := tune.Melody()
	var first, second []MelodyNote
	for n := range seq {
		first = append(first, n)
	}
	for n := range seq {
		second = append(second, n)
	}
	if len(first) == 0 || len(first) != len(second) {
		t.Fatalf("iterations differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Pitch.Equal(second[i].Pitch) || first[i].Duration.Cmp(&second[i].Duration) != 0 {
			t.Errorf("note %d differs between iterations", i)
		}
	}
}

func TestMelodyEarlyStop(t *testing.T) {
	tune, err := Parse("X:1\nK:C\nC D E F |\n")
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for range tune.Melody() {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("count = %d", count)
	}
}
