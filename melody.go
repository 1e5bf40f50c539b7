package abctune

import (
	"iter"
	"math/big"
)

// MelodyNote is one sounding note of the flattened melody. Chords sound
// as their leading pitch; tied notes of equal pitch merge into one note
// with the summed duration.
type MelodyNote struct {
	Pitch    Pitch
	Duration big.Rat
	Measure  int // written index of the measure the note starts in
}

// Melody yields the sounding notes of the expanded playthrough in order.
// A rest ends any pending tie; a tie into a different pitch does not
// merge. The sequence may be ranged over any number of times.
func (t *Tune) Melody() iter.Seq[MelodyNote] {
	return func(yield func(MelodyNote) bool) {
		var pending MelodyNote
		havePending := false
		tied := false

		for _, m := range t.Expanded {
			for _, ev := range m.Events {
				switch ev.Kind {
				case EventRest:
					if havePending {
						if !yield(pending) {
							return
						}
						havePending = false
					}
					tied = false

				case EventNote:
					if havePending && tied && pending.Pitch.Equal(ev.Pitch()) {
						pending.Duration.Add(&pending.Duration, &ev.Duration)
						tied = ev.Tie
						continue
					}
					if havePending {
						if !yield(pending) {
							return
						}
					}
					pending = MelodyNote{Pitch: ev.Pitch(), Measure: m.Index}
					pending.Duration.Set(&ev.Duration)
					havePending = true
					tied = ev.Tie
				}
			}
		}
		if havePending {
			yield(pending)
		}
	}
}

// MelodyNotes collects the melody into a slice.
func (t *Tune) MelodyNotes() []MelodyNote {
	var out []MelodyNote
	for n := range t.Melody() {
		out = append(out, n)
	}
	return out
}
