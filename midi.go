package abctune

import (
	"io"
	"math/big"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	midiTicksPerQuarter = 960
	midiChannel         = 0
	midiVelocity        = 100
	midiTempoBPM        = 120
)

// midiSpan is one sounding stretch of the playthrough: the pitches start
// together after gap ticks of silence and last ticks ticks. Ties merge
// into the preceding span the way Melody merges them, but chords keep
// every pitch.
type midiSpan struct {
	pitches []Pitch
	ticks   uint32
	gap     uint32
}

func durationTicks(d big.Rat) uint32 {
	var r big.Rat
	r.Mul(&d, big.NewRat(4*midiTicksPerQuarter, 1))
	q := new(big.Int).Quo(r.Num(), r.Denom())
	return uint32(q.Int64())
}

func (t *Tune) midiSpans() []midiSpan {
	var spans []midiSpan
	gap := uint32(0)
	tied := false
	for _, m := range t.Expanded {
		for _, ev := range m.Events {
			switch ev.Kind {
			case EventRest:
				gap += durationTicks(ev.Duration)
				tied = false
			case EventNote:
				if n := len(spans) - 1; tied && n >= 0 && gap == 0 && spans[n].pitches[0].Equal(ev.Pitch()) {
					spans[n].ticks += durationTicks(ev.Duration)
				} else {
					spans = append(spans, midiSpan{
						pitches: ev.Pitches,
						ticks:   durationTicks(ev.Duration),
						gap:     gap,
					})
					gap = 0
				}
				tied = ev.Tie
			}
		}
	}
	return spans
}

// WriteSMF renders the expanded playthrough as a single-track standard
// MIDI file at a fixed tempo, with a quarter note lasting 960 ticks.
func (t *Tune) WriteSMF(w io.Writer) error {
	var s smf.SMF
	s.TimeFormat = smf.MetricTicks(midiTicksPerQuarter)

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(t.String()))
	tr.Add(0, smf.MetaTempo(midiTempoBPM))
	if !t.Meter.IsZero() && t.Meter.Num < 256 && t.Meter.Den < 256 {
		tr.Add(0, smf.MetaMeter(uint8(t.Meter.Num), uint8(t.Meter.Den)))
	}

	for _, span := range t.midiSpans() {
		delta := span.gap
		for _, p := range span.pitches {
			tr.Add(delta, midi.NoteOn(midiChannel, uint8(p.MIDI()), midiVelocity))
			delta = 0
		}
		delta = span.ticks
		for _, p := range span.pitches {
			tr.Add(delta, midi.NoteOff(midiChannel, uint8(p.MIDI())))
			delta = 0
		}
	}
	tr.Close(0)
	s.Tracks = append(s.Tracks, tr)

	_, err := s.WriteTo(w)
	return err
}
