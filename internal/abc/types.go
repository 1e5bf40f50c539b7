package abc

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/cbegin/abctune-go/internal/theory"
)

type EventKind int

const (
	EventNote EventKind = iota + 1
	EventRest
	EventBar
	EventField
	EventPart
)

func (k EventKind) String() string {
	switch k {
	case EventNote:
		return "note"
	case EventRest:
		return "rest"
	case EventBar:
		return "bar"
	case EventField:
		return "field"
	case EventPart:
		return "part"
	default:
		return "unknown"
	}
}

type BarKind int

const (
	BarPlain BarKind = iota + 1
	BarRepeatOpen
	BarRepeatClose
	BarRepeatCloseOpen
)

func (b BarKind) String() string {
	switch b {
	case BarPlain:
		return "|"
	case BarRepeatOpen:
		return "|:"
	case BarRepeatClose:
		return ":|"
	case BarRepeatCloseOpen:
		return "::"
	default:
		return "?"
	}
}

// Event is a single parsed body token. The Kind selects which fields are
// meaningful; the zero values of the rest are ignored.
type Event struct {
	Kind EventKind

	// EventNote and EventRest. Pitches holds more than one entry only for
	// bracketed simultaneous notes; the first entry leads the melody.
	Pitches     []theory.Pitch
	Duration    big.Rat // fraction of a whole note
	Tie         bool
	Grace       []theory.Pitch
	Chord       string // chord symbol text, e.g. "Em"
	Decorations []string

	// EventBar.
	Bar        BarKind
	Endings    []int // ending numbers starting after this bar
	EndingStop bool  // the bar terminates an ending group

	// EventField (inline or body-line field) and EventPart.
	Tag   string
	Value string

	// Source text and position of the token.
	Text string
	Line int
	Col  int
}

// Pitch returns the leading pitch of a note event.
func (e Event) Pitch() theory.Pitch {
	if len(e.Pitches) == 0 {
		return theory.Pitch{}
	}
	return e.Pitches[0]
}

// Measure is the span of events between two bar lines. Bar-line facts the
// expansion engine needs are folded onto the measure itself.
type Measure struct {
	Index  int
	Events []Event // notes, rests, inline fields, part labels

	Open    bool  // repeat-open on the left bar
	Close   bool  // repeat-close on the right bar
	Endings []int // ending numbers this measure starts
	EndStop bool  // the right bar terminates an ending group
}

// Duration sums the note and rest durations of the measure.
func (m Measure) Duration() big.Rat {
	var sum big.Rat
	for _, ev := range m.Events {
		if ev.Kind == EventNote || ev.Kind == EventRest {
			sum.Add(&sum, &ev.Duration)
		}
	}
	return sum
}

// Field is one header or inline information field.
type Field struct {
	Tag   string
	Value string
}

// Header is the ordered field list of a tune header. Repeated tags are
// legitimate for some fields (T: in particular), so lookups distinguish
// first-value access from all-values access.
type Header []Field

// Get returns the first value for tag.
func (h Header) Get(tag string) (string, bool) {
	for _, f := range h {
		if f.Tag == tag {
			return f.Value, true
		}
	}
	return "", false
}

// All returns every value for tag in insertion order.
func (h Header) All(tag string) []string {
	var values []string
	for _, f := range h {
		if f.Tag == tag {
			values = append(values, f.Value)
		}
	}
	return values
}

// Meter is a time signature.
type Meter struct {
	Num int
	Den int
}

// ParseMeter parses "6/8" style meters plus the "C" (common) and "C|"
// (cut) shorthands.
func ParseMeter(s string) (Meter, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "C":
		return Meter{4, 4}, nil
	case "C|":
		return Meter{2, 2}, nil
	case "", "none":
		return Meter{}, nil
	}
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return Meter{}, fmt.Errorf("invalid meter %q", s)
	}
	n, err1 := strconv.Atoi(strings.TrimSpace(num))
	d, err2 := strconv.Atoi(strings.TrimSpace(den))
	if err1 != nil || err2 != nil || n <= 0 || d <= 0 {
		return Meter{}, fmt.Errorf("invalid meter %q", s)
	}
	return Meter{Num: n, Den: d}, nil
}

func (m Meter) IsZero() bool { return m.Num == 0 || m.Den == 0 }

// MeasureLength is the expected summed duration of one full measure.
func (m Meter) MeasureLength() big.Rat {
	if m.IsZero() {
		return big.Rat{}
	}
	var r big.Rat
	r.SetFrac64(int64(m.Num), int64(m.Den))
	return r
}

func (m Meter) String() string {
	if m.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%d/%d", m.Num, m.Den)
}

// ParseUnitLength parses an L: field value such as "1/8" or "1".
func ParseUnitLength(s string) (big.Rat, error) {
	s = strings.TrimSpace(s)
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return big.Rat{}, fmt.Errorf("invalid unit note length %q", s)
		}
		var r big.Rat
		r.SetInt64(int64(n))
		return r, nil
	}
	n, err1 := strconv.Atoi(strings.TrimSpace(num))
	d, err2 := strconv.Atoi(strings.TrimSpace(den))
	if err1 != nil || err2 != nil || n <= 0 || d <= 0 {
		return big.Rat{}, fmt.Errorf("invalid unit note length %q", s)
	}
	var r big.Rat
	r.SetFrac64(int64(n), int64(d))
	return r, nil
}

// TuneData is the parsed form of a single tune: typed header fields, the
// flat event stream, and the measure sequence as written (unexpanded).
type TuneData struct {
	Header Header
	Key    theory.Key
	Meter  Meter
	Unit   big.Rat

	Stream   []Event
	Measures []Measure
	Skipped  []UnrecognizedSpan
}
