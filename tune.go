// Package abctune parses tunes written in ABC notation, resolves their
// repeat structure into a linear playthrough, and renders the result as a
// flattened melody or a standard MIDI file.
package abctune

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/cbegin/abctune-go/internal/abc"
	"github.com/cbegin/abctune-go/internal/playthrough"
	"github.com/cbegin/abctune-go/internal/theory"
)

// Aliases for the domain types callers work with.
type (
	Pitch            = theory.Pitch
	PitchClass       = theory.PitchClass
	Key              = theory.Key
	Mode             = theory.Mode
	Event            = abc.Event
	EventKind        = abc.EventKind
	BarKind          = abc.BarKind
	Measure          = abc.Measure
	Header           = abc.Header
	Field            = abc.Field
	Meter            = abc.Meter
	ParseError       = abc.ParseError
	UnrecognizedSpan = abc.UnrecognizedSpan
	DurationWarning  = playthrough.DurationWarning
)

const (
	EventNote  = abc.EventNote
	EventRest  = abc.EventRest
	EventBar   = abc.EventBar
	EventField = abc.EventField
	EventPart  = abc.EventPart
)

type config struct {
	parser abc.Config
	strict bool
}

// Option adjusts parsing behavior.
type Option func(*config)

// WithUnitLength overrides the default unit note length used when the
// header carries no L: field.
func WithUnitLength(num, den int64) Option {
	return func(c *config) { c.parser.DefaultUnit = *big.NewRat(num, den) }
}

// WithOctaveBase sets the octave number of unmarked uppercase letters.
func WithOctaveBase(n int) Option {
	return func(c *config) { c.parser.OctaveBase = n }
}

// WithStrictDurations makes Parse fail when any measure disagrees with
// the meter, instead of reporting warnings on the tune.
func WithStrictDurations() Option {
	return func(c *config) { c.strict = true }
}

// Tune is one parsed tune: the header fields, the measures as written,
// and the expanded playthrough.
type Tune struct {
	Raw    string
	Header Header

	ID    int    // X: reference number
	Title string // first T: field
	Type  string // R: rhythm, lowercased
	Key   Key
	Meter Meter
	Unit  big.Rat // note length one unit of duration suffix stands for

	Measures []Measure // written order
	Expanded []Measure // playthrough order; measures repeat by Index

	Warnings []DurationWarning
	Skipped  []UnrecognizedSpan
}

// Parse parses a single tune. Unrecognized body spans are skipped and
// reported on the tune; structural problems return a *ParseError.
func Parse(content string, opts ...Option) (*Tune, error) {
	cfg := config{parser: abc.DefaultConfig()}
	for _, opt := range opts {
		opt(&cfg)
	}

	td, err := abc.NewParser(cfg.parser).ParseTune(content)
	if err != nil {
		return nil, err
	}
	expanded, err := playthrough.Expand(td.Measures)
	if err != nil {
		return nil, err
	}

	t := &Tune{
		Raw:      content,
		Header:   td.Header,
		Key:      td.Key,
		Meter:    td.Meter,
		Unit:     td.Unit,
		Measures: td.Measures,
		Expanded: expanded,
		Skipped:  td.Skipped,
	}
	if v, ok := td.Header.Get("X"); ok {
		t.ID, _ = strconv.Atoi(strings.TrimSpace(v))
	}
	t.Title, _ = td.Header.Get("T")
	if v, ok := td.Header.Get("R"); ok {
		t.Type = strings.ToLower(v)
	}

	t.Warnings = playthrough.ValidateDurations(td.Measures, td.Meter)
	if cfg.strict && len(t.Warnings) > 0 {
		return nil, fmt.Errorf("duration check failed: %s", t.Warnings[0])
	}
	return t, nil
}

func (t *Tune) String() string {
	if t.Title != "" {
		return t.Title
	}
	return fmt.Sprintf("tune %d", t.ID)
}
