package theory

import (
	"fmt"
	"strconv"
)

// Chromatic values of the natural note letters relative to C.
var naturalValues = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// niceChromaticNames spells each chromatic class with its common accidental.
var niceChromaticNames = [12]string{
	"C", "C#", "D", "Eb", "E", "F", "F#", "G", "G#", "A", "Bb", "B",
}

var sharpChromaticNames = [12]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

var flatChromaticNames = [12]string{
	"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B",
}

// accidentalValues maps one accidental character to its semitone delta.
var accidentalValues = map[byte]int{'#': 1, 'b': -1, '=': 0}

func isNatural(b byte) bool { _, ok := naturalValues[b]; return ok }

// classValue computes the chromatic value of a spelled class name such as
// "Bb" or "F##". The result may leave 0..11 for spellings like Cb.
func classValue(name string) (int, error) {
	if name == "" || !isNatural(name[0]) {
		return 0, fmt.Errorf("invalid pitch class name %q", name)
	}
	v := naturalValues[name[0]]
	for i := 1; i < len(name); i++ {
		d, ok := accidentalValues[name[i]]
		if !ok {
			return 0, fmt.Errorf("invalid accidental %q in pitch class name %q", name[i], name)
		}
		v += d
	}
	acc := name[1:]
	if len(acc) > 2 || (len(acc) == 2 && acc[0] != acc[1]) || acc == "==" {
		return 0, fmt.Errorf("invalid accidental run in pitch class name %q", name)
	}
	return v, nil
}

// PitchClass is a pitch without an octave: an integer chromatic distance
// from C in 0..11. The spelled name, when present, is display-only and
// carries the accidental preference; equality uses the value alone.
type PitchClass struct {
	Value int
	name  string
}

func NewPitchClass(value int) PitchClass {
	return PitchClass{Value: mod12(value)}
}

func PitchClassFromName(name string) (PitchClass, error) {
	v, err := classValue(name)
	if err != nil {
		return PitchClass{}, err
	}
	return PitchClass{Value: mod12(v), name: name}, nil
}

func (pc PitchClass) Name() string {
	if pc.name != "" {
		return pc.name
	}
	return niceChromaticNames[mod12(pc.Value)]
}

// Nat is the natural letter of the spelled name.
func (pc PitchClass) Nat() byte { return pc.Name()[0] }

// Acc is the accidental part of the spelled name ("", "#", "b", "##", "bb", "=").
func (pc PitchClass) Acc() string { return pc.Name()[1:] }

// Transpose shifts by n semitones, dropping the spelled name.
func (pc PitchClass) Transpose(n int) PitchClass {
	return NewPitchClass(pc.Value + n)
}

func (pc PitchClass) Equal(other PitchClass) bool {
	return mod12(pc.Value) == mod12(other.Value)
}

func (pc PitchClass) String() string { return pc.Name() }

// Pitch is an integer chromatic distance from C0 in semitones.
// Middle C (C4) is 48, A4 is 57.
type Pitch struct {
	Value int
	// className preserves the spelling the pitch was written with,
	// e.g. "E#" for value 41. Empty means spell on demand.
	className string
}

func NewPitch(value int) Pitch { return Pitch{Value: value} }

// PitchFromParts builds a pitch from a spelled class name and octave number.
func PitchFromParts(className string, octave int) (Pitch, error) {
	v, err := classValue(className)
	if err != nil {
		return Pitch{}, err
	}
	return Pitch{Value: v + 12*octave, className: className}, nil
}

// PitchFromName parses names like "C4", "E#3", "Bb5".
func PitchFromName(name string) (Pitch, error) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) || i == 0 {
		return Pitch{}, fmt.Errorf("invalid pitch name %q", name)
	}
	oct, err := strconv.Atoi(name[i:])
	if err != nil {
		return Pitch{}, fmt.Errorf("invalid pitch name %q", name)
	}
	return PitchFromParts(name[:i], oct)
}

// Octave is the octave number, with C4 the middle octave start.
func (p Pitch) Octave() int {
	v := p.Value
	// The spelled name wins near octave boundaries: Cb4 has the value of
	// B3 but still lives in octave 4.
	if p.className != "" {
		d, _ := classValue(p.className)
		v -= d
		return v / 12
	}
	return floorDiv(v, 12)
}

// ClassName is the spelled pitch class, e.g. "F#".
func (p Pitch) ClassName() string {
	if p.className != "" {
		return p.className
	}
	return niceChromaticNames[mod12(p.Value)]
}

// Name is the full spelled name with octave, e.g. "C4".
func (p Pitch) Name() string {
	return p.ClassName() + strconv.Itoa(p.Octave())
}

// Class drops the octave, preserving the spelling.
func (p Pitch) Class() PitchClass {
	return PitchClass{Value: mod12(p.Value), name: p.className}
}

// Transpose shifts by n semitones, dropping the spelled name.
func (p Pitch) Transpose(n int) Pitch { return Pitch{Value: p.Value + n} }

func (p Pitch) Equal(other Pitch) bool { return p.Value == other.Value }

// MIDI converts to a MIDI note number (C4 = 60).
func (p Pitch) MIDI() int { return p.Value + 12 }

func (p Pitch) String() string { return p.Name() }

func mod12(v int) int {
	v %= 12
	if v < 0 {
		v += 12
	}
	return v
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// SpellSharp and SpellFlat return the enharmonic spelling of a class value
// preferring sharps or flats. Used when deriving key signatures.
func SpellSharp(value int) string { return sharpChromaticNames[mod12(value)] }
func SpellFlat(value int) string  { return flatChromaticNames[mod12(value)] }

// NaturalValue returns the chromatic value of a natural letter (any case).
func NaturalValue(letter byte) (int, bool) {
	v, ok := naturalValues[upper(letter)]
	return v, ok
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 32
	}
	return b
}
