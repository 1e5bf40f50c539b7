package theory

import (
	"fmt"
	"regexp"
	"strings"
)

// Mode is one of the seven diatonic rotations.
type Mode int

const (
	Ionian Mode = iota
	Dorian
	Phrygian
	Lydian
	Mixolydian
	Aeolian
	Locrian
)

// modeDeltas maps a mode to the chromatic step from its tonic to the tonic
// of the relative Ionian (major) key.
var modeDeltas = map[Mode]int{
	Ionian:     0,
	Dorian:     -2,
	Phrygian:   -4,
	Lydian:     -5,
	Mixolydian: -7,
	Aeolian:    3,
	Locrian:    1,
}

var modeAbbrs = map[string]Mode{
	"maj": Ionian,
	"ion": Ionian,
	"min": Aeolian,
	"aeo": Aeolian,
	"mix": Mixolydian,
	"dor": Dorian,
	"phr": Phrygian,
	"lyd": Lydian,
	"loc": Locrian,
}

var modeNames = map[Mode]string{
	Ionian:     "major",
	Dorian:     "dorian",
	Phrygian:   "phrygian",
	Lydian:     "lydian",
	Mixolydian: "mixolydian",
	Aeolian:    "minor",
	Locrian:    "locrian",
}

func (m Mode) String() string { return modeNames[m] }

// ionianSharpFlatCount maps an Ionian tonic spelling to the number of
// sharps (positive) or flats (negative) in its signature.
var ionianSharpFlatCount = map[string]int{
	"C#": 7, "F#": 6, "B": 5, "E": 4, "A": 3, "D": 2, "G": 1,
	"C": 0,
	"F": -1, "Bb": -2, "Eb": -3, "Ab": -4, "Db": -5, "Gb": -6, "Cb": -7,
}

const (
	sharpOrder = "FCGDAEB"
	flatOrder  = "BEADGCF"
)

// Key is a tonic pitch class plus a diatonic mode. Immutable once built.
type Key struct {
	Tonic PitchClass
	Mode  Mode
}

var rxKey = regexp.MustCompile(`^([A-Ga-g])(#|b)?\s*([A-Za-z]+)?`)

// ParseKey parses key specifications such as "D", "Ador", "Bbmin", "F#m".
// An empty specification defaults to C major.
func ParseKey(spec string) (Key, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Key{Tonic: mustClass("C")}, nil
	}
	m := rxKey.FindStringSubmatch(spec)
	if m == nil {
		return Key{}, fmt.Errorf("invalid key specification %q", spec)
	}
	tonic, err := PitchClassFromName(string(upper(m[1][0])) + m[2])
	if err != nil {
		return Key{}, err
	}

	mode := Ionian
	if m[3] != "" {
		word := strings.ToLower(m[3])
		if word == "m" {
			word = "min"
		}
		if len(word) < 3 {
			return Key{}, fmt.Errorf("unrecognized mode %q in key %q", m[3], spec)
		}
		var ok bool
		mode, ok = modeAbbrs[word[:3]]
		if !ok {
			return Key{}, fmt.Errorf("unrecognized mode %q in key %q", m[3], spec)
		}
	}
	return Key{Tonic: tonic, Mode: mode}, nil
}

func mustClass(name string) PitchClass {
	pc, err := PitchClassFromName(name)
	if err != nil {
		panic(err)
	}
	return pc
}

// relativeIonianName spells the tonic of the relative major, preferring the
// accidental family already used by the key's own tonic spelling.
func (k Key) relativeIonianName() string {
	v := mod12(k.Tonic.Value + modeDeltas[k.Mode])
	name := niceChromaticNames[v]
	switch {
	case strings.Contains(k.Tonic.Name(), "#"):
		if s := SpellSharp(v); len(s) == 2 {
			name = s
		}
	case strings.Contains(k.Tonic.Name(), "b"):
		if f := SpellFlat(v); len(f) == 2 {
			name = f
		}
	}
	return name
}

// Signature lists the accidentals of the key signature in circle-of-fifths
// order, e.g. ["F#", "C#"] for D major.
func (k Key) Signature() []string {
	n, ok := ionianSharpFlatCount[k.relativeIonianName()]
	if !ok {
		// Remote spellings like G# major fall back to the flat side.
		n = ionianSharpFlatCount[SpellFlat(mod12(k.Tonic.Value+modeDeltas[k.Mode]))]
	}
	var sig []string
	if n > 0 {
		for i := 0; i < n; i++ {
			sig = append(sig, string(sharpOrder[i])+"#")
		}
	} else {
		for i := 0; i < -n; i++ {
			sig = append(sig, string(flatOrder[i])+"b")
		}
	}
	return sig
}

// Accidentals maps each natural letter altered by the key signature to its
// semitone delta (+1 sharp, -1 flat).
func (k Key) Accidentals() map[byte]int {
	acc := make(map[byte]int)
	for _, s := range k.Signature() {
		switch s[1] {
		case '#':
			acc[s[0]] = 1
		case 'b':
			acc[s[0]] = -1
		}
	}
	return acc
}

// AccidentalFor is the key-signature delta for a natural letter (any case).
func (k Key) AccidentalFor(letter byte) int {
	return k.Accidentals()[upper(letter)]
}

func (k Key) Equal(other Key) bool {
	return k.Tonic.Equal(other.Tonic) && modeDeltas[k.Mode] == modeDeltas[other.Mode]
}

func (k Key) String() string {
	return k.Tonic.Name() + modeNames[k.Mode][:3]
}
