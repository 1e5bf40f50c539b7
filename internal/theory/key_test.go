package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustKey(t *testing.T, spec string) Key {
	t.Helper()
	k, err := ParseKey(spec)
	require.NoError(t, err, spec)
	return k
}

func TestParseKey(t *testing.T) {
	k := mustKey(t, "G")
	assert.Equal(t, "G", k.Tonic.Name())
	assert.Equal(t, Ionian, k.Mode)

	k = mustKey(t, "Ador")
	assert.Equal(t, "A", k.Tonic.Name())
	assert.Equal(t, Dorian, k.Mode)

	k = mustKey(t, "Bbmin")
	assert.Equal(t, "Bb", k.Tonic.Name())
	assert.Equal(t, Aeolian, k.Mode)

	k = mustKey(t, "F#m")
	assert.Equal(t, "F#", k.Tonic.Name())
	assert.Equal(t, Aeolian, k.Mode)

	k = mustKey(t, "")
	assert.Equal(t, "C", k.Tonic.Name())
	assert.Equal(t, Ionian, k.Mode)
}

func TestParseKeyInvalid(t *testing.T) {
	for _, spec := range []string{"H", "Gxyz", "Gmy"} {
		_, err := ParseKey(spec)
		assert.Error(t, err, spec)
	}
}

func TestKeySignatures(t *testing.T) {
	cases := []struct {
		spec string
		sig  []string
	}{
		{"C", nil},
		{"G", []string{"F#"}},
		{"D", []string{"F#", "C#"}},
		{"A", []string{"F#", "C#", "G#"}},
		{"F", []string{"Bb"}},
		{"Bb", []string{"Bb", "Eb"}},
		{"Eb", []string{"Bb", "Eb", "Ab"}},
		{"Am", nil},
		{"Em", []string{"F#"}},
		{"Gm", []string{"Bb", "Eb"}},
		{"Ador", []string{"F#"}},
		{"Edor", []string{"F#", "C#"}},
		{"Dmix", []string{"F#"}},
		{"Amix", []string{"F#", "C#"}},
		{"Bphr", []string{"F#"}},
		{"Clyd", []string{"F#"}},
		{"F#loc", []string{"F#"}},
		{"Bbmin", []string{"Bb", "Eb", "Ab", "Db", "Gb"}},
	}
	for _, c := range cases {
		assert.Equal(t, c.sig, mustKey(t, c.spec).Signature(), c.spec)
	}
}

func TestKeyAccidentals(t *testing.T) {
	k := mustKey(t, "D")
	acc := k.Accidentals()
	assert.Equal(t, map[byte]int{'F': 1, 'C': 1}, acc)
	assert.Equal(t, 1, k.AccidentalFor('f'), "letter case is ignored")
	assert.Equal(t, 0, k.AccidentalFor('G'))

	gm := mustKey(t, "Gm")
	assert.Equal(t, map[byte]int{'B': -1, 'E': -1}, gm.Accidentals())
}

func TestKeyEquality(t *testing.T) {
	assert.True(t, mustKey(t, "G").Equal(mustKey(t, "Gmaj")))
	assert.True(t, mustKey(t, "Am").Equal(mustKey(t, "Aaeo")))
	assert.False(t, mustKey(t, "G").Equal(mustKey(t, "Gm")))
	assert.True(t, mustKey(t, "G").Equal(mustKey(t, "G major")))
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "Gmaj", mustKey(t, "G").String())
	assert.Equal(t, "Amin", mustKey(t, "Am").String())
	assert.Equal(t, "Ador", mustKey(t, "Ador").String())
}
