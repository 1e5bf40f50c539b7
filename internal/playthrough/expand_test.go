package playthrough

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/abctune-go/internal/abc"
)

func measuresOf(t *testing.T, body string) []abc.Measure {
	t.Helper()
	td, err := abc.NewParser(abc.DefaultConfig()).ParseTune("X:1\nK:C\n" + body + "\n")
	require.NoError(t, err, body)
	return td.Measures
}

// firstNotes renders a measure sequence as the source text of each
// measure's first note, space separated.
func firstNotes(measures []abc.Measure) string {
	var parts []string
	for _, m := range measures {
		for _, ev := range m.Events {
			if ev.Kind == abc.EventNote {
				parts = append(parts, ev.Text)
				break
			}
		}
	}
	return strings.Join(parts, " ")
}

func expand(t *testing.T, body string) string {
	t.Helper()
	out, err := Expand(measuresOf(t, body))
	require.NoError(t, err, body)
	return firstNotes(out)
}

func TestExpandNoRepeats(t *testing.T) {
	assert.Equal(t, "A B C", expand(t, "A | B | C |"))
}

func TestExpandSimpleRepeats(t *testing.T) {
	assert.Equal(t, "A A", expand(t, "|: A :|"))
	assert.Equal(t, "G A G A B C B C", expand(t, "G | A :|\n|: B | C :|"))
}

func TestExpandCloseOpenShorthand(t *testing.T) {
	assert.Equal(t, "A A B B", expand(t, "A :: B :|"))
	assert.Equal(t, "A A B B", expand(t, "A :|: B :|"))
	assert.Equal(t, "A A B B", expand(t, "A ::| B :|"))
}

func TestExpandDefaultReturnPoint(t *testing.T) {
	// A close with no written open returns to the start of the tune.
	assert.Equal(t, "A A", expand(t, "A :|"))
}

func TestExpandEndings(t *testing.T) {
	got := expand(t, "G |1 A | A :|2 a | a ||\n|: B |1 C :|2 c ||")
	assert.Equal(t, "G A A G a a B C B c", got)
}

func TestExpandThreeEndings(t *testing.T) {
	assert.Equal(t, "G A G B G C", expand(t, "G |1 A :|2 B :|3 C ||"))
}

func TestExpandEndingLists(t *testing.T) {
	assert.Equal(t, "G A G C G A", expand(t, "G |1,3 A :|2 C ||"))
}

func TestExpandFinalPassBeforeChainedGroup(t *testing.T) {
	// The last pass ends at the close inside the |1,3 group; the walk must
	// resume past the already-played {2} group, not re-enter it.
	assert.Equal(t, "G A G C G A D", expand(t, "G |1,3 A :|2 C || D |"))
}

func TestExpandIndicesPreserved(t *testing.T) {
	out, err := Expand(measuresOf(t, "|: A :|"))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 0, out[0].Index)
	assert.Equal(t, 0, out[1].Index)
}

func TestExpandMissingEndingGroup(t *testing.T) {
	_, err := Expand(measuresOf(t, "G |1 A :|"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass 2")
}
