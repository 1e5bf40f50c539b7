// Package playthrough resolves the repeat structure of a parsed tune into
// the linear measure sequence a player would actually play, and checks
// written measures against the meter.
package playthrough

import (
	"golang.org/x/exp/slices"

	"github.com/cbegin/abctune-go/internal/abc"
)

// Expand resolves repeats and numbered endings. Emitted measures keep
// their original Index, so one written measure can appear several times.
//
// The walk keeps a return point (the most recent repeat open, initially
// the first measure) and a pass counter. A repeat close jumps back while
// passes remain; an ending group is entered only on the pass its numbers
// list and skipped otherwise.
func Expand(measures []abc.Measure) ([]abc.Measure, error) {
	limit := 64*len(measures) + 64
	var out []abc.Measure

	ret := 0
	pass := 1
	inEnding := false

	i := 0
	for i < len(measures) {
		if len(out) >= limit {
			return nil, abc.ExpandErrorf(i, "repeat expansion does not terminate")
		}
		m := measures[i]
		if m.Open {
			ret = i
		}
		if len(m.Endings) > 0 {
			if !slices.Contains(m.Endings, pass) {
				next, err := skipEndingGroup(measures, i, pass)
				if err != nil {
					return nil, err
				}
				i = next
				continue
			}
			inEnding = true
		}
		out = append(out, m)

		switch {
		case m.Close:
			// A close always means at least a second pass, even when the
			// written endings stop at 1.
			maxPass := regionMaxEnding(measures, ret, i)
			if maxPass < 2 {
				maxPass = 2
			}
			if pass < maxPass {
				pass++
				i = ret
				inEnding = false
				continue
			}
			// Passes exhausted. Ending groups chained after this close
			// belong to the finished region and were reached by the skip
			// scan on their own passes, so the forward walk resumes past
			// them (the final pass's group can sit before a later-numbered
			// one, as in ending lists like "|1,3 ... :|2 ...").
			i = skipChainedGroups(measures, i+1)
			ret = i
			pass = 1
			inEnding = false
			continue

		case m.EndStop && inEnding:
			if pass < regionMaxEnding(measures, ret, i) {
				pass++
				i = ret
				inEnding = false
				continue
			}
			i = skipChainedGroups(measures, i+1)
			ret = i
			pass = 1
			inEnding = false
			continue
		}
		i++
	}
	return out, nil
}

// skipEndingGroup advances past the ending group starting at measure at,
// then past any immediately following groups, until one lists pass. The
// scan crosses the repeat-close bar inside the first group.
func skipEndingGroup(measures []abc.Measure, at, pass int) (int, error) {
	j := at
	for {
		for j < len(measures) && !measures[j].EndStop {
			j++
		}
		if j >= len(measures) {
			return 0, abc.ExpandErrorf(at, "no ending group for pass %d", pass)
		}
		j++
		if j >= len(measures) || len(measures[j].Endings) == 0 {
			return 0, abc.ExpandErrorf(at, "no ending group for pass %d", pass)
		}
		if slices.Contains(measures[j].Endings, pass) {
			return j, nil
		}
	}
}

// skipChainedGroups advances past consecutive ending groups starting at
// measure j. By the time a region completes, every chained group's numbers
// have been played, so the walk never re-enters them.
func skipChainedGroups(measures []abc.Measure, j int) int {
	for j < len(measures) && len(measures[j].Endings) > 0 {
		for j < len(measures) && !measures[j].EndStop {
			j++
		}
		j++
	}
	return j
}

// regionMaxEnding finds the highest ending number of the repeat region:
// the measures between the return point and the close, plus any ending
// groups chained directly after the close.
func regionMaxEnding(measures []abc.Measure, ret, close int) int {
	maxEnd := 0
	for k := ret; k <= close && k < len(measures); k++ {
		for _, e := range measures[k].Endings {
			if e > maxEnd {
				maxEnd = e
			}
		}
	}
	j := close + 1
	for j < len(measures) && len(measures[j].Endings) > 0 {
		for _, e := range measures[j].Endings {
			if e > maxEnd {
				maxEnd = e
			}
		}
		for j < len(measures) && !measures[j].EndStop {
			j++
		}
		j++
	}
	return maxEnd
}
