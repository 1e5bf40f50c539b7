package playthrough

import (
	"fmt"
	"math/big"

	"github.com/cbegin/abctune-go/internal/abc"
)

// DurationWarning reports a measure whose summed note and rest durations
// disagree with the meter in effect at that measure.
type DurationWarning struct {
	Measure  int
	Expected big.Rat
	Actual   big.Rat
}

func (w DurationWarning) String() string {
	return fmt.Sprintf("measure %d: duration %s, meter expects %s",
		w.Measure, w.Actual.RatString(), w.Expected.RatString())
}

// ValidateDurations checks measures in written order against the meter.
// Inline M: fields change the meter from their measure onward. Measures
// with no notes or rests are not checked, and a free meter checks nothing.
func ValidateDurations(measures []abc.Measure, meter abc.Meter) []DurationWarning {
	var warnings []DurationWarning
	for _, m := range measures {
		for _, ev := range m.Events {
			if ev.Kind == abc.EventField && ev.Tag == "M" {
				if parsed, err := abc.ParseMeter(ev.Value); err == nil {
					meter = parsed
				}
			}
		}
		if meter.IsZero() {
			continue
		}
		actual := m.Duration()
		if actual.Sign() == 0 {
			continue
		}
		expected := meter.MeasureLength()
		if actual.Cmp(&expected) != 0 {
			warnings = append(warnings, DurationWarning{
				Measure:  m.Index,
				Expected: expected,
				Actual:   actual,
			})
		}
	}
	return warnings
}
