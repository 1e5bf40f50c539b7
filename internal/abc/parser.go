package abc

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/cbegin/abctune-go/internal/theory"
)

var rxHeaderLine = regexp.MustCompile(`^([a-zA-Z]):(.*)$`)

var noteLetters = map[byte]bool{
	'a': true, 'b': true, 'c': true, 'd': true, 'e': true, 'f': true, 'g': true,
	'A': true, 'B': true, 'C': true, 'D': true, 'E': true, 'F': true, 'G': true,
}

var accidentalASCII = map[string]string{
	"^": "#", "^^": "##", "_": "b", "__": "bb", "=": "=",
}

type Config struct {
	// OctaveBase is the octave number of an unmarked uppercase letter.
	OctaveBase int
	// DefaultUnit is the unit note length used when the header has no L:.
	DefaultUnit big.Rat
}

func DefaultConfig() Config {
	return Config{
		OctaveBase:  4,
		DefaultUnit: *big.NewRat(1, 8),
	}
}

type Parser struct{ cfg Config }

func NewParser(cfg Config) *Parser { return &Parser{cfg: cfg} }

// ParseTune parses one tune: header lines through K:, then body lines.
// Non-fatal problems accumulate on the result; fatal ones abort it.
func (p *Parser) ParseTune(content string) (*TuneData, error) {
	td := &TuneData{Unit: p.cfg.DefaultUnit}
	key, _ := theory.ParseKey("") // C major until the header says otherwise

	b := &bodyParser{
		cfg:      p.cfg,
		key:      key,
		unit:     td.Unit,
		lastNote: -1,
	}

	inheader := true
	lineNo := 0
	for _, raw := range strings.Split(content, "\n") {
		lineNo++
		line := strings.TrimSpace(raw)
		if line == "" || line[0] == '%' {
			continue
		}

		if inheader {
			m := rxHeaderLine.FindStringSubmatch(line)
			if m == nil {
				return nil, parseErrorf(lineNo, 1, line, "malformed header line")
			}
			tag, value := m[1], strings.TrimSpace(m[2])
			td.Header = append(td.Header, Field{Tag: tag, Value: value})
			switch tag {
			case "M":
				meter, err := ParseMeter(value)
				if err != nil {
					return nil, parseErrorf(lineNo, 1, line, "%v", err)
				}
				td.Meter = meter
			case "L":
				unit, err := ParseUnitLength(value)
				if err != nil {
					return nil, parseErrorf(lineNo, 1, line, "%v", err)
				}
				td.Unit = unit
				b.unit = unit
			case "K":
				k, err := theory.ParseKey(value)
				if err != nil {
					return nil, parseErrorf(lineNo, 1, line, "%v", err)
				}
				td.Key = k
				b.key = k
				inheader = false
			}
			continue
		}

		if err := b.parseLine(line, lineNo); err != nil {
			return nil, err
		}
	}
	if inheader {
		return nil, parseErrorf(lineNo, 1, "", "tune header has no K: field")
	}
	if err := b.finish(lineNo); err != nil {
		return nil, err
	}

	measures, err := buildMeasures(b.events)
	if err != nil {
		return nil, err
	}

	td.Stream = b.events
	td.Measures = measures
	td.Skipped = b.skipped
	return td, nil
}

// bodyParser carries the scanning state across body lines.
type bodyParser struct {
	cfg  Config
	key  theory.Key
	unit big.Rat

	events  []Event
	skipped []UnrecognizedSpan

	slurDepth     int
	pendingBroken int // net > (positive) or < (negative) marks since the last note
	triplet       int // notes left in a (3 group

	pendingGrace []theory.Pitch
	pendingChord string
	pendingDecos []string

	lastNote int  // index of the last note/rest event, -1 before the first
	tieOK    bool // a '-' here would directly follow a note
}

func (b *bodyParser) parseLine(line string, lineNo int) error {
	if m := rxHeaderLine.FindStringSubmatch(line); m != nil {
		tag, value := m[1], strings.TrimSpace(m[2])
		def, known := FieldDefByTag(tag)
		// "C:|" is a measure, not a composer field; bar characters on the
		// value side mean the colon belonged to the music.
		if known && def.Body && !strings.HasPrefix(value, "|") && !strings.HasPrefix(value, ":") {
			b.emitField(tag, value, lineNo, 1, line)
			return nil
		}
	}
	return b.tokenize(line, lineNo)
}

func (b *bodyParser) tokenize(line string, lineNo int) error {
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == ' ' || c == '\t':
			i++

		case c == '%':
			return nil // remainder of the line is a comment

		case c == '\\' && i == len(line)-1:
			i++ // line continuation

		case c == '"':
			b.tieOK = false
			end := strings.IndexByte(line[i+1:], '"')
			if end < 0 {
				b.skip(lineNo, i+1, line[i:])
				return nil
			}
			b.pendingChord = line[i+1 : i+1+end]
			i += end + 2

		case c == '!':
			b.tieOK = false
			end := strings.IndexByte(line[i+1:], '!')
			if end < 0 {
				b.skip(lineNo, i+1, "!")
				i++
				continue
			}
			b.pendingDecos = append(b.pendingDecos, line[i:i+end+2])
			i += end + 2

		case c == '~' || c == '.':
			b.tieOK = false
			b.pendingDecos = append(b.pendingDecos, string(c))
			i++

		case c == '{':
			b.tieOK = false
			next, err := b.parseGrace(line, i, lineNo)
			if err != nil {
				return err
			}
			i = next

		case c == '}':
			return parseErrorf(lineNo, i+1, "}", "unmatched grace-group close")

		case c == '(':
			b.tieOK = false
			if i+1 < len(line) && isDigit(line[i+1]) {
				if line[i+1] == '3' {
					b.triplet = 3
				} else {
					// only the 3-in-2 tuplet is supported
					b.skip(lineNo, i+1, line[i:i+2])
				}
				i += 2
				continue
			}
			b.slurDepth++
			i++

		case c == ')':
			b.tieOK = false
			b.slurDepth--
			if b.slurDepth < 0 {
				return parseErrorf(lineNo, i+1, ")", "unmatched slur close")
			}
			i++

		case c == '-':
			// A tie belongs directly after its note; only whitespace may
			// come between.
			if b.tieOK {
				b.events[b.lastNote].Tie = true
			} else {
				b.skip(lineNo, i+1, "-")
			}
			i++

		case c == '>' || c == '<':
			b.tieOK = false
			if b.lastNote < 0 {
				b.skip(lineNo, i+1, string(c))
				i++
				continue
			}
			if c == '>' {
				b.pendingBroken++
			} else {
				b.pendingBroken--
			}
			i++

		case c == '[':
			next, err := b.parseOpenBracket(line, i, lineNo)
			if err != nil {
				return err
			}
			i = next

		case c == ']':
			return parseErrorf(lineNo, i+1, "]", "unmatched ']'")

		case c == '|' || c == ':':
			i = b.parseBar(line, i, lineNo)

		case c == 'z':
			rel, next := parseRelDuration(line, i+1)
			b.emitNoteEvent(Event{Kind: EventRest}, rel, line[i:next], lineNo, i+1)
			i = next

		case noteLetters[c] || c == '^' || c == '_' || c == '=':
			ev, next, ok := b.parseNote(line, i, lineNo)
			if !ok {
				b.skip(lineNo, i+1, string(c))
				i++
				continue
			}
			rel, after := parseRelDuration(line, next)
			b.emitNoteEvent(ev, rel, line[i:after], lineNo, i+1)
			i = after

		default:
			b.tieOK = false
			b.skip(lineNo, i+1, string(c))
			i++
		}
	}
	return nil
}

func (b *bodyParser) finish(lineNo int) error {
	if b.slurDepth != 0 {
		return parseErrorf(lineNo, 1, "(", "unclosed slur")
	}
	if b.pendingBroken != 0 {
		b.skip(lineNo, 1, "broken rhythm mark with no following note")
	}
	if len(b.pendingGrace) > 0 || b.pendingChord != "" || len(b.pendingDecos) > 0 {
		b.skip(lineNo, 1, "annotation with no following note")
	}
	return nil
}

// parseNote recognizes the positional note grammar:
// accidental, letter, octave marks. The caller parses the duration suffix.
// Grace notes, chord symbols, and decorations are pending state collected
// by earlier tokens, in exactly that order.
func (b *bodyParser) parseNote(line string, at, lineNo int) (Event, int, bool) {
	pitch, next, ok := b.parsePitch(line, at)
	if !ok {
		return Event{}, at, false
	}
	return Event{Kind: EventNote, Pitches: []theory.Pitch{pitch}}, next, true
}

func (b *bodyParser) parsePitch(line string, at int) (theory.Pitch, int, bool) {
	j := at
	acc := ""
	for j < len(line) && (line[j] == '^' || line[j] == '_' || line[j] == '=') {
		acc += string(line[j])
		j++
	}
	if _, ok := accidentalASCII[acc]; acc != "" && !ok {
		return theory.Pitch{}, at, false
	}
	if j >= len(line) || !noteLetters[line[j]] {
		return theory.Pitch{}, at, false
	}
	letter := line[j]
	j++

	up, down := 0, 0
	for j < len(line) && (line[j] == '\'' || line[j] == ',') {
		if line[j] == '\'' {
			up++
		} else {
			down++
		}
		j++
	}

	octave := b.cfg.OctaveBase + up - down
	if letter >= 'a' {
		octave++
	}

	if acc != "" {
		name := string(upperLetter(letter)) + accidentalASCII[acc]
		pitch, err := theory.PitchFromParts(name, octave)
		if err != nil {
			return theory.Pitch{}, at, false
		}
		return pitch, j, true
	}

	natural, _ := theory.NaturalValue(letter)
	delta := b.key.AccidentalFor(letter)
	return theory.NewPitch(natural + delta + 12*octave), j, true
}

// parseRelDuration recognizes the duration suffix and returns the length
// relative to the unit. Absence means 1; there is no failure mode.
//
//	""     -> 1        "2"   -> 2
//	"/"    -> 1/2      "//"  -> 1/4
//	"/4"   -> 1/4      "3/2" -> 3/2
func parseRelDuration(line string, at int) (big.Rat, int) {
	num, j := parseNumber(line, at)
	slashes := 0
	for j < len(line) && line[j] == '/' {
		slashes++
		j++
	}
	den, j := parseNumber(line, j)

	if num <= 0 {
		num = 1
	}
	switch {
	case den > 0:
		den <<= slashes - 1
	case slashes > 0:
		den = 1 << slashes
	default:
		den = 1
	}
	var rel big.Rat
	rel.SetFrac64(int64(num), int64(den))
	return rel, j
}

func parseNumber(line string, at int) (int, int) {
	j := at
	for j < len(line) && isDigit(line[j]) {
		j++
	}
	if j == at {
		return -1, at
	}
	n, err := strconv.Atoi(line[at:j])
	if err != nil {
		return -1, at
	}
	return n, j
}

// emitNoteEvent finalizes a note or rest: scales the relative duration by
// the unit, applies triplet and broken-rhythm rescaling, and attaches the
// pending annotations.
func (b *bodyParser) emitNoteEvent(ev Event, rel big.Rat, text string, lineNo, col int) {
	var dur big.Rat
	dur.Mul(&rel, &b.unit)
	if b.triplet > 0 {
		dur.Mul(&dur, big.NewRat(2, 3))
		b.triplet--
	}
	ev.Duration = dur
	ev.Text = text
	ev.Line = lineNo
	ev.Col = col

	if ev.Kind == EventNote {
		ev.Grace = b.pendingGrace
		ev.Chord = b.pendingChord
		ev.Decorations = b.pendingDecos
	} else if b.pendingChord != "" {
		ev.Chord = b.pendingChord
	}
	b.pendingGrace = nil
	b.pendingChord = ""
	b.pendingDecos = nil

	if n := b.pendingBroken; n != 0 && b.lastNote >= 0 {
		dotted, halved := &b.events[b.lastNote].Duration, &ev.Duration
		if n < 0 {
			dotted, halved = halved, dotted
			n = -n
		}
		for k := 0; k < n; k++ {
			dotted.Mul(dotted, big.NewRat(3, 2))
			halved.Mul(halved, big.NewRat(1, 2))
		}
	}
	b.pendingBroken = 0

	b.lastNote = len(b.events)
	b.events = append(b.events, ev)
	b.tieOK = ev.Kind == EventNote
}

// parseGrace reads a {...} grace group. The pitches attach to the next
// note; durations inside the group are accepted and ignored.
func (b *bodyParser) parseGrace(line string, at, lineNo int) (int, error) {
	j := at + 1
	var grace []theory.Pitch
	for j < len(line) && line[j] != '}' {
		if line[j] == ' ' {
			j++
			continue
		}
		pitch, next, ok := b.parsePitch(line, j)
		if !ok {
			return at, parseErrorf(lineNo, j+1, string(line[j]), "invalid token in grace group")
		}
		_, next = parseRelDuration(line, next)
		grace = append(grace, pitch)
		j = next
	}
	if j >= len(line) {
		return at, parseErrorf(lineNo, at+1, line[at:], "unclosed grace group")
	}
	b.pendingGrace = grace
	return j + 1, nil
}

// parseOpenBracket disambiguates '[': a "[|" bar, a "[1" ending marker,
// an inline "[K:...]" field, or a bracketed chord of notes.
func (b *bodyParser) parseOpenBracket(line string, at, lineNo int) (int, error) {
	b.tieOK = false
	if at+1 >= len(line) {
		return at, parseErrorf(lineNo, at+1, "[", "unclosed '['")
	}
	switch {
	case line[at+1] == '|':
		return b.parseBar(line, at, lineNo), nil

	case isDigit(line[at+1]):
		endings, next := parseEndingList(line, at+1)
		if last := len(b.events) - 1; last >= 0 && b.events[last].Kind == EventBar {
			b.events[last].Endings = append(b.events[last].Endings, endings...)
		} else {
			b.events = append(b.events, Event{
				Kind: EventBar, Bar: BarPlain, Endings: endings,
				Text: line[at:next], Line: lineNo, Col: at + 1,
			})
		}
		return next, nil

	case at+2 < len(line) && isLetter(line[at+1]) && line[at+2] == ':':
		end := strings.IndexByte(line[at:], ']')
		if end < 0 {
			return at, parseErrorf(lineNo, at+1, line[at:], "unclosed inline field")
		}
		tag := string(line[at+1])
		value := strings.TrimSpace(line[at+3 : at+end])
		b.emitField(tag, value, lineNo, at+1, line[at:at+end+1])
		return at + end + 1, nil

	default:
		return b.parseChordGroup(line, at, lineNo)
	}
}

// parseChordGroup reads bracketed simultaneous notes like [CEG] or [CE]2.
// All pitches are kept; the first leads the melody. A duration suffix
// outside the bracket overrides any inside it.
func (b *bodyParser) parseChordGroup(line string, at, lineNo int) (int, error) {
	j := at + 1
	var pitches []theory.Pitch
	var innerRel big.Rat
	innerRel.SetInt64(1)
	for j < len(line) && line[j] != ']' {
		if line[j] == ' ' {
			j++
			continue
		}
		pitch, next, ok := b.parsePitch(line, j)
		if !ok {
			return at, parseErrorf(lineNo, j+1, string(line[j]), "invalid token in chord group")
		}
		rel, next := parseRelDuration(line, next)
		if len(pitches) == 0 {
			innerRel = rel
		}
		pitches = append(pitches, pitch)
		j = next
	}
	if j >= len(line) {
		return at, parseErrorf(lineNo, at+1, line[at:], "unclosed chord group")
	}
	if len(pitches) == 0 {
		return at, parseErrorf(lineNo, at+1, line[at:j+1], "empty chord group")
	}
	rel, after := parseRelDuration(line, j+1)
	if after == j+1 {
		rel = innerRel
	}
	b.emitNoteEvent(Event{Kind: EventNote, Pitches: pitches}, rel, line[at:after], lineNo, at+1)
	return after, nil
}

// parseBar reads a bar-line token and any attached ending digits.
// Shorthand close-opens ("::", ":|:", ":||:") normalize to a single
// repeat-close-open bar.
func (b *bodyParser) parseBar(line string, at, lineNo int) int {
	b.tieOK = false
	j := at
	if line[j] == '[' {
		j++
	}
	for j < len(line) && (line[j] == '|' || line[j] == ':' || line[j] == ']') {
		j++
	}
	token := line[at:j]
	if token == ":" {
		b.skip(lineNo, at+1, token)
		return j
	}

	double := strings.Contains(token, "::")
	openSide := strings.HasSuffix(token, ":") || double
	closeSide := strings.HasPrefix(token, ":") || double
	kind := BarPlain
	switch {
	case openSide && closeSide:
		kind = BarRepeatCloseOpen
	case closeSide:
		kind = BarRepeatClose
	case openSide:
		kind = BarRepeatOpen
	}

	endings, next := parseEndingList(line, j)

	ev := Event{
		Kind:       EventBar,
		Bar:        kind,
		Endings:    endings,
		EndingStop: closeSide || strings.ContainsAny(token, "]") || token == "||" || token[0] == '[',
		Text:       line[at:next],
		Line:       lineNo,
		Col:        at + 1,
	}
	b.events = append(b.events, ev)

	if b.pendingBroken != 0 {
		b.skip(lineNo, at+1, "broken rhythm mark at bar line")
		b.pendingBroken = 0
	}
	return next
}

// parseEndingList reads ending numbers after a bar: "1", "2", "1,2", "1-3".
func parseEndingList(line string, at int) ([]int, int) {
	var endings []int
	j := at
	for j < len(line) && isDigit(line[j]) {
		n, next := parseNumber(line, j)
		j = next
		if j < len(line) && line[j] == '-' && j+1 < len(line) && isDigit(line[j+1]) {
			hi, next := parseNumber(line, j+1)
			for v := n; v <= hi; v++ {
				endings = append(endings, v)
			}
			j = next
		} else {
			endings = append(endings, n)
		}
		if j < len(line) && line[j] == ',' && j+1 < len(line) && isDigit(line[j+1]) {
			j++
			continue
		}
		break
	}
	return endings, j
}

func (b *bodyParser) emitField(tag, value string, lineNo, col int, text string) {
	b.tieOK = false
	ev := Event{Kind: EventField, Tag: tag, Value: value, Text: text, Line: lineNo, Col: col}
	switch tag {
	case "K":
		if k, err := theory.ParseKey(value); err == nil {
			b.key = k
		} else {
			b.skip(lineNo, col, text)
		}
	case "P":
		ev.Kind = EventPart
	}
	// Field changes beyond key and meter are preserved as inert events.
	b.events = append(b.events, ev)
}

// skip records an unrecognized span, merging adjacent fragments.
func (b *bodyParser) skip(lineNo, col int, text string) {
	if n := len(b.skipped) - 1; n >= 0 {
		last := &b.skipped[n]
		if last.Line == lineNo && last.Col+len(last.Text) == col {
			last.Text += text
			return
		}
	}
	b.skipped = append(b.skipped, UnrecognizedSpan{Line: lineNo, Col: col, Text: text})
}

// buildMeasures folds the flat event stream into measures, attaching
// repeat-open/close and ending facts from the surrounding bar lines.
func buildMeasures(events []Event) ([]Measure, error) {
	var measures []Measure
	var cur []Event
	pendingOpen := false
	var pendingEndings []int

	flush := func(close bool, stop bool) {
		measures = append(measures, Measure{
			Index:   len(measures),
			Events:  cur,
			Open:    pendingOpen,
			Close:   close,
			Endings: pendingEndings,
			EndStop: stop,
		})
		cur = nil
		pendingOpen = false
		pendingEndings = nil
	}

	for _, ev := range events {
		if ev.Kind != EventBar {
			cur = append(cur, ev)
			continue
		}
		close := ev.Bar == BarRepeatClose || ev.Bar == BarRepeatCloseOpen
		open := ev.Bar == BarRepeatOpen || ev.Bar == BarRepeatCloseOpen
		stop := ev.EndingStop || len(ev.Endings) > 0

		if len(cur) > 0 {
			flush(close, stop)
		} else if close {
			if len(measures) == 0 {
				return nil, ExpandErrorf(0, "repeat close before any measures")
			}
			measures[len(measures)-1].Close = true
			measures[len(measures)-1].EndStop = true
		}
		if open {
			pendingOpen = true
		}
		if len(ev.Endings) > 0 {
			pendingEndings = ev.Endings
		}
	}
	if len(cur) > 0 {
		flush(false, false)
	}
	return measures, nil
}

func isDigit(b byte) bool  { return b >= '0' && b <= '9' }
func isLetter(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }

func upperLetter(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 32
	}
	return b
}
