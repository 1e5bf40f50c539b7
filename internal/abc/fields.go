package abc

// FieldDef describes one single-letter information field of the dialect
// and where it may legally appear.
type FieldDef struct {
	Tag    string
	Name   string
	Header bool // tune header
	Body   bool // body line
	Inline bool // bracketed inside a measure
}

var FieldDefs = []FieldDef{
	{"A", "area", true, false, false},
	{"B", "book", true, false, false},
	{"C", "composer", true, false, false},
	{"D", "discography", true, false, false},
	{"F", "file url", true, false, false},
	{"G", "group", true, false, false},
	{"H", "history", true, false, false},
	{"I", "instruction", true, true, true},
	{"K", "key", true, true, true},
	{"L", "unit note length", true, true, true},
	{"M", "meter", true, true, true},
	{"m", "macro", true, true, true},
	{"N", "notes", true, true, true},
	{"O", "origin", true, false, false},
	{"P", "parts", true, true, true},
	{"Q", "tempo", true, true, true},
	{"R", "rhythm", true, true, true},
	{"r", "remark", true, true, true},
	{"S", "source", true, false, false},
	{"s", "symbol line", false, true, false},
	{"T", "tune title", true, true, false},
	{"U", "user defined", true, true, true},
	{"V", "voice", true, true, true},
	{"W", "words", true, true, false},
	{"w", "words", false, true, false},
	{"X", "reference number", true, false, false},
	{"Z", "transcription", true, false, false},
}

// FieldDefByTag looks up the definition for a field letter.
func FieldDefByTag(tag string) (FieldDef, bool) {
	for _, def := range FieldDefs {
		if def.Tag == tag {
			return def, true
		}
	}
	return FieldDef{}, false
}

// FieldName returns the long name of a field letter, or the letter itself
// for unknown fields (which are stored verbatim, not rejected).
func FieldName(tag string) string {
	if def, ok := FieldDefByTag(tag); ok {
		return def.Name
	}
	return tag
}
