package abc

import "fmt"

// ParseError is fatal: bracket imbalance, malformed header lines, and
// repeat structure that cannot be resolved. Construction of the tune is
// aborted and no partial result is returned.
type ParseError struct {
	Line    int
	Col     int
	Span    string // offending source text, when available
	Measure int    // offending measure index for expansion errors, -1 otherwise
	Msg     string
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Span != "":
		return fmt.Sprintf("%d:%d: %s: %q", e.Line, e.Col, e.Msg, e.Span)
	case e.Line > 0:
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
	case e.Measure >= 0:
		return fmt.Sprintf("measure %d: %s", e.Measure, e.Msg)
	default:
		return e.Msg
	}
}

func parseErrorf(line, col int, span string, format string, args ...any) *ParseError {
	return &ParseError{
		Line:    line,
		Col:     col,
		Span:    span,
		Measure: -1,
		Msg:     fmt.Sprintf(format, args...),
	}
}

// ExpandErrorf builds a ParseError positioned at a measure rather than a
// text span, for errors found while resolving repeats.
func ExpandErrorf(measure int, format string, args ...any) *ParseError {
	return &ParseError{Measure: measure, Msg: fmt.Sprintf(format, args...)}
}

// UnrecognizedSpan records body text that matched no known token shape.
// Parsing continues around it; callers may lint or log the spans.
type UnrecognizedSpan struct {
	Line int
	Col  int
	Text string
}

func (s UnrecognizedSpan) String() string {
	return fmt.Sprintf("%d:%d: unrecognized %q", s.Line, s.Col, s.Text)
}
