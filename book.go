package abctune

import (
	"fmt"
	"strings"
)

// SplitBook splits tunebook text into per-tune chunks. A tune starts at
// each X: line; free text before the first is dropped.
func SplitBook(content string) []string {
	var chunks []string
	var cur []string
	started := false
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "X:") {
			if started {
				chunks = append(chunks, strings.Join(cur, "\n"))
			}
			cur = nil
			started = true
		}
		if started {
			cur = append(cur, line)
		}
	}
	if started {
		chunks = append(chunks, strings.Join(cur, "\n"))
	}
	return chunks
}

// ParseBook parses every tune of a tunebook. The first failing tune
// aborts the parse, identified by its position in the book.
func ParseBook(content string, opts ...Option) ([]*Tune, error) {
	var tunes []*Tune
	for i, chunk := range SplitBook(content) {
		t, err := Parse(chunk, opts...)
		if err != nil {
			return nil, fmt.Errorf("tune %d in book: %w", i+1, err)
		}
		tunes = append(tunes, t)
	}
	return tunes, nil
}
