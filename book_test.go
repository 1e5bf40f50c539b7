package abctune

import (
	"strings"
	"testing"
)

const bookText = `Some tunebook free text.

X:1
T:First
K:C
C D E F |

X:2
T:Second
K:G
G A B c |
`

func TestSplitBook(t *testing.T) {
	chunks := SplitBook(bookText)
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d", len(chunks))
	}
	if !strings.HasPrefix(chunks[0], "X:1") || !strings.HasPrefix(chunks[1], "X:2") {
		t.Errorf("chunks split wrong: %q", chunks)
	}
}

func TestParseBook(t *testing.T) {
	tunes, err := ParseBook(bookText)
	if err != nil {
		t.Fatal(err)
	}
	if len(tunes) != 2 {
		t.Fatalf("tunes = %d", len(tunes))
	}
	if tunes[0].Title != "First" || tunes[1].Title != "Second" {
		t.Errorf("titles = %q, %q", tunes[0].Title, tunes[1].Title)
	}
	if tunes[0].ID != 1 || tunes[1].ID != 2 {
		t.Errorf("ids = %d, %d", tunes[0].ID, tunes[1].ID)
	}
}

func TestParseBookError(t *testing.T) {
	_, err := ParseBook("X:1\nK:C\nC |\n\nX:2\nK:H\nD |\n")
	if err == nil {
		t.Fatal("bad second tune accepted")
	}
	if !strings.Contains(err.Error(), "tune 2") {
		t.Errorf("error = %v", err)
	}
}

func TestParseBookEmpty(t *testing.T) {
	tunes, err := ParseBook("just prose, no tunes\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(tunes) != 0 {
		t.Errorf("tunes = %d", len(tunes))
	}
}
