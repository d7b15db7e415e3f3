package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jdm64/saphyr/pkg/token"
)

func tok(file string, line, col int) token.Token {
	return token.New("x", file, line, col)
}

// TestDiagnosticString tests the "file:line:col: message" wire format.
func TestDiagnosticString(t *testing.T) {
	d := New(tok("main.syp", 3, 5), "undeclared identifier %q", "foo")
	want := `main.syp:3:5: undeclared identifier "foo"`
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

// TestHandleAllEmpty tests that HandleAll writes nothing and reports no
// errors for an empty diagnostic list.
func TestHandleAllEmpty(t *testing.T) {
	var buf bytes.Buffer
	if HandleAll(&buf, nil) {
		t.Error("HandleAll() should return false for an empty list")
	}
	if buf.Len() != 0 {
		t.Errorf("HandleAll() wrote %q for an empty list, want nothing", buf.String())
	}
}

// TestHandleAllFormat tests the exact multi-error wire format: one line
// per error, then "found N errors".
func TestHandleAllFormat(t *testing.T) {
	errs := []Diagnostic{
		New(tok("a.syp", 1, 1), "first error"),
		New(tok("a.syp", 2, 1), "second error"),
	}
	var buf bytes.Buffer
	if !HandleAll(&buf, errs) {
		t.Fatal("HandleAll() should return true when errors were written")
	}

	want := "a.syp:1:1: first error\na.syp:2:1: second error\nfound 2 errors\n"
	if got := buf.String(); got != want {
		t.Errorf("HandleAll() wrote %q, want %q", got, want)
	}
}

// TestFormatCaretAlignment tests that the caret lines up under the
// column the diagnostic names.
func TestFormatCaretAlignment(t *testing.T) {
	d := New(tok("a.syp", 1, 5), "bad token")
	out := d.Format("let x = ;", false)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Format() produced %d lines, want 3:\n%s", len(lines), out)
	}
	caretCol := strings.IndexByte(lines[2], '^')
	if caretCol == -1 {
		t.Fatalf("Format() output has no caret:\n%s", out)
	}
	if want := len("   1 | ") + 4; caretCol != want {
		t.Errorf("caret at column %d, want %d (under col 5 of the source line):\n%s", caretCol, want, out)
	}
}

// TestFormatNoSource tests that Format degrades to the header line alone
// when no source text is available.
func TestFormatNoSource(t *testing.T) {
	d := New(tok("a.syp", 1, 1), "oops")
	out := d.Format("", false)
	if out != d.String()+"\n" {
		t.Errorf("Format(\"\", false) = %q, want %q", out, d.String()+"\n")
	}
}
