// Package diagnostics formats the compile errors the Global Context
// accumulates. The wire format used by HandleAll is fixed by
// original_source/src/CodeContext.h's GlobalContext::handleErrors
// exactly; the colorized caret rendering is an interactive-terminal
// extra modeled on the teacher's internal/errors package.
package diagnostics

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/width"

	"github.com/jdm64/saphyr/pkg/token"
)

// Diagnostic is one reported error: its source token and message.
type Diagnostic struct {
	Tok     token.Token
	Message string
}

// New builds a Diagnostic at tok's location.
func New(tok token.Token, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Tok: tok, Message: fmt.Sprintf(format, args...)}
}

// String renders "file:line:col: message", the line format used both by
// the plain wire output and as the header of the colorized rendering.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", d.Tok.File, d.Tok.Line, d.Tok.Col, d.Message)
}

// HandleAll writes every diagnostic to w as "file:line:col: message",
// one per line, followed by "found N errors" when errs is non-empty —
// the exact wire format GlobalContext::handleErrors produces, consumed
// by tooling that greps saphyrc's stderr. Reports whether anything was
// written.
func HandleAll(w io.Writer, errs []Diagnostic) bool {
	for _, e := range errs {
		fmt.Fprintf(w, "%s\n", e.String())
	}
	if len(errs) > 0 {
		fmt.Fprintf(w, "found %d errors\n", len(errs))
	}
	return len(errs) > 0
}

// Format renders d with a source-line excerpt and a caret pointing at
// Tok.Col, optionally in color, for interactive terminal use (cmd/saphyrc
// itself reports through HandleAll only). source is the full text of
// Tok.File; pass "" when unavailable to fall back to the header-only
// form HandleAll uses.
func (d Diagnostic) Format(source string, color bool) string {
	var sb strings.Builder
	sb.WriteString(d.String())
	sb.WriteByte('\n')

	line := sourceLine(source, d.Tok.Line)
	if line == "" {
		return sb.String()
	}

	prefix := fmt.Sprintf("%4d | ", d.Tok.Line)
	sb.WriteString(prefix)
	sb.WriteString(line)
	sb.WriteByte('\n')

	sb.WriteString(strings.Repeat(" ", len(prefix)+displayWidth(line, d.Tok.Col-1)))
	if color {
		sb.WriteString("\033[1;31m")
	}
	sb.WriteByte('^')
	if color {
		sb.WriteString("\033[0m")
	}
	sb.WriteByte('\n')
	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// displayWidth sums the terminal column width of the first n runes of
// line, so the caret lines up correctly under wide (e.g. CJK) source
// text rather than assuming one column per rune.
func displayWidth(line string, n int) int {
	w, count := 0, 0
	for _, r := range line {
		if count >= n {
			break
		}
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
		count++
	}
	return w
}

// FormatAll renders every diagnostic with Format, separated by a blank
// line, for the multi-error case.
func FormatAll(errs []Diagnostic, source string, color bool) string {
	var sb strings.Builder
	for i, e := range errs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Format(source, color))
	}
	if len(errs) > 0 {
		fmt.Fprintf(&sb, "\nfound %d errors\n", len(errs))
	}
	return sb.String()
}
