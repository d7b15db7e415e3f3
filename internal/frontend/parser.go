// Package frontend defines the pluggable lexer/parser collaborator this
// core consumes but never implements for real (spec §1/§6): lexing and
// parsing are out of scope, so this package carries only the interface
// the rest of the repo codes against, plus a fixture-backed
// implementation standing in for a real one.
package frontend

import (
	"fmt"

	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/pkg/token"
)

// Parser produces one compilation unit's root statement list, or an
// error located at a token, matching §6's external interface exactly:
// internal/builder.Run consumes whatever Parse returns and never lexes
// or parses anything itself. Modeled on sokoide-llvm5's
// interfaces.Parser/Lexer shape, narrowed down to the one method this
// core actually calls.
type Parser interface {
	Parse() (*ast.StatementList, error)
}

// ParseError locates a parser failure the way every other diagnostic in
// this repo is located, so a Parser implementation's errors render
// through internal/diagnostics identically to a semantic one.
type ParseError struct {
	Tok     token.Token
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Tok.File, e.Tok.Line, e.Tok.Col, e.Message)
}

// FixtureParser is a Parser backed by a statement list built ahead of
// time in Go rather than lexed from source text — the "bundled fixture
// frontend" spec.md's Expansion describes. cmd/saphyrc does not use it:
// its example programs (see examples.go) are built by Example and handed
// to the builder directly; this package's own tests exercise it.
type FixtureParser struct {
	Program *ast.StatementList
	Err     error
}

// NewFixtureParser wraps an already-built statement list.
func NewFixtureParser(program *ast.StatementList) *FixtureParser {
	return &FixtureParser{Program: program}
}

// NewFailingFixtureParser builds a Parser that always fails, for
// exercising a frontend caller's error path without a real parse
// failure to provoke one.
func NewFailingFixtureParser(err error) *FixtureParser {
	return &FixtureParser{Err: err}
}

func (p *FixtureParser) Parse() (*ast.StatementList, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Program, nil
}
