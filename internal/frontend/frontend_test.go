package frontend

import (
	"errors"
	"testing"

	"github.com/jdm64/saphyr/internal/ast"
)

// TestFixtureParserReturnsProgram tests that a FixtureParser built around
// a program returns it verbatim with no error.
func TestFixtureParserReturnsProgram(t *testing.T) {
	program := ast.NewList[ast.Statement]()
	p := NewFixtureParser(program)

	got, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
	if got != program {
		t.Error("Parse() should return the exact program it was built with")
	}
}

// TestFailingFixtureParserReturnsError tests that a failing fixture
// parser surfaces its error and no program.
func TestFailingFixtureParserReturnsError(t *testing.T) {
	want := errors.New("boom")
	p := NewFailingFixtureParser(want)

	got, err := p.Parse()
	if err != want {
		t.Errorf("Parse() error = %v, want %v", err, want)
	}
	if got != nil {
		t.Error("a failing Parse() should return a nil program")
	}
}

// TestParseErrorFormatsLikeADiagnostic tests that ParseError's Error()
// matches the file:line:col: message shape every other diagnostic in
// this repo uses.
func TestParseErrorFormatsLikeADiagnostic(t *testing.T) {
	err := &ParseError{Tok: synthTok("x"), Message: "unexpected token"}
	want := "<example>:1:1: unexpected token"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

// TestExampleHelloBuildsOneFunction tests that the "hello" example
// resolves and names a single top-level free function.
func TestExampleHelloBuildsOneFunction(t *testing.T) {
	prog, err := Example("hello")
	if err != nil {
		t.Fatalf("Example(hello) error = %v", err)
	}
	if prog.Len() != 1 {
		t.Fatalf("hello example should have 1 top-level statement, got %d", prog.Len())
	}
	fn, ok := prog.Items[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("hello example's statement should be a FunctionDeclaration, got %T", prog.Items[0])
	}
	if fn.Name != "main" {
		t.Errorf("hello example's function name = %q, want main", fn.Name)
	}
}

// TestExampleVectorBuildsAClass tests that the "vector" example resolves
// to a single ClassDeclaration with a struct member and a constructor.
func TestExampleVectorBuildsAClass(t *testing.T) {
	prog, err := Example("vector")
	if err != nil {
		t.Fatalf("Example(vector) error = %v", err)
	}
	cls, ok := prog.Items[0].(*ast.ClassDeclaration)
	if !ok {
		t.Fatalf("vector example's statement should be a ClassDeclaration, got %T", prog.Items[0])
	}
	if cls.Name != "Vector2" {
		t.Errorf("vector example's class name = %q, want Vector2", cls.Name)
	}
	if cls.Members.Len() != 2 {
		t.Errorf("vector example's class should have 2 members (struct + ctor), got %d", cls.Members.Len())
	}
}

// TestExampleUnknownNameErrors tests that an unregistered example name
// is rejected.
func TestExampleUnknownNameErrors(t *testing.T) {
	if _, err := Example("nope"); err == nil {
		t.Error("Example(nope) should error for an unregistered name")
	}
}

// TestExampleNamesListsEveryExample tests that ExampleNames reports
// every registered example with no duplicates.
func TestExampleNamesListsEveryExample(t *testing.T) {
	names := ExampleNames()
	seen := map[string]bool{}
	for _, n := range names {
		if seen[n] {
			t.Errorf("ExampleNames() repeats %q", n)
		}
		seen[n] = true
	}
	if !seen["hello"] || !seen["vector"] {
		t.Errorf("ExampleNames() = %v, want it to include hello and vector", names)
	}
}
