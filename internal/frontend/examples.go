package frontend

import (
	"fmt"

	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/pkg/token"
)

func synthTok(text string) token.Token { return token.New(text, "<example>", 1, 1) }

func intTy() *ast.BaseType  { return ast.NewBaseType(synthTok("int"), ast.KindInt32) }
func voidTy() *ast.BaseType { return ast.NewBaseType(synthTok("void"), ast.KindVoid) }

// examples holds the canned programs `cmd/saphyrc`'s `compile <example>`
// subcommand builds through Example, in lieu of a real source file a real
// lexer/parser would otherwise produce.
var examples = map[string]func() *ast.StatementList{
	"hello":  helloExample,
	"vector": vectorExample,
}

// Example looks up a named canned program, matching §8's end-to-end
// scenarios closely enough to exercise the same Builder paths they do.
func Example(name string) (*ast.StatementList, error) {
	build, ok := examples[name]
	if !ok {
		return nil, fmt.Errorf("frontend: no example program named %q", name)
	}
	return build(), nil
}

// ExampleNames lists every registered example, for `cmd/saphyrc compile`'s
// usage text.
func ExampleNames() []string {
	names := make([]string, 0, len(examples))
	for name := range examples {
		names = append(names, name)
	}
	return names
}

// helloExample builds `void main() { printf("hello, saphyr\n"); }` —
// the smallest program that exercises a free-function body, a builtin
// call, and a synthesized trailing return.
func helloExample() *ast.StatementList {
	call := ast.NewFunctionCall(synthTok("printf"),
		ast.NewList[ast.Expression](ast.NewStringLiteral(synthTok(`"hello, saphyr\n"`), "hello, saphyr\n")))
	body := ast.NewList[ast.Statement](ast.NewExpressionStm(call))
	main := ast.NewFunctionDeclaration(synthTok("main"), voidTy(), ast.NewList[*ast.Parameter](), body, nil)
	return ast.NewList[ast.Statement](main)
}

// vectorExample builds a two-field `class Vector2 { int x; int y; }`
// with a constructor taking both components, exercising struct-body
// completion, implicit-`this` method registration, and a constructor
// body assigning fields through `this` together.
func vectorExample() *ast.StatementList {
	xGroup := ast.NewVariableDeclGroup(intTy(), ast.NewList[*ast.VariableDecl](ast.NewVariableDecl(synthTok("x"), nil)))
	yGroup := ast.NewVariableDeclGroup(intTy(), ast.NewList[*ast.VariableDecl](ast.NewVariableDecl(synthTok("y"), nil)))
	structDecl := ast.NewClassStructDecl(synthTok("struct"), ast.NewList[*ast.VariableDeclGroup](xGroup, yGroup))

	xParam := ast.NewParameter(intTy(), synthTok("px"))
	yParam := ast.NewParameter(intTy(), synthTok("py"))
	assignX := ast.NewAssignment(ast.OpAssign, synthTok("="),
		ast.NewMemberVariable(ast.NewBaseVariable(synthTok("this")), synthTok("x")), ast.NewBaseVariable(synthTok("px")))
	assignY := ast.NewAssignment(ast.OpAssign, synthTok("="),
		ast.NewMemberVariable(ast.NewBaseVariable(synthTok("this")), synthTok("y")), ast.NewBaseVariable(synthTok("py")))
	ctorBody := ast.NewList[ast.Statement](ast.NewExpressionStm(assignX), ast.NewExpressionStm(assignY))
	ctor := ast.NewClassConstructor(synthTok("new"),
		ast.NewList[*ast.Parameter](xParam, yParam), ast.NewList[*ast.MemberInitializer](), ctorBody)

	cls := ast.NewClassDeclaration(synthTok("Vector2"), ast.NewList[ast.ClassMember](structDecl, ctor), nil)
	return ast.NewList[ast.Statement](cls)
}
