package visit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/internal/backend"
	"github.com/jdm64/saphyr/internal/backend/mockbackend"
	"github.com/jdm64/saphyr/internal/context"
	"github.com/jdm64/saphyr/internal/instructions"
	"github.com/jdm64/saphyr/internal/symtab"
	"github.com/jdm64/saphyr/internal/types"
	"github.com/jdm64/saphyr/internal/value"
)

// newTestFuncContext builds a test CodeContext for a function named "fn"
// returning retTy, unlike newTestContext's hard-coded void "main" —
// needed to exercise visitReturnStatement's void/non-void diagnostics and
// its cast-and-return happy path.
func newTestFuncContext(t *testing.T, retTy func(g *context.GlobalContext) types.Type) *context.CodeContext {
	t.Helper()
	be := mockbackend.New()
	mod := be.NewModule("test")
	g := context.NewGlobalContext(mod)
	builder := be.NewBuilder()
	c := context.New(g, builder)

	rt := retTy(g)
	fnVal := mod.DeclareFunction("fn", nil, g.BackendType(rt), false)
	fnTy := g.Types.Function(rt, nil, false)
	fn := value.NewFunction(fnVal, fnTy, nil)
	entry := fnVal.CreateBlock("entry")
	c.StartFuncBlock(fn, entry)
	t.Cleanup(func() { c.EndFuncBlock() })
	return c
}

// TestVisitExpressionStm tests that a bare expression statement evaluates
// its expression and records no diagnostic on success.
func TestVisitExpressionStm(t *testing.T) {
	c := newTestContext(t)
	Visit(c, ast.NewExpressionStm(ast.NewIntConst(tok("1"), 1, 10)))
	if c.Global.HasErrors() {
		t.Error("visiting a bare int-literal expression statement should not error")
	}
}

// TestVisitVariableDeclAllocatesLocal tests that `int x = 5;` allocates
// storage, stores it under the declared name, and runs the scalar
// cast-and-store path in InitVariable.
func TestVisitVariableDeclAllocatesLocal(t *testing.T) {
	c := newTestContext(t)
	decl := ast.NewVariableDecl(tok("x"), ast.NewIntConst(tok("5"), 5, 10))
	decl.Type = ast.NewBaseType(tok("int"), ast.KindInt)

	Visit(c, decl)
	if c.Global.HasErrors() {
		t.Fatalf("visiting `int x = 5;` should not error")
	}
	sym, ok := c.LoadSymbolLocal("x")
	if !ok {
		t.Fatal("visiting `int x = 5;` should declare x as a local")
	}
	if sym.Type != c.Global.Types.Int(32) {
		t.Errorf("x's type = %v, want int32", sym.Type)
	}
}

// TestVisitVariableDeclAutoInfersFromInit tests that an `auto` declaration
// takes its type from the single initializer.
func TestVisitVariableDeclAutoInfersFromInit(t *testing.T) {
	c := newTestContext(t)
	decl := ast.NewVariableDecl(tok("x"), ast.NewIntConst(tok("5"), 5, 10))
	decl.Type = ast.NewBaseType(tok("auto"), ast.KindAuto)

	Visit(c, decl)
	if c.Global.HasErrors() {
		t.Fatalf("visiting `auto x = 5;` should not error")
	}
	sym, _ := c.LoadSymbolLocal("x")
	if sym.Type != c.Global.Types.Int(32) {
		t.Errorf("auto x's inferred type = %v, want int32", sym.Type)
	}
}

// TestVisitVariableDeclAutoRequiresInitErrors tests that an uninitialized
// `auto` declaration is rejected.
func TestVisitVariableDeclAutoRequiresInitErrors(t *testing.T) {
	c := newTestContext(t)
	decl := ast.NewVariableDecl(tok("x"), nil)
	decl.Type = ast.NewBaseType(tok("auto"), ast.KindAuto)

	Visit(c, decl)
	if !c.Global.HasErrors() {
		t.Error("visiting `auto x;` with no initializer should record a diagnostic")
	}
}

// TestVisitVariableDeclRedeclareErrors tests that declaring the same name
// twice in the same scope is rejected.
func TestVisitVariableDeclRedeclareErrors(t *testing.T) {
	c := newTestContext(t)
	mk := func() *ast.VariableDecl {
		d := ast.NewVariableDecl(tok("x"), ast.NewIntConst(tok("5"), 5, 10))
		d.Type = ast.NewBaseType(tok("int"), ast.KindInt)
		return d
	}
	Visit(c, mk())
	if c.Global.HasErrors() {
		t.Fatal("first declaration of x should not error")
	}
	Visit(c, mk())
	if !c.Global.HasErrors() {
		t.Error("redeclaring x in the same scope should record a diagnostic")
	}
}

// TestVisitVariableDeclGroup tests that a shared-type declaration group
// declares every entry.
func TestVisitVariableDeclGroup(t *testing.T) {
	c := newTestContext(t)
	intType := ast.NewBaseType(tok("int"), ast.KindInt)
	a := ast.NewVariableDecl(tok("a"), ast.NewIntConst(tok("1"), 1, 10))
	b := ast.NewVariableDecl(tok("b"), ast.NewIntConst(tok("2"), 2, 10))
	group := ast.NewVariableDeclGroup(intType, ast.NewList(a, b))

	Visit(c, group)
	if c.Global.HasErrors() {
		t.Fatalf("visiting a variable decl group should not error")
	}
	if _, ok := c.LoadSymbolLocal("a"); !ok {
		t.Error("variable decl group should declare a")
	}
	if _, ok := c.LoadSymbolLocal("b"); !ok {
		t.Error("variable decl group should declare b")
	}
}

func boolConst(b bool) ast.Expression { return ast.NewBoolConst(tok("true"), b) }

func emptyBody() *ast.StatementList { return ast.NewList[ast.Statement]() }

// TestVisitLoopStatementWithBreak tests that a bare `loop { break; }`
// lowers without error and that the break resolves against the loop's
// own break block rather than failing as "outside a loop".
func TestVisitLoopStatementWithBreak(t *testing.T) {
	c := newTestContext(t)
	brk := ast.NewLoopBranch(tok("break"), ast.BranchBreak, nil)
	body := ast.NewList[ast.Statement](brk)
	loop := ast.NewLoopStatement(tok("loop"), body)

	Visit(c, loop)
	if c.Global.HasErrors() {
		t.Errorf("visiting `loop { break; }` should not error, got diagnostics")
	}
}

// TestVisitLoopBranchBreakLeavesOuterScopeForFunctionExit tests spec §4.10:
// break/continue/redo destruct only the scopes opened since their target
// loop, not every open scope. A class-typed local declared in the
// function's own scope before a `loop { break; }` must not have its
// destructor called by the break — only once, when the function itself
// falls off the end. Before this was bounded by the loop's recorded scope
// depth, the break destructed every open scope (including this one), and
// the function's own implicit-return cleanup destructed it a second time.
func TestVisitLoopBranchBreakLeavesOuterScopeForFunctionExit(t *testing.T) {
	c := newTestContext(t)
	g := c.Global

	ut, err := g.Types.DeclareOpaque("Res", types.CLASS)
	if err != nil {
		t.Fatalf("DeclareOpaque() error: %v", err)
	}
	ct := ut.(*types.ClassType)
	g.Types.SetStructBody(&ct.StructType, []types.Field{{Name: "$pad", Type: g.Types.UInt(8)}})

	ptrTy := g.Types.Pointer(ct)
	dtorFnTy := g.Types.Function(g.Types.Void(), []types.Type{ptrTy}, false)
	g.Module.DeclareFunction("Res.dtor", []backend.Type{g.BackendType(ptrTy)}, g.BackendType(g.Types.Void()), false)
	ct.Destructor = &types.Method{Name: "~this", MangledName: "Res.dtor", Type: dtorFnTy}

	slot := c.Builder().Alloca(g.BackendType(ct), "res")
	c.StoreLocalSymbol(&symtab.Symbol{Name: "res", Value: value.New(slot, ct), Type: ct, Destructable: true})

	brk := ast.NewLoopBranch(tok("break"), ast.BranchBreak, nil)
	loop := ast.NewLoopStatement(tok("loop"), ast.NewList[ast.Statement](brk))
	Visit(c, loop)
	if c.Global.HasErrors() {
		t.Fatalf("visiting `loop { break; }` should not error, got diagnostics")
	}

	// Mirror builder.codegenOne's implicit-void-return cleanup for a
	// function body that falls off the end without an explicit return.
	instructions.CallDestructables(c, tok("eof"), 0)
	c.Builder().RetVoid()

	var out bytes.Buffer
	g.Module.Print(&out)
	if n := strings.Count(out.String(), "@Res.dtor("); n != 1 {
		t.Errorf("Res's destructor was called %d times in the emitted IR, want exactly 1", n)
	}
}

// TestVisitWhileStatementVariants tests that while/do-while/until/do-until
// all lower without diagnostics across their DoWhile/Until flag
// combinations.
func TestVisitWhileStatementVariants(t *testing.T) {
	for _, tc := range []struct {
		name             string
		doWhile, until bool
	}{
		{"while", false, false},
		{"doWhile", true, false},
		{"untilWhile", false, true},
		{"doUntil", true, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestContext(t)
			w := ast.NewWhileStatement(tok("while"), boolConst(true), emptyBody(), tc.doWhile, tc.until)
			Visit(c, w)
			if c.Global.HasErrors() {
				t.Errorf("%s should not error", tc.name)
			}
		})
	}
}

// TestVisitForStatement tests that `for (pre; cond; post) { body }` lowers
// without diagnostics, including a continue inside the body.
func TestVisitForStatement(t *testing.T) {
	c := newTestContext(t)
	pre := ast.NewList[ast.Statement]()
	post := ast.NewList[ast.Expression]()
	cont := ast.NewLoopBranch(tok("continue"), ast.BranchContinue, nil)
	body := ast.NewList[ast.Statement](cont)
	f := ast.NewForStatement(tok("for"), pre, boolConst(true), post, body)

	Visit(c, f)
	if c.Global.HasErrors() {
		t.Errorf("visiting a for-statement with a continue in its body should not error")
	}
}

// TestVisitIfStatementWithoutElse tests that an if with no else clause
// joins directly at the synthetic else block.
func TestVisitIfStatementWithoutElse(t *testing.T) {
	c := newTestContext(t)
	ifs := ast.NewIfStatement(tok("if"), boolConst(true), emptyBody(), nil)
	Visit(c, ifs)
	if c.Global.HasErrors() {
		t.Error("visiting an if-statement with no else should not error")
	}
}

// TestVisitIfStatementWithElse tests that an if/else pair lowers cleanly,
// each branch getting its own pushed local scope.
func TestVisitIfStatementWithElse(t *testing.T) {
	c := newTestContext(t)
	thenDecl := ast.NewVariableDecl(tok("a"), ast.NewIntConst(tok("1"), 1, 10))
	thenDecl.Type = ast.NewBaseType(tok("int"), ast.KindInt)
	elseDecl := ast.NewVariableDecl(tok("b"), ast.NewIntConst(tok("2"), 2, 10))
	elseDecl.Type = ast.NewBaseType(tok("int"), ast.KindInt)

	ifs := ast.NewIfStatement(tok("if"), boolConst(true),
		ast.NewList[ast.Statement](thenDecl), ast.NewList[ast.Statement](elseDecl))
	Visit(c, ifs)
	if c.Global.HasErrors() {
		t.Error("visiting an if/else pair should not error")
	}
	if _, ok := c.LoadSymbolLocal("a"); ok {
		t.Error("then-branch local should not leak into the enclosing scope")
	}
}

func intConst(v int64) *ast.IntConst { return ast.NewIntConst(tok("n"), v, 10) }

// TestVisitSwitchStatementHappyPath tests a switch with distinct value
// cases plus a default, each terminated by a break (no fallthrough).
func TestVisitSwitchStatementHappyPath(t *testing.T) {
	c := newTestContext(t)
	brk := func() *ast.StatementList {
		return ast.NewList[ast.Statement](ast.NewLoopBranch(tok("break"), ast.BranchBreak, nil))
	}
	case1 := ast.NewSwitchCase(tok("case"), brk(), intConst(1))
	case2 := ast.NewSwitchCase(tok("case"), brk(), intConst(2))
	def := ast.NewSwitchCase(tok("default"), brk(), nil)
	sw := ast.NewSwitchStatement(tok("switch"), ast.NewIntConst(tok("1"), 1, 10),
		ast.NewList(case1, case2, def))

	Visit(c, sw)
	if c.Global.HasErrors() {
		t.Errorf("visiting a well-formed switch should not error")
	}
}

// TestVisitSwitchStatementFallthrough tests that a case with no
// terminating statement falls through into the next case's block rather
// than erroring.
func TestVisitSwitchStatementFallthrough(t *testing.T) {
	c := newTestContext(t)
	case1 := ast.NewSwitchCase(tok("case"), emptyBody(), intConst(1))
	case2 := ast.NewSwitchCase(tok("case"),
		ast.NewList[ast.Statement](ast.NewLoopBranch(tok("break"), ast.BranchBreak, nil)), intConst(2))
	sw := ast.NewSwitchStatement(tok("switch"), ast.NewIntConst(tok("1"), 1, 10), ast.NewList(case1, case2))

	Visit(c, sw)
	if c.Global.HasErrors() {
		t.Errorf("a case with an empty body should fall through, not error")
	}
}

// TestVisitSwitchStatementDuplicateDefaultErrors tests that more than one
// default arm is rejected.
func TestVisitSwitchStatementDuplicateDefaultErrors(t *testing.T) {
	c := newTestContext(t)
	def1 := ast.NewSwitchCase(tok("default"), emptyBody(), nil)
	def2 := ast.NewSwitchCase(tok("default"), emptyBody(), nil)
	sw := ast.NewSwitchStatement(tok("switch"), ast.NewIntConst(tok("1"), 1, 10), ast.NewList(def1, def2))

	Visit(c, sw)
	if !c.Global.HasErrors() {
		t.Error("a switch with two default arms should record a diagnostic")
	}
}

// TestVisitSwitchStatementDuplicateCaseValueErrors tests that two cases
// sharing the same folded constant value are rejected.
func TestVisitSwitchStatementDuplicateCaseValueErrors(t *testing.T) {
	c := newTestContext(t)
	case1 := ast.NewSwitchCase(tok("case"), emptyBody(), intConst(1))
	case2 := ast.NewSwitchCase(tok("case"), emptyBody(), intConst(1))
	sw := ast.NewSwitchStatement(tok("switch"), ast.NewIntConst(tok("1"), 1, 10), ast.NewList(case1, case2))

	Visit(c, sw)
	if !c.Global.HasErrors() {
		t.Error("a switch with two cases sharing a value should record a diagnostic")
	}
}

// TestVisitSwitchStatementNonIntegerErrors tests that switching on a
// non-integer value is rejected.
func TestVisitSwitchStatementNonIntegerErrors(t *testing.T) {
	c := newTestContext(t)
	sw := ast.NewSwitchStatement(tok("switch"), boolConst(true), ast.NewList[*ast.SwitchCase]())

	Visit(c, sw)
	if !c.Global.HasErrors() {
		t.Error("switching on a bool value should record a diagnostic")
	}
}

// TestVisitLabelAndGotoForward tests a goto referencing a label declared
// later in the same function body (a forward reference).
func TestVisitLabelAndGotoForward(t *testing.T) {
	c := newTestContext(t)
	Visit(c, ast.NewGotoStatement(tok("skip")))
	if c.Global.HasErrors() {
		t.Fatal("a forward goto should not error on its own")
	}
	Visit(c, ast.NewLabelStatement(tok("skip")))
	if c.Global.HasErrors() {
		t.Error("declaring the label a forward goto referenced should not error")
	}
	if undef := c.EndFuncBlock(); len(undef) != 0 {
		t.Errorf("label should no longer be undefined at function end, got %v", undef)
	}
}

// TestVisitGotoWithoutLabelIsUndefinedAtFuncEnd tests that a goto with no
// matching label anywhere in the function is reported at function end.
func TestVisitGotoWithoutLabelIsUndefinedAtFuncEnd(t *testing.T) {
	c := newTestContext(t)
	Visit(c, ast.NewGotoStatement(tok("nowhere")))
	if undef := c.EndFuncBlock(); len(undef) == 0 {
		t.Error("a goto to a never-declared label should be reported undefined at function end")
	}
}

// TestVisitLoopBranchOutsideLoopErrors tests that break/continue/redo
// outside any loop or switch construct is rejected.
func TestVisitLoopBranchOutsideLoopErrors(t *testing.T) {
	for _, kind := range []ast.BranchKind{ast.BranchBreak, ast.BranchContinue, ast.BranchRedo} {
		c := newTestContext(t)
		Visit(c, ast.NewLoopBranch(tok("br"), kind, nil))
		if !c.Global.HasErrors() {
			t.Errorf("branch kind %v outside a loop should record a diagnostic", kind)
		}
	}
}

// TestVisitDeleteStatementNonPointerErrors tests that `delete` on a
// non-pointer local is rejected.
func TestVisitDeleteStatementNonPointerErrors(t *testing.T) {
	c := newTestContext(t)
	i32 := c.Global.Types.Int(32)
	slot := c.Builder().Alloca(c.Global.BackendType(i32), "x")
	declareLocal(c, "x", i32, value.New(slot, i32))

	Visit(c, ast.NewDeleteStatement(ast.NewBaseVariable(tok("x"))))
	if !c.Global.HasErrors() {
		t.Error("`delete` on a non-pointer local should record a diagnostic")
	}
}

// TestVisitDeleteStatementPointerHappyPath tests that `delete` on a
// pointer local runs without error (destructor-call-then-free path, with
// no destructor to call on a pointer-to-int).
func TestVisitDeleteStatementPointerHappyPath(t *testing.T) {
	c := newTestContext(t)
	i32 := c.Global.Types.Int(32)
	ptrTy := c.Global.Types.Pointer(i32)
	slot := c.Builder().Alloca(c.Global.BackendType(ptrTy), "p")
	declareLocal(c, "p", ptrTy, value.New(slot, ptrTy))

	Visit(c, ast.NewDeleteStatement(ast.NewBaseVariable(tok("p"))))
	if c.Global.HasErrors() {
		t.Error("`delete` on a pointer-to-int local should not error")
	}
}

// TestVisitDestructorCallNonClassErrors tests that the compiler-synthesized
// destructor call is rejected against a non-class, non-pointer-to-class
// local.
func TestVisitDestructorCallNonClassErrors(t *testing.T) {
	c := newTestContext(t)
	i32 := c.Global.Types.Int(32)
	slot := c.Builder().Alloca(c.Global.BackendType(i32), "x")
	declareLocal(c, "x", i32, value.New(slot, i32))

	Visit(c, ast.NewDestructorCall(ast.NewBaseVariable(tok("x")), tok("~this")))
	if !c.Global.HasErrors() {
		t.Error("destructor call against a plain int local should record a diagnostic")
	}
}

// TestVisitReturnStatementVoidWithValueErrors tests that returning a value
// from a void function is rejected.
func TestVisitReturnStatementVoidWithValueErrors(t *testing.T) {
	c := newTestContext(t)
	Visit(c, ast.NewReturnStatement(tok("return"), ast.NewIntConst(tok("1"), 1, 10)))
	if !c.Global.HasErrors() {
		t.Error("`return 1;` inside a void function should record a diagnostic")
	}
}

// TestVisitReturnStatementVoidBare tests that a bare `return;` inside a
// void function lowers without error.
func TestVisitReturnStatementVoidBare(t *testing.T) {
	c := newTestContext(t)
	Visit(c, ast.NewReturnStatement(tok("return"), nil))
	if c.Global.HasErrors() {
		t.Error("bare `return;` inside a void function should not error")
	}
}

func int32RetTy(g *context.GlobalContext) types.Type { return g.Types.Int(32) }

// TestVisitReturnStatementNonVoidBareErrors tests that a bare `return;`
// from a non-void function is rejected.
func TestVisitReturnStatementNonVoidBareErrors(t *testing.T) {
	c := newTestFuncContext(t, int32RetTy)
	Visit(c, ast.NewReturnStatement(tok("return"), nil))
	if !c.Global.HasErrors() {
		t.Error("bare `return;` from a function declared to return int should record a diagnostic")
	}
}

// TestVisitReturnStatementNonVoidHappyPath tests that `return value;`
// inside a non-void function casts the value to the function's return
// type and lowers without error.
func TestVisitReturnStatementNonVoidHappyPath(t *testing.T) {
	c := newTestFuncContext(t, int32RetTy)
	Visit(c, ast.NewReturnStatement(tok("return"), ast.NewIntConst(tok("1"), 1, 10)))
	if c.Global.HasErrors() {
		t.Error("`return 1;` from a function declared to return int should not error")
	}
}
