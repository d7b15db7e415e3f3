package context

import (
	"testing"

	"github.com/jdm64/saphyr/internal/backend"
	"github.com/jdm64/saphyr/internal/backend/mockbackend"
	"github.com/jdm64/saphyr/internal/symtab"
	"github.com/jdm64/saphyr/internal/value"
	"github.com/jdm64/saphyr/pkg/token"
)

func newTestContext(t *testing.T) (*GlobalContext, *CodeContext, value.SFunction, backend.Block) {
	t.Helper()
	be := mockbackend.New()
	mod := be.NewModule("test")
	g := NewGlobalContext(mod)
	builder := be.NewBuilder()
	c := New(g, builder)

	fnVal := mod.DeclareFunction("main", nil, mod.VoidType(), false)
	fnTy := g.Types.Function(g.Types.Void(), nil, false)
	fn := value.NewFunction(fnVal, fnTy, nil)
	entry := fnVal.CreateBlock("entry")
	return g, c, fn, entry
}

// TestGlobalSymbolRoundtrip tests storing and loading a symbol at module
// scope.
func TestGlobalSymbolRoundtrip(t *testing.T) {
	g, _, _, _ := newTestContext(t)
	if !g.StoreGlobalSymbol(&symtab.Symbol{Name: "counter"}) {
		t.Fatal("StoreGlobalSymbol() returned false for a fresh name")
	}
	if _, ok := g.LoadGlobalSymbol("counter"); !ok {
		t.Fatal("LoadGlobalSymbol() failed to find stored symbol")
	}
}

// TestLocalShadowsGlobal tests that LoadSymbol prefers a local binding
// over a same-named global.
func TestLocalShadowsGlobal(t *testing.T) {
	g, c, fn, entry := newTestContext(t)
	g.StoreGlobalSymbol(&symtab.Symbol{Name: "x", Value: "global"})

	c.StartFuncBlock(fn, entry)
	defer c.EndFuncBlock()

	c.StoreLocalSymbol(&symtab.Symbol{Name: "x", Value: "local"})
	sym, ok := c.LoadSymbol("x")
	if !ok {
		t.Fatal("LoadSymbol() failed to find 'x'")
	}
	if sym.Value != "local" {
		t.Errorf("LoadSymbol(x).Value = %v, want local shadowing global", sym.Value)
	}
}

// TestBreakBlockLevels tests loopBranchLevel's indexing: level 1 is the
// innermost open loop, level 2 is the one enclosing it.
func TestBreakBlockLevels(t *testing.T) {
	_, c, fn, entry := newTestContext(t)
	c.StartFuncBlock(fn, entry)
	defer c.EndFuncBlock()

	outer := c.CreateBreakBlock("outer.break")
	inner := c.CreateBreakBlock("inner.break")

	got, _, ok := c.GetBreakBlock(1)
	if !ok || got != inner {
		t.Errorf("GetBreakBlock(1) = %v, want innermost block", got)
	}
	got, _, ok = c.GetBreakBlock(2)
	if !ok || got != outer {
		t.Errorf("GetBreakBlock(2) = %v, want outer block", got)
	}
	if _, _, ok := c.GetBreakBlock(3); ok {
		t.Error("GetBreakBlock(3) should fail: no third loop open")
	}
}

// TestBreakBlockRecordsScopeLevel tests that CreateBreakBlock records the
// local-scope depth active when it was registered, so a later break can
// bound CallDestructables to scopes opened since that loop.
func TestBreakBlockRecordsScopeLevel(t *testing.T) {
	_, c, fn, entry := newTestContext(t)
	c.StartFuncBlock(fn, entry)
	defer c.EndFuncBlock()

	c.PushLocalTable()
	c.CreateBreakBlock("loop.end")
	c.PushLocalTable()

	_, level, ok := c.GetBreakBlock(1)
	if !ok {
		t.Fatal("GetBreakBlock(1) should resolve the open loop")
	}
	if level != 2 {
		t.Errorf("recorded level = %d, want 2 (the function's scope plus the loop's enclosing scope)", level)
	}
}

// TestPopLoopBranchBlocksSelective tests that PopLoopBranchBlocks only
// pops the stacks named in its bitmask.
func TestPopLoopBranchBlocksSelective(t *testing.T) {
	_, c, fn, entry := newTestContext(t)
	c.StartFuncBlock(fn, entry)
	defer c.EndFuncBlock()

	c.CreateBreakBlock("b")
	c.CreateContinueBlock("k")

	c.PopLoopBranchBlocks(Break)

	if _, _, ok := c.GetBreakBlock(1); ok {
		t.Error("break block should have been popped")
	}
	if _, _, ok := c.GetContinueBlock(1); !ok {
		t.Error("continue block should still be present")
	}
}

// TestLabelUndefinedAtEndOfFunction tests that a goto referencing a label
// never declared is reported by EndFuncBlock.
func TestLabelUndefinedAtEndOfFunction(t *testing.T) {
	_, c, fn, entry := newTestContext(t)
	c.StartFuncBlock(fn, entry)

	c.GetLabelBlock(token.New("done", "a.syp", 4, 1))

	undefined := c.EndFuncBlock()
	if len(undefined) != 1 {
		t.Fatalf("len(undefined) = %d, want 1", len(undefined))
	}
	if undefined[0].Message != "label done not defined" {
		t.Errorf("message = %q, want %q", undefined[0].Message, "label done not defined")
	}
}

// TestLabelResolvedByStatement tests that CreateLabelBlock clears the
// placeholder flag a prior goto left behind.
func TestLabelResolvedByStatement(t *testing.T) {
	_, c, fn, entry := newTestContext(t)
	c.StartFuncBlock(fn, entry)

	ref := c.GetLabelBlock(token.New("done", "a.syp", 4, 1))
	decl := c.CreateLabelBlock(token.New("done", "a.syp", 9, 1))
	if ref != decl {
		t.Error("CreateLabelBlock() should return the same block GetLabelBlock created")
	}

	undefined := c.EndFuncBlock()
	if len(undefined) != 0 {
		t.Fatalf("len(undefined) = %d, want 0 once the label is declared", len(undefined))
	}
}

// TestTemplateArgScoping tests that template-argument bindings resolve
// innermost-first and are isolated per CodeContext via NewForTemplate.
func TestTemplateArgScoping(t *testing.T) {
	g, _, _, _ := newTestContext(t)
	builder := mockbackend.New().NewBuilder()

	tmpl := NewForTemplate(g, builder, []TemplateArg{{Name: "T", Type: g.Types.Int(32)}})
	if !tmpl.InTemplate() {
		t.Fatal("InTemplate() should be true once constructed with args")
	}
	ty, ok := tmpl.TemplateArg("T")
	if !ok || ty != g.Types.Int(32) {
		t.Errorf("TemplateArg(T) = %v, want int32", ty)
	}
	tmpl.PushTemplateArg("T", g.Types.Int(8))
	if ty, _ := tmpl.TemplateArg("T"); ty != g.Types.Int(8) {
		t.Errorf("TemplateArg(T) after a second binding = %v, want the innermost int8", ty)
	}

	plain := New(g, builder)
	if plain.InTemplate() {
		t.Error("a plain CodeContext should not report InTemplate()")
	}
}
