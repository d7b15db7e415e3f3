package context

import (
	"github.com/jdm64/saphyr/internal/backend"
	"github.com/jdm64/saphyr/internal/symtab"
	"github.com/jdm64/saphyr/internal/types"
	"github.com/jdm64/saphyr/internal/value"
	"github.com/jdm64/saphyr/pkg/token"
)

// labelBlock pairs a label's back-end block with the token it was first
// referenced at (for "label X not defined" reporting) and whether it is
// still a forward-reference placeholder awaiting its LabelStatement.
type labelBlock struct {
	block       backend.Block
	tok         token.Token
	isPlaceholder bool
}

// TemplateArg is one `<Name>` binding active while instantiating a
// template body, resolved by the Data-Type Visitor in place of a plain
// user-type lookup.
type TemplateArg struct {
	Name string
	Type types.Type
}

// CodeContext is the per-function compilation state: the current
// function and its `this`/enclosing-class binding (for member bodies),
// the local symbol-scope stack, the active template-argument bindings,
// and the break/continue/redo/label block bookkeeping the Statement
// Visitor needs to wire up control flow that can be referenced before
// the block it targets is created (a `break 2;` three loops deep, a
// `goto` to a label declared later in the same function).
type CodeContext struct {
	Global *GlobalContext

	builder backend.Builder
	locals  *symtab.LocalStack

	templateArgs []TemplateArg

	currFunc  value.SFunction
	haveFunc  bool
	thisType  types.Type
	currClass *types.ClassType

	funcBlocks     []backend.Block
	continueBlocks []loopBlock
	breakBlocks    []loopBlock
	redoBlocks     []loopBlock
	labelBlocks    map[string]*labelBlock
}

// New builds a CodeContext sharing g's module/type manager/diagnostics
// and issuing instructions through builder.
func New(g *GlobalContext, builder backend.Builder) *CodeContext {
	return &CodeContext{
		Global:  g,
		builder: builder,
		locals:  symtab.NewLocalStack(),
	}
}

// NewForTemplate forks a CodeContext for instantiating one template body:
// same Global/builder, but its own local-scope stack and its own
// template-argument bindings, matching CodeContext::newForTemplate's
// static factory (a fresh CodeContext per instantiation so concurrent
// instantiations of the same template never share local state).
func NewForTemplate(g *GlobalContext, builder backend.Builder, args []TemplateArg) *CodeContext {
	c := New(g, builder)
	c.templateArgs = args
	return c
}

// PushTemplateArg binds name to ty for the duration of one template
// instantiation.
func (c *CodeContext) PushTemplateArg(name string, ty types.Type) {
	c.templateArgs = append(c.templateArgs, TemplateArg{name, ty})
}

// InTemplate reports whether any template-argument bindings are active.
func (c *CodeContext) InTemplate() bool { return len(c.templateArgs) > 0 }

// TemplateArg resolves name against the active template-argument
// bindings, innermost first.
func (c *CodeContext) TemplateArg(name string) (types.Type, bool) {
	for i := len(c.templateArgs) - 1; i >= 0; i-- {
		if c.templateArgs[i].Name == name {
			return c.templateArgs[i].Type, true
		}
	}
	return nil, false
}

// --- symbol scopes ---

// PushLocalTable enters a new nested local scope.
func (c *CodeContext) PushLocalTable() { c.locals.Push() }

// PopLocalTable exits the innermost local scope and returns its
// destructables. The Statement Visitor discards this result, so leaving a
// scope normally emits no destructor calls; only return/break/continue/
// redo and a function body's implicit trailing return run
// CallDestructables.
func (c *CodeContext) PopLocalTable() []*symtab.Symbol {
	return c.locals.Pop().Destructables()
}

// StoreLocalSymbol declares sym in the innermost local scope.
func (c *CodeContext) StoreLocalSymbol(sym *symtab.Symbol) bool {
	return c.locals.StoreCurrent(sym)
}

// LoadSymbol resolves name against the local scope stack first, falling
// back to module scope — the lookup order every Variable Visitor name
// reference uses.
func (c *CodeContext) LoadSymbol(name string) (*symtab.Symbol, bool) {
	if sym, ok := c.locals.Load(name); ok {
		return sym, true
	}
	return c.Global.LoadGlobalSymbol(name)
}

// LoadSymbolLocal resolves name against the local scope stack only (used
// to detect a parameter/local shadowing a global without falling through
// to it).
func (c *CodeContext) LoadSymbolLocal(name string) (*symtab.Symbol, bool) {
	return c.locals.Load(name)
}

// LoadSymbolCurr resolves name in the innermost local scope only, the
// redeclaration check a new VariableDecl runs before StoreLocalSymbol.
func (c *CodeContext) LoadSymbolCurr(name string) (*symtab.Symbol, bool) {
	return c.locals.LoadCurrent(name)
}

// Destructables returns every local scope's destructables from fromLevel
// up to the innermost, innermost first. A `return` passes 0 to unwind
// the whole stack; `break`/`continue`/`redo` pass the scope depth their
// target loop's block was created at (see GetBreakBlock/GetContinueBlock/
// GetRedoBlock), so scopes opened before that loop are left alone.
func (c *CodeContext) Destructables(fromLevel int) []*symtab.Symbol {
	return c.locals.Destructables(fromLevel)
}

// --- current function / this / class ---

// CurrFunction returns the function currently being built.
func (c *CodeContext) CurrFunction() value.SFunction { return c.currFunc }

// SetThis binds the implicit `this` parameter's type for a member
// function body.
func (c *CodeContext) SetThis(t types.Type) { c.thisType = t }

// GetThis returns the implicit `this` parameter's type, or nil outside a
// member function body.
func (c *CodeContext) GetThis() types.Type { return c.thisType }

// SetClass binds the enclosing class while building one of its members.
func (c *CodeContext) SetClass(t *types.ClassType) { c.currClass = t }

// GetClass returns the enclosing class, or nil outside a member body.
func (c *CodeContext) GetClass() *types.ClassType { return c.currClass }

// --- function-block lifecycle ---

// StartFuncBlock begins a new function body: pushes its first local
// scope, resets the block stacks, positions the builder at the caller's
// entry block, and records fn as the current function.
func (c *CodeContext) StartFuncBlock(fn value.SFunction, entry backend.Block) {
	c.currFunc = fn
	c.haveFunc = true
	c.locals.Push()
	c.funcBlocks = []backend.Block{entry}
	c.continueBlocks = nil
	c.breakBlocks = nil
	c.redoBlocks = nil
	c.labelBlocks = map[string]*labelBlock{}
	c.builder.PositionAtEnd(entry)
}

// EndFuncBlock closes the function body, reporting "label X not defined"
// for any label referenced by a goto but never declared by a
// LabelStatement, then clears all per-function state. Returns the
// labels that were never resolved, for the caller to turn into
// diagnostics at the right token.
func (c *CodeContext) EndFuncBlock() []Diagnostic {
	var undefined []Diagnostic
	for name, lb := range c.labelBlocks {
		if lb.isPlaceholder {
			undefined = append(undefined, Diagnostic{Tok: lb.tok, Message: "label " + name + " not defined"})
		}
	}
	c.locals.Clear()
	c.funcBlocks = nil
	c.continueBlocks = nil
	c.breakBlocks = nil
	c.redoBlocks = nil
	c.labelBlocks = nil
	c.currFunc = value.SFunction{}
	c.haveFunc = false
	c.thisType = nil
	c.currClass = nil
	return undefined
}

// InFunction reports whether a function body is currently being built.
func (c *CodeContext) InFunction() bool { return c.haveFunc }

// --- generic block stack ---

// PushBlock enters blk as the new current block (the one CurrBlock
// returns), and positions the builder there.
func (c *CodeContext) PushBlock(blk backend.Block) {
	c.funcBlocks = append(c.funcBlocks, blk)
	c.builder.PositionAtEnd(blk)
}

// BranchType identifies which of a loop's per-level block stacks
// PopLoopBranchBlocks should pop from, matching CodeContext.h's
// BranchType bitmask (BREAK=1, CONTINUE=2, REDO=4) — combinable so a
// single loop construct can register more than one kind at once (a
// `for` loop registers continue+break+redo together).
type BranchType int

const (
	Break BranchType = 1 << iota
	Continue
	Redo
)

// PopLoopBranchBlocks pops the most recently pushed block from whichever
// of the break/continue/redo stacks `which` selects, when a loop
// construct finishes and its level-1 targets go out of scope.
func (c *CodeContext) PopLoopBranchBlocks(which BranchType) {
	if which&Break != 0 && len(c.breakBlocks) > 0 {
		c.breakBlocks = c.breakBlocks[:len(c.breakBlocks)-1]
	}
	if which&Continue != 0 && len(c.continueBlocks) > 0 {
		c.continueBlocks = c.continueBlocks[:len(c.continueBlocks)-1]
	}
	if which&Redo != 0 && len(c.redoBlocks) > 0 {
		c.redoBlocks = c.redoBlocks[:len(c.redoBlocks)-1]
	}
}

// CurrBlock returns the innermost active block.
func (c *CodeContext) CurrBlock() backend.Block {
	if n := len(c.funcBlocks); n > 0 {
		return c.funcBlocks[n-1]
	}
	return nil
}

// CreateBlock creates a new block on the current function without
// positioning the builder there or pushing it onto any block stack (a
// plain straight-line block, e.g. an if-statement's then/else body);
// PushBlock moves the builder onto it.
func (c *CodeContext) CreateBlock(name string) backend.Block {
	fn := c.currFunc.Val.(backend.Function)
	blk := fn.CreateBlock(name)
	return blk
}

// loopBlock pairs a break/continue/redo target block with the local-scope
// depth (symtab.LocalStack.Len()) active when it was registered, matching
// CGNStatement.cpp's visitNLoopBranch, which resolves break/continue/redo
// targets to a (block, level) pair and feeds the level straight into
// CallDestructables so only scopes opened since that loop get destructed
// early — outer scopes are left for their own real exit point.
type loopBlock struct {
	block backend.Block
	level int
}

// loopBranchLevel maps a `break`/`continue`/`redo` level argument (1 =
// innermost enclosing loop) to an index into one of the per-kind block
// stacks. A positive level counts from the innermost entry; as in the
// original, a non-positive level counts from the outermost entry
// (idx = -level-1). The bare break/continue/redo form with no argument
// is passed level 1 by the Statement Visitor.
func loopBranchLevel(blocks []loopBlock, level int) int {
	if level > 0 {
		return len(blocks) - level
	}
	return -level - 1
}

func blockAtLevel(blocks []loopBlock, level int) (backend.Block, int, bool) {
	idx := loopBranchLevel(blocks, level)
	if idx < 0 || idx >= len(blocks) {
		return nil, 0, false
	}
	return blocks[idx].block, blocks[idx].level, true
}

// GetBreakBlock resolves a `break level;` target and the scope depth it
// was registered at, or (nil, 0, false) if level names a loop that isn't
// currently open (too many levels).
func (c *CodeContext) GetBreakBlock(level int) (backend.Block, int, bool) {
	return blockAtLevel(c.breakBlocks, level)
}

// CreateBreakBlock creates and registers a new break target for the
// innermost loop (pushed onto the break-block stack at level 1), recording
// the current local-scope depth alongside it.
func (c *CodeContext) CreateBreakBlock(name string) backend.Block {
	blk := c.CreateBlock(name)
	c.breakBlocks = append(c.breakBlocks, loopBlock{blk, c.locals.Len()})
	return blk
}

// GetContinueBlock resolves a `continue level;` target and its scope depth.
func (c *CodeContext) GetContinueBlock(level int) (backend.Block, int, bool) {
	return blockAtLevel(c.continueBlocks, level)
}

// CreateContinueBlock creates and registers a new continue target for
// the innermost loop, recording the current local-scope depth.
func (c *CodeContext) CreateContinueBlock(name string) backend.Block {
	blk := c.CreateBlock(name)
	c.continueBlocks = append(c.continueBlocks, loopBlock{blk, c.locals.Len()})
	return blk
}

// GetRedoBlock resolves a `redo level;` target and its scope depth.
func (c *CodeContext) GetRedoBlock(level int) (backend.Block, int, bool) {
	return blockAtLevel(c.redoBlocks, level)
}

// CreateRedoBlock creates and registers a new redo target for the
// innermost loop, recording the current local-scope depth.
func (c *CodeContext) CreateRedoBlock(name string) backend.Block {
	blk := c.CreateBlock(name)
	c.redoBlocks = append(c.redoBlocks, loopBlock{blk, c.locals.Len()})
	return blk
}

// GetLabelBlock resolves (lazily creating, if this is the first
// reference) the block a `goto name;` targets. The returned block is a
// forward-reference placeholder until the matching LabelStatement calls
// ResolveLabel; EndFuncBlock reports any placeholder still unresolved.
func (c *CodeContext) GetLabelBlock(tok token.Token) backend.Block {
	name := tok.Text
	if lb, ok := c.labelBlocks[name]; ok {
		return lb.block
	}
	blk := c.CreateBlock("label." + name)
	c.labelBlocks[name] = &labelBlock{block: blk, tok: tok, isPlaceholder: true}
	return blk
}

// CreateLabelBlock declares the block for a LabelStatement itself,
// clearing the placeholder flag if a goto already referenced it, or
// creating it fresh if this is the label's first mention.
func (c *CodeContext) CreateLabelBlock(tok token.Token) backend.Block {
	name := tok.Text
	if lb, ok := c.labelBlocks[name]; ok {
		lb.isPlaceholder = false
		return lb.block
	}
	blk := c.CreateBlock("label." + name)
	c.labelBlocks[name] = &labelBlock{block: blk, tok: tok, isPlaceholder: false}
	return blk
}

// Builder returns the back-end instruction builder in use for this
// function, for the Instructions Helper (internal/instructions) to issue
// against.
func (c *CodeContext) Builder() backend.Builder { return c.builder }
