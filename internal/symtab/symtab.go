// Package symtab implements the core's nested-scope symbol tables:
// per-function local scopes plus destructor tracking for values that must
// be destructed when their owning scope exits. Grounded on
// original_source/src/CodeContext.h's ScopeTable. The global/local split
// mirrors the original exactly: a single ScopeTable lives in the Global
// Context (internal/context.GlobalContext) and is shared by every
// function; each function (or template instantiation) gets its own
// LocalStack of nested ScopeTables.
package symtab

import "github.com/jdm64/saphyr/internal/types"

// Symbol is one name binding: its storage value (an opaque backend
// pointer, typed as interface{} since this package does not depend on
// internal/backend) and its source type.
type Symbol struct {
	Name         string
	Value        interface{}
	Type         types.Type
	Destructable bool
}

// ScopeTable is a single lexical scope: a flat name->Symbol map plus the
// subset of its symbols that own a destructor, in declaration order (so
// a CallDestructables pass can run them in reverse declaration order on
// scope exit).
type ScopeTable struct {
	symbols       map[string]*Symbol
	destructables []*Symbol
}

// NewScope returns an empty ScopeTable.
func NewScope() *ScopeTable {
	return &ScopeTable{symbols: map[string]*Symbol{}}
}

// Store declares sym in this scope. Returns false if the name is already
// bound in this exact scope (shadowing an outer scope is allowed; a
// redeclaration within the same scope is not).
func (s *ScopeTable) Store(sym *Symbol) bool {
	if _, exists := s.symbols[sym.Name]; exists {
		return false
	}
	s.symbols[sym.Name] = sym
	if sym.Destructable {
		s.destructables = append(s.destructables, sym)
	}
	return true
}

// Load looks up name within this scope only (no outer-scope fallthrough).
func (s *ScopeTable) Load(name string) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Destructables returns this scope's destructable symbols in declaration
// order.
func (s *ScopeTable) Destructables() []*Symbol { return s.destructables }

// LocalStack is the stack of nested ScopeTables belonging to one function
// body (or one template instantiation's function body).
type LocalStack struct {
	scopes []*ScopeTable
}

// NewLocalStack returns an empty LocalStack.
func NewLocalStack() *LocalStack { return &LocalStack{} }

// Push enters a new nested local scope (function body, block, loop body,
// if-branch, ...).
func (t *LocalStack) Push() {
	t.scopes = append(t.scopes, NewScope())
}

// Pop exits the innermost local scope, returning it so callers can
// inspect its Destructables before it is discarded.
func (t *LocalStack) Pop() *ScopeTable {
	n := len(t.scopes)
	top := t.scopes[n-1]
	t.scopes = t.scopes[:n-1]
	return top
}

// Current returns the innermost local scope without popping it, or nil
// if no local scope is active.
func (t *LocalStack) Current() *ScopeTable {
	if len(t.scopes) == 0 {
		return nil
	}
	return t.scopes[len(t.scopes)-1]
}

// Clear discards every local scope, used by CodeContext.EndFuncBlock.
func (t *LocalStack) Clear() { t.scopes = nil }

// StoreCurrent declares sym in the innermost local scope.
func (t *LocalStack) StoreCurrent(sym *Symbol) bool {
	return t.Current().Store(sym)
}

// Load walks the scope stack from innermost to outermost, returning the
// first match.
func (t *LocalStack) Load(name string) (*Symbol, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i].Load(name); ok {
			return sym, true
		}
	}
	return nil, false
}

// LoadCurrent looks up name in the innermost scope only (the block a
// variable declaration is about to be added to), used for redeclaration
// checks. If no scope is pushed, it returns (nil, false) — callers fall
// back to the Global Context for module scope.
func (t *LocalStack) LoadCurrent(name string) (*Symbol, bool) {
	if cur := t.Current(); cur != nil {
		return cur.Load(name)
	}
	return nil, false
}

// Destructables returns the destructables of every scope from fromLevel
// up to the innermost, innermost first, matching CodeContext.cpp's
// getDestructables(level) (`for (i = level; i < localTable.size(); i++)`,
// collected then walked in reverse here so callers still get LIFO order).
// A plain `return` passes fromLevel 0 to unwind the whole stack; `break`/
// `continue`/`redo` pass the scope depth recorded when their target
// loop's block was created, so scopes opened before that loop are left
// for their own real exit point instead of being destructed twice.
func (t *LocalStack) Destructables(fromLevel int) []*Symbol {
	if fromLevel < 0 {
		fromLevel = 0
	}
	var out []*Symbol
	for i := len(t.scopes) - 1; i >= fromLevel; i-- {
		ds := t.scopes[i].Destructables()
		for j := len(ds) - 1; j >= 0; j-- {
			out = append(out, ds[j])
		}
	}
	return out
}

// Len returns the number of local scopes currently pushed, the scope
// depth CodeContext records alongside each continue/break/redo block.
func (t *LocalStack) Len() int { return len(t.scopes) }

// Empty reports whether no local scope is currently pushed.
func (t *LocalStack) Empty() bool { return len(t.scopes) == 0 }
