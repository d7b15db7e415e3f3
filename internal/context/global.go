// Package context implements the Global and Code Context: the shared
// compilation state (module, type manager, diagnostics, loaded-file set)
// and the per-function state (current block, symbol scopes, break/
// continue/redo/label block stacks) the visitors thread through a
// compilation. Grounded directly on
// original_source/src/CodeContext.h's GlobalContext and CodeContext.
package context

import (
	"io"

	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/internal/backend"
	"github.com/jdm64/saphyr/internal/diagnostics"
	"github.com/jdm64/saphyr/internal/symtab"
	"github.com/jdm64/saphyr/internal/types"
	"github.com/jdm64/saphyr/pkg/token"
)

// Diagnostic is the compile-error type errors are recorded as; see
// internal/diagnostics for its wire format and optional caret rendering.
type Diagnostic = diagnostics.Diagnostic

// GlobalContext is the compilation-wide state shared by every function's
// CodeContext: the back-end module, the type manager, accumulated
// diagnostics, stored declaration attributes, and the set of source
// files already loaded (so repeated `import` statements are no-ops).
type GlobalContext struct {
	Module  backend.Module
	Types   *types.TypeManager
	Global  *symtab.ScopeTable

	errors []Diagnostic
	attrs  map[string]*ast.List[*ast.Attribute]

	allFiles   map[string]bool
	filesStack []string

	userBackend map[string]backend.Type
}

// NewGlobalContext builds a fresh GlobalContext bound to the given
// back-end module.
func NewGlobalContext(module backend.Module) *GlobalContext {
	return &GlobalContext{
		Module: module,
		Types:  types.New(),
		Global: symtab.NewScope(),
		attrs:  map[string]*ast.List[*ast.Attribute]{},
		allFiles: map[string]bool{},
		userBackend: map[string]backend.Type{},
	}
}

// BackendType materializes the back-end type corresponding to the
// source-level t, creating and caching an opaque named struct the first
// time a struct/union/class type is requested so that self-referential
// and mutually-recursive user types (a struct holding a pointer to
// itself) resolve without infinite recursion — mirroring the two-phase
// DeclareOpaque/SetStructBody split the Type Manager itself uses.
func (g *GlobalContext) BackendType(t types.Type) backend.Type {
	switch {
	case t == nil:
		return nil
	case t.IsVoid(), t.IsAuto():
		return g.Module.VoidType()
	case t.IsPointer(), t.IsReference():
		return g.Module.PointerType(g.BackendType(t.Subtype()))
	case t.IsArray():
		at := t.(*types.ArrayType)
		return g.Module.ArrayType(g.BackendType(at.Base), int(at.Count))
	case t.IsVec():
		vt := t.(*types.VecType)
		return g.Module.VectorType(g.BackendType(vt.Base), int(vt.Count))
	case t.IsFunction():
		ft := t.(*types.FunctionType)
		params := make([]backend.Type, len(ft.Params))
		for i, p := range ft.Params {
			params[i] = g.BackendType(p)
		}
		return g.Module.FunctionType(g.BackendType(ft.Return), params, ft.VarArg)
	case t.IsEnum():
		return g.BackendType(t.Subtype())
	case t.IsAlias():
		return g.BackendType(t.Subtype())
	case t.IsStruct(), t.IsUnion(), t.IsClass():
		return g.userBackendType(t.(types.UserType))
	case t.IsDouble():
		return g.Module.DoubleType()
	case t.IsFloating():
		return g.Module.FloatType()
	case g.Types.IsBool(t):
		return g.Module.IntType(1)
	case t.IsInteger():
		return g.Module.IntType(int(t.AllocSize() * 8))
	default:
		return g.Module.VoidType()
	}
}

func (g *GlobalContext) userBackendType(t types.UserType) backend.Type {
	if bt, ok := g.userBackend[t.Name()]; ok {
		return bt
	}
	bt := g.Module.NamedStruct(t.Name())
	g.userBackend[t.Name()] = bt

	switch v := t.(type) {
	case *types.ClassType:
		g.Module.SetStructBody(bt, g.fieldBackendTypes(v.Fields), false)
	case *types.StructType:
		g.Module.SetStructBody(bt, g.fieldBackendTypes(v.Fields), false)
	case *types.UnionType:
		// all members overlap byte 0; represented as a single opaque byte
		// array sized to the largest member, with LoadMemberVar bitcasting
		// to the member's real pointer type on access.
		g.Module.SetStructBody(bt, []backend.Type{g.Module.ArrayType(g.Module.IntType(8), int(v.AllocSize()))}, false)
	}
	return bt
}

func (g *GlobalContext) fieldBackendTypes(fields []types.Field) []backend.Type {
	out := make([]backend.Type, len(fields))
	for i, f := range fields {
		out[i] = g.BackendType(f.Type)
	}
	return out
}

// AddError records a diagnostic at tok's location. The core keeps walking
// after an error (so a single compilation can surface many problems at
// once); HandleErrors is what actually aborts the run.
func (g *GlobalContext) AddError(tok token.Token, format string, args ...interface{}) {
	g.errors = append(g.errors, diagnostics.New(tok, format, args...))
}

// HasErrors reports whether any diagnostic has been recorded.
func (g *GlobalContext) HasErrors() bool { return len(g.errors) > 0 }

// Errors returns every recorded diagnostic, in report order.
func (g *GlobalContext) Errors() []Diagnostic { return g.errors }

// HandleErrors writes every diagnostic to w followed by "found N errors",
// matching CodeContext.h's handleErrors wire format exactly, and reports
// whether any were printed.
func (g *GlobalContext) HandleErrors(w io.Writer) bool {
	return diagnostics.HandleAll(w, g.errors)
}

// StoreAttr remembers the attribute list most recently parsed for name
// (a struct/class/function/variable declaration), so a later lookup (the
// Data-Type Visitor checking for `#[packed]`, the Statement Visitor
// checking for `#[static]`) can retrieve it by name alone.
func (g *GlobalContext) StoreAttr(name string, attrs *ast.List[*ast.Attribute]) {
	if attrs.Len() == 0 {
		return
	}
	g.attrs[name] = attrs
}

// LoadAttr retrieves the attribute list stored under name, or nil.
func (g *GlobalContext) LoadAttr(name string) *ast.List[*ast.Attribute] {
	return g.attrs[name]
}

// PushFile marks path as the currently-compiling file (for nested
// `import file "...";` statements) and records it as loaded.
func (g *GlobalContext) PushFile(path string) {
	g.filesStack = append(g.filesStack, path)
	g.allFiles[path] = true
}

// PopFile returns to the file that was compiling before the most recent
// PushFile.
func (g *GlobalContext) PopFile() {
	if n := len(g.filesStack); n > 0 {
		g.filesStack = g.filesStack[:n-1]
	}
}

// CurrentFile returns the file currently being compiled, or "" if none.
func (g *GlobalContext) CurrentFile() string {
	if n := len(g.filesStack); n > 0 {
		return g.filesStack[n-1]
	}
	return ""
}

// FileLoaded reports whether path has already been imported, so a second
// `import file "a.syp";` for the same path is silently skipped.
func (g *GlobalContext) FileLoaded(path string) bool { return g.allFiles[path] }

// StoreGlobalSymbol declares sym at module scope. Returns false if the
// name is already bound at module scope.
func (g *GlobalContext) StoreGlobalSymbol(sym *symtab.Symbol) bool {
	return g.Global.Store(sym)
}

// LoadGlobalSymbol looks up name at module scope only.
func (g *GlobalContext) LoadGlobalSymbol(name string) (*symtab.Symbol, bool) {
	return g.Global.Load(name)
}
