// Package builder implements the declaration walker: top-level type/
// function registration, struct/union/enum/class body completion, name
// mangling, and the template-instantiation driver. Grounded on
// original_source/src/Builder.cpp for the algorithm and on the teacher's
// internal/semantic/passes package for the Go multi-pass shell — a
// forward-declaration-tolerant two-phase registration followed by a
// function-body codegen phase, rather than Builder.cpp's single
// top-to-bottom pass, since a statement list here may reference a type or
// function declared later in the same file.
package builder

import (
	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/internal/backend"
	"github.com/jdm64/saphyr/internal/context"
	"github.com/jdm64/saphyr/internal/types"
	"github.com/jdm64/saphyr/internal/value"
	"github.com/jdm64/saphyr/pkg/token"
)

// pendingBody is a function or method body queued during the declaration
// phase for codegen once every type and prototype in the file is known.
type pendingBody struct {
	fn       value.SFunction
	params   *ast.List[*ast.Parameter]
	body     *ast.StatementList
	class    *types.ClassType
	isStatic bool
	tok      token.Token

	// code is the CodeContext active when this body was queued: b.code
	// for an ordinary declaration, or a per-instantiation forked context
	// carrying template-argument bindings (see Instantiate in
	// template.go) for a template member. Phase C generates the body
	// against this context rather than the Builder's ambient one so a
	// template's member bodies keep resolving their template parameters
	// at codegen time too.
	code *context.CodeContext
}

// templateDecl is a stored, not-yet-instantiated template declaration:
// either a *ast.StructDeclaration or a *ast.ClassDeclaration, keyed by
// name, matching CodeContext.h's templates map (Builder::StoreTemplate).
type templateDecl struct {
	params []string
	decl   ast.Declaration
}

// Builder walks one compilation's top-level statement list, completing
// every declared type and function against a shared GlobalContext.
type Builder struct {
	global *context.GlobalContext
	code   *context.CodeContext

	templates map[string]*templateDecl
	pending   []pendingBody

	// scratch is a single never-finalized function+block used solely to
	// run a global/enum initializer expression through the Expression
	// Visitor so RValue.IsConst can gate the "must be constant" check —
	// see foldConstExpr in const.go. It is never linked into the module's
	// real output.
	scratch value.SFunction
}

// New builds a Builder over g, issuing any instructions its constant-
// folding scratch block needs through bld (a fresh, unshared
// backend.Builder — the same one real function bodies will be built
// with, since a back end's Builder carries no state beyond "which block
// is current").
func New(g *context.GlobalContext, bld backend.Builder) *Builder {
	return &Builder{
		global:    g,
		code:      context.New(g, bld),
		templates: map[string]*templateDecl{},
	}
}

// Run walks list top to bottom, completing every declaration it finds and
// returns once every queued function/method body has been generated.
// Declarations may reference each other out of order within list: Run
// runs registration and completion passes before any function body is
// generated, so a function may call another declared later in the same
// list.
func (b *Builder) Run(list *ast.StatementList) {
	b.predeclareBuiltins()

	for _, stm := range list.Items {
		b.registerDecl(stm)
	}
	for _, stm := range list.Items {
		b.completeDecl(stm)
	}
	b.codegenPending()
}

// registerDecl runs the opaque-registration step (phase A): struct/class
// names go into the Type Manager (or the template registry) with no body
// yet, so a later declaration in the same list can reference them by name
// before they're completed.
func (b *Builder) registerDecl(stm ast.Statement) {
	switch n := stm.(type) {
	case *ast.StructDeclaration:
		b.registerStruct(n)
	case *ast.ClassDeclaration:
		b.registerClass(n)
	}
}

// completeDecl runs the completion step (phase B): every other
// declaration form, plus struct/class bodies deferred by registerDecl.
func (b *Builder) completeDecl(stm ast.Statement) {
	switch n := stm.(type) {
	case *ast.StructDeclaration:
		b.completeStruct(n)
	case *ast.ClassDeclaration:
		b.completeClass(n)
	case *ast.EnumDeclaration:
		b.createEnum(n)
	case *ast.AliasDeclaration:
		b.createAlias(n)
	case *ast.GlobalVariableDecl:
		b.createGlobalVar(n)
	case *ast.FunctionDeclaration:
		b.createFunction(n)
	case *ast.ImportFileStm:
		b.trackImport(n.Path)
	case *ast.ImportPkgStm:
		b.trackImport(n.Name)
	}
}

// trackImport records path as loaded, the one part of import handling
// that is this package's concern (§6's file-layout note) — resolving and
// parsing the imported file is the frontend collaborator's job, and by
// the time a StatementList reaches Run its imports are already merged in
// by that collaborator, so there's nothing left to load here.
func (b *Builder) trackImport(path string) {
	if !b.global.FileLoaded(path) {
		b.global.PushFile(path)
		b.global.PopFile()
	}
}
