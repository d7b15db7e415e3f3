package visit

import (
	"github.com/jdm64/saphyr/internal/ast"
	"github.com/jdm64/saphyr/internal/backend"
	"github.com/jdm64/saphyr/internal/context"
	"github.com/jdm64/saphyr/internal/instructions"
	"github.com/jdm64/saphyr/internal/symtab"
	"github.com/jdm64/saphyr/internal/types"
	"github.com/jdm64/saphyr/internal/value"
)

// Visit walks one function-body statement, matching CGNStatement's visit
// table restricted to the statement forms that can appear inside a
// function body; the declaration-level forms CGNStatement also dispatches
// (class/struct/enum/function declarations, global variables, imports,
// member initializers) are internal/builder's concern instead, since they
// need the Global Context's declaration-pass machinery rather than a
// single function's CodeContext.
func Visit(c *context.CodeContext, stm ast.Statement) {
	switch n := stm.(type) {
	case *ast.ExpressionStm:
		Eval(c, n.Expr)
	case *ast.VariableDecl:
		visitVariableDecl(c, n)
	case *ast.VariableDeclGroup:
		visitVariableDeclGroup(c, n)
	case *ast.LoopStatement:
		visitLoopStatement(c, n)
	case *ast.WhileStatement:
		visitWhileStatement(c, n)
	case *ast.ForStatement:
		visitForStatement(c, n)
	case *ast.IfStatement:
		visitIfStatement(c, n)
	case *ast.SwitchStatement:
		visitSwitchStatement(c, n)
	case *ast.LabelStatement:
		visitLabelStatement(c, n)
	case *ast.GotoStatement:
		visitGotoStatement(c, n)
	case *ast.LoopBranch:
		visitLoopBranch(c, n)
	case *ast.ReturnStatement:
		visitReturnStatement(c, n)
	case *ast.DeleteStatement:
		visitDeleteStatement(c, n)
	case *ast.DestructorCall:
		visitDestructorCall(c, n)
	default:
		c.Global.AddError(stm.Tok(), "unrecognized statement")
	}
}

// VisitList walks every statement in list in order, matching
// CGNStatement's NStatementList overload. Nil-safe for an empty body.
func VisitList(c *context.CodeContext, list *ast.StatementList) {
	if list == nil {
		return
	}
	for _, s := range list.Items {
		Visit(c, s)
	}
}

func evalCond(c *context.CodeContext, e ast.Expression) value.RValue {
	if e == nil {
		return value.Undef()
	}
	return Eval(c, e)
}

func evalExprList(c *context.CodeContext, list *ast.List[ast.Expression]) {
	if list == nil {
		return
	}
	for _, e := range list.Items {
		Eval(c, e)
	}
}

// visitVariableDecl allocates storage for a local declaration and runs
// InitVariable/CallConstructor over it, matching CGNStatement's
// NVariableDecl handling. The unsized-type rejection the original also
// performs is not reproduced here: ResolveType already decays an unsized
// array parameter type to a pointer (see datatype.go), so that state never
// reaches this function in the first place.
func visitVariableDecl(c *context.CodeContext, n *ast.VariableDecl) {
	var initList []value.RValue
	switch {
	case n.InitList != nil:
		items, ok := evalArgs(c, n.InitList)
		if !ok {
			return
		}
		initList = items
	case n.InitExp != nil:
		v := Eval(c, n.InitExp)
		if !v.IsValid() {
			return
		}
		initList = []value.RValue{v}
	}

	varType := ResolveType(c, n.Type)
	if varType == nil {
		return
	}
	switch {
	case varType.IsAuto():
		if len(initList) != 1 {
			c.Global.AddError(n.Tok(), "auto variable type requires initialization")
			return
		}
		varType = initList[0].Ty
	case varType.IsReference():
		if len(initList) != 1 {
			c.Global.AddError(n.Tok(), "reference variable type requires initialization")
			return
		}
		if varType.Subtype().IsAuto() {
			isCopyRef := varType.IsCopyRef()
			elem := initList[0].Ty
			if isCopyRef {
				varType = c.Global.Types.CopyRef(elem)
			} else {
				varType = c.Global.Types.Reference(elem)
			}
		}
	default:
		if err := c.Global.Types.Validate(varType); err != nil {
			c.Global.AddError(n.Tok(), "%s", err)
			return
		}
	}

	if len(initList) == 1 && initList[0].IsValid() && initList[0].Ty.IsReference() && !varType.IsPointer() {
		initList[0] = instructions.Deref(c, initList[0], false)
	}

	if _, ok := c.LoadSymbolCurr(n.Name); ok {
		c.Global.AddError(n.Tok(), "variable %s already defined", n.Name)
		return
	}

	slot := c.Builder().Alloca(c.Global.BackendType(varType), n.Name)
	v := value.New(slot, varType)
	sym := &symtab.Symbol{Name: n.Name, Value: v, Type: varType}
	if ct, ok := varType.(*types.ClassType); ok && ct.Destructor != nil {
		sym.Destructable = true
	}
	c.StoreLocalSymbol(sym)

	instructions.InitVariable(c, v, value.Undef(), initList, n.Tok())
}

// visitVariableDeclGroup walks every entry of a shared-type declaration
// group, matching CGNStatement's NVariableDeclGroup handling. The group's
// type is already back-filled onto each VariableDecl by
// ast.NewVariableDeclGroup, so this is a plain fan-out.
func visitVariableDeclGroup(c *context.CodeContext, n *ast.VariableDeclGroup) {
	for _, v := range n.Vars.Items {
		visitVariableDecl(c, v)
	}
}

// visitLoopStatement lowers a bare `loop { body }`, exited only via
// break/goto, matching CGNStatement's NLoopStatement handling.
func visitLoopStatement(c *context.CodeContext, n *ast.LoopStatement) {
	bodyBlock := c.CreateContinueBlock("loop.body")
	endBlock := c.CreateBreakBlock("loop.end")

	c.Builder().Br(bodyBlock)
	c.PushBlock(bodyBlock)

	c.PushLocalTable()
	VisitList(c, n.Body)
	c.PopLocalTable()

	c.Builder().Br(bodyBlock)
	c.PushBlock(endBlock)

	c.PopLoopBranchBlocks(context.Break | context.Continue)
}

// visitWhileStatement lowers `while`, `do...while`, and their `until`
// negations via the DoWhile/Until flags, matching CGNStatement's
// NWhileStatement handling.
func visitWhileStatement(c *context.CodeContext, n *ast.WhileStatement) {
	condBlock := c.CreateContinueBlock("while.cond")
	bodyBlock := c.CreateRedoBlock("while.body")
	endBlock := c.CreateBreakBlock("while.end")

	startBlock := condBlock
	if n.DoWhile {
		startBlock = bodyBlock
	}
	trueBlock, falseBlock := bodyBlock, endBlock
	if n.Until {
		trueBlock, falseBlock = endBlock, bodyBlock
	}

	c.Builder().Br(startBlock)
	c.PushBlock(condBlock)

	c.PushLocalTable()
	cond := evalCond(c, n.Cond)
	instructions.Branch(c, n.Tok(), trueBlock, falseBlock, cond)
	c.PushBlock(bodyBlock)
	VisitList(c, n.Body)
	c.PopLocalTable()

	c.Builder().Br(condBlock)
	c.PushBlock(endBlock)

	c.PopLoopBranchBlocks(context.Break | context.Continue | context.Redo)
}

// visitForStatement lowers `for (preStm; cond; postExp) { body }`, matching
// CGNStatement's NForStatement handling.
func visitForStatement(c *context.CodeContext, n *ast.ForStatement) {
	condBlock := c.CreateBlock("for.cond")
	bodyBlock := c.CreateRedoBlock("for.body")
	postBlock := c.CreateContinueBlock("for.post")
	endBlock := c.CreateBreakBlock("for.end")

	c.PushLocalTable()

	VisitList(c, n.PreStm)
	c.Builder().Br(condBlock)

	c.PushBlock(condBlock)
	cond := evalCond(c, n.Cond)
	instructions.Branch(c, n.Tok(), bodyBlock, endBlock, cond)

	c.PushBlock(bodyBlock)
	VisitList(c, n.Body)
	c.Builder().Br(postBlock)

	c.PushBlock(postBlock)
	evalExprList(c, n.PostExp)

	c.PopLocalTable()

	c.Builder().Br(condBlock)
	c.PushBlock(endBlock)

	c.PopLoopBranchBlocks(context.Break | context.Continue | context.Redo)
}

// visitIfStatement lowers `if (cond) { body } [else { elseBody }]`, matching
// CGNStatement's NIfStatement handling. ElseBody is nil when there is no
// else clause, in which case the else block is the join block itself.
func visitIfStatement(c *context.CodeContext, n *ast.IfStatement) {
	ifBlock := c.CreateBlock("if.then")
	elseBlock := c.CreateBlock("if.else")
	endBlock := elseBlock
	if n.ElseBody != nil {
		endBlock = c.CreateBlock("if.end")
	}

	c.PushLocalTable()
	cond := evalCond(c, n.Cond)
	instructions.Branch(c, n.Tok(), ifBlock, elseBlock, cond)

	c.PushBlock(ifBlock)
	VisitList(c, n.Body)
	c.PopLocalTable()
	c.Builder().Br(endBlock)

	c.PushBlock(elseBlock)
	if n.ElseBody != nil {
		c.PushLocalTable()
		VisitList(c, n.ElseBody)
		c.PopLocalTable()
		c.Builder().Br(endBlock)
	}
	c.PushBlock(endBlock)
}

// visitSwitchStatement lowers `switch (value) { cases... }`, matching
// CGNStatement's NSwitchStatement handling with one restructuring: the
// back-end Switch op (internal/backend.Builder.Switch) takes its default
// destination at creation time and offers no way to change it afterward,
// unlike LLVM's mutable setDefaultDest the original relies on for its
// "default-last-wins" rule. So every case gets its block pre-created
// before the switch instruction is built, the last `default:` arm (if more
// than one is written, each additional one is also still flagged as an
// error) decides the default block up front, and a case whose body falls
// through branches explicitly into the next case's block — the same
// chained-block shape the original builds one case at a time, just
// resolved ahead of the Switch call instead of via a mutable default.
func visitSwitchStatement(c *context.CodeContext, n *ast.SwitchStatement) {
	switchValue := Eval(c, n.Value)
	if !switchValue.IsValid() {
		return
	}
	switchValue = switchValue.CastToSubtype()
	if !switchValue.Ty.IsInteger() {
		c.Global.AddError(n.Value.Tok(), "switch requires int type")
		return
	}

	cases := n.Cases.Items
	blocks := make([]backend.Block, len(cases))
	for i := range cases {
		blocks[i] = c.CreateBlock("switch.case")
	}
	endBlock := c.CreateBreakBlock("switch.end")

	defaultBlock := endBlock
	hasDefault := false
	for i, item := range cases {
		if !item.IsValueCase() {
			if hasDefault {
				c.Global.AddError(item.Tok(), "switch statement has more than one default")
			}
			hasDefault = true
			defaultBlock = blocks[i]
		}
	}

	sw := c.Builder().Switch(switchValue.Val, defaultBlock, len(cases))

	c.PushLocalTable()

	seen := map[int64]bool{}
	for i, item := range cases {
		if item.IsValueCase() {
			v, ok := foldConstInt(item.Value)
			if !ok {
				c.Global.AddError(item.Value.Tok(), "case value must be a constant int")
			} else {
				if seen[v] {
					c.Global.AddError(item.Value.Tok(), "switch case values are not unique")
				}
				seen[v] = true
				onVal := c.Builder().ConstInt(c.Global.BackendType(switchValue.Ty), v)
				c.Builder().AddCase(sw, onVal, blocks[i])
			}
		}

		c.PushBlock(blocks[i])
		VisitList(c, item.Body)

		if !item.IsLastStmBranch() {
			next := endBlock
			if i+1 < len(blocks) {
				next = blocks[i+1]
			}
			c.Builder().Br(next)
		}
	}

	c.PopLocalTable()
	c.PopLoopBranchBlocks(context.Break)
	c.PushBlock(endBlock)
}

// visitLabelStatement declares a goto target, matching CGNStatement's
// NLabelStatement handling. A label already referenced by an earlier goto
// resolves to the placeholder block GetLabelBlock created for it; a label
// with no prior reference gets a fresh block.
func visitLabelStatement(c *context.CodeContext, n *ast.LabelStatement) {
	block := c.CreateLabelBlock(n.Tok())
	c.Builder().Br(block)
	c.PushBlock(block)
}

// visitGotoStatement branches to a label's block, lazily creating a
// forward-reference placeholder if the label hasn't been declared yet,
// matching CGNStatement's NGotoStatement handling.
func visitGotoStatement(c *context.CodeContext, n *ast.GotoStatement) {
	block := c.GetLabelBlock(n.Tok())
	c.Builder().Br(block)
	c.PushBlock(c.CreateBlock("after.goto"))
}

// visitLoopBranch lowers `break`/`continue`/`redo [level];`, matching
// CGNStatement's NLoopBranch handling: destructables for every scope the
// branch unwinds run before the jump.
func visitLoopBranch(c *context.CodeContext, n *ast.LoopBranch) {
	level := 1
	if n.Level != nil {
		v, ok := foldConstInt(n.Level)
		if !ok {
			c.Global.AddError(n.Tok(), "branch level must be a compile-time constant")
			return
		}
		level = int(v)
	}

	var block backend.Block
	var fromLevel int
	var ok bool
	var kindName string
	switch n.Kind {
	case ast.BranchContinue:
		block, fromLevel, ok = c.GetContinueBlock(level)
		kindName = "continue"
	case ast.BranchRedo:
		block, fromLevel, ok = c.GetRedoBlock(level)
		kindName = "redo"
	case ast.BranchBreak:
		block, fromLevel, ok = c.GetBreakBlock(level)
		kindName = "break"
	default:
		c.Global.AddError(n.Tok(), "undefined loop branch kind")
		return
	}
	if !ok {
		c.Global.AddError(n.Tok(), "%s invalid outside a loop/switch block", kindName)
		return
	}

	instructions.CallDestructables(c, n.Tok(), fromLevel)
	c.Builder().Br(block)
	c.PushBlock(c.CreateBlock("after.branch"))
}

// visitReturnStatement lowers `return [value];`, matching CGNStatement's
// NReturnStatement handling: every open scope's destructables run before
// the actual return instruction.
func visitReturnStatement(c *context.CodeContext, n *ast.ReturnStatement) {
	fn := c.CurrFunction()
	retTy := fn.ReturnType()

	if retTy.IsVoid() {
		if n.Value != nil {
			c.Global.AddError(n.Value.Tok(), "function %s declared void, but non-void return found", fn.Name())
			return
		}
	} else if n.Value == nil {
		c.Global.AddError(n.Tok(), "function %s declared non-void, but void return found", fn.Name())
		return
	}

	var retVal value.RValue
	if n.Value != nil {
		retVal = Eval(c, n.Value)
		if !retVal.IsValid() {
			return
		}
		instructions.CastTo(c, n.Value.Tok(), &retVal, retTy, false)
	}

	instructions.CallDestructables(c, n.Tok(), 0)

	if retVal.IsValid() {
		c.Builder().Ret(retVal.Val)
	} else {
		c.Builder().RetVoid()
	}
	c.PushBlock(c.CreateBlock("after.return"))
}

// visitDeleteStatement frees heap storage obtained via `new`, running the
// pointee's destructor first, matching CGNStatement's NDeleteStatement
// handling. It takes no element count: the destructor runs once, and only
// when the pointee type is a class (a pointer to an array of class values
// gets none), and no runtime length is stored with an allocation.
func visitDeleteStatement(c *context.CodeContext, n *ast.DeleteStatement) {
	ptr := Eval(c, n.Var)
	if !ptr.IsValid() {
		return
	}
	if !ptr.Ty.IsPointer() {
		c.Global.AddError(n.Tok(), "delete requires pointer type")
		return
	}

	instructions.CallDestructor(c, ptr, n.Tok())

	free := freeFunc(c)
	voidPtr := c.Global.Types.Pointer(c.Global.Types.Void())
	cast := c.Builder().BitCast(ptr.Val, c.Global.BackendType(voidPtr), "")
	c.Builder().Call(free.Val.(backend.Function), []backend.Value{cast}, "")
}

// visitDestructorCall runs the compiler-synthesized `var.~this();` that a
// class's generated destructor body holds for each class-typed field with
// a destructor (see setupDestructor in internal/builder), matching CGNStatement's
// NDestructorCall handling: the variable's own address is walked through
// any pointer indirection until a class type is reached.
func visitDestructorCall(c *context.CodeContext, n *ast.DestructorCall) {
	base := EvalVariable(c, n.Var)
	if !base.IsValid() {
		return
	}
	v := value.New(base.Val, c.Global.Types.Pointer(base.Ty))
	for {
		sub := v.Ty.Subtype()
		if sub == nil {
			c.Global.AddError(n.Tok(), "calling destructor only valid for classes")
			return
		}
		if sub.IsClass() {
			break
		}
		if !sub.IsPointer() {
			c.Global.AddError(n.Tok(), "calling destructor only valid for classes")
			return
		}
		v = instructions.Deref(c, v, false)
	}
	instructions.CallDestructor(c, v, n.Tok())
}
