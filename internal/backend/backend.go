// Package backend defines the opaque interface the core uses to request
// instructions, types, and basic blocks from a machine-code back end. The
// back end's own implementation is out of scope for this module; only the
// call surface the core programs against lives here. Modeled on
// sokoide-llvm5's interfaces.LLVMBackend family, generalized to the
// operations the visitors and builder in this module actually issue.
package backend

import "io"

// IntPredicate is an integer comparison predicate, passed to Builder.ICmp.
type IntPredicate int

const (
	IntEQ IntPredicate = iota
	IntNE
	IntUGT
	IntUGE
	IntULT
	IntULE
	IntSGT
	IntSGE
	IntSLT
	IntSLE
)

// FloatPredicate is a floating-point comparison predicate, passed to
// Builder.FCmp.
type FloatPredicate int

const (
	FloatOEQ FloatPredicate = iota
	FloatONE
	FloatOGT
	FloatOGE
	FloatOLT
	FloatOLE
)

// Type is an opaque back-end type handle (an LLVM-style first-class type).
type Type interface {
	IsInteger() bool
	IsFloat() bool
	IsPointer() bool
	IsStruct() bool
	IsVoid() bool
	String() string
}

// Value is an opaque back-end SSA value handle.
type Value interface {
	Type() Type
	Name() string
	SetName(name string)
	IsNull() bool
	IsConstant() bool
	IsUndef() bool
}

// Block is an opaque back-end basic block handle.
type Block interface {
	Name() string
	IsTerminated() bool
	Parent() Function
}

// Function is an opaque back-end function handle.
type Function interface {
	Value
	CreateBlock(name string) Block
	Param(index int) Value
	ParamCount() int
}

// Module is an opaque back-end compilation unit.
type Module interface {
	// DeclareFunction declares a function with the given LLVM-style type
	// (paramTypes/retType/varArg), returning a handle usable in calls even
	// before any body block is added via Function.CreateBlock.
	DeclareFunction(name string, paramTypes []Type, retType Type, varArg bool) Function
	GetFunction(name string) (Function, bool)

	DeclareGlobal(name string, t Type) Value
	GetGlobal(name string) (Value, bool)

	// NamedStruct creates (or retrieves) an opaque struct type;
	// SetStructBody fills it in once, supporting mutually-recursive user types.
	NamedStruct(name string) Type
	SetStructBody(t Type, fields []Type, packed bool)

	IntType(bits int) Type
	FloatType() Type
	DoubleType() Type
	VoidType() Type
	PointerType(elem Type) Type
	ArrayType(elem Type, count int) Type
	VectorType(elem Type, count int) Type
	FunctionType(ret Type, params []Type, varArg bool) Type

	Verify() error
	Print(w io.Writer)
}

// Builder issues instructions into a function's current basic block,
// mirroring Instructions.h's Inst static methods one layer down (Inst
// calls Builder, it does not implement instruction selection itself).
type Builder interface {
	PositionAtEnd(b Block)

	ConstInt(t Type, v int64) Value
	ConstFloat(t Type, v float64) Value
	ConstNull(t Type) Value
	Undef(t Type) Value

	Alloca(t Type, name string) Value
	Load(ptr Value, name string) Value
	Store(val, ptr Value) Value
	GEP(ptr Value, indices []Value, name string) Value

	Add(lhs, rhs Value, name string) Value
	Sub(lhs, rhs Value, name string) Value
	Mul(lhs, rhs Value, name string) Value
	SDiv(lhs, rhs Value, name string) Value
	UDiv(lhs, rhs Value, name string) Value
	SRem(lhs, rhs Value, name string) Value
	URem(lhs, rhs Value, name string) Value
	FAdd(lhs, rhs Value, name string) Value
	FSub(lhs, rhs Value, name string) Value
	FMul(lhs, rhs Value, name string) Value
	FDiv(lhs, rhs Value, name string) Value
	And(lhs, rhs Value, name string) Value
	Or(lhs, rhs Value, name string) Value
	Xor(lhs, rhs Value, name string) Value
	Shl(lhs, rhs Value, name string) Value
	AShr(lhs, rhs Value, name string) Value
	LShr(lhs, rhs Value, name string) Value

	ICmp(pred IntPredicate, lhs, rhs Value, name string) Value
	FCmp(pred FloatPredicate, lhs, rhs Value, name string) Value

	SExt(v Value, t Type, name string) Value
	ZExt(v Value, t Type, name string) Value
	Trunc(v Value, t Type, name string) Value
	SIToFP(v Value, t Type, name string) Value
	UIToFP(v Value, t Type, name string) Value
	FPToSI(v Value, t Type, name string) Value
	FPToUI(v Value, t Type, name string) Value
	FPExt(v Value, t Type, name string) Value
	FPTrunc(v Value, t Type, name string) Value
	BitCast(v Value, t Type, name string) Value
	PtrToInt(v Value, t Type, name string) Value
	IntToPtr(v Value, t Type, name string) Value

	Br(dest Block) Value
	CondBr(cond Value, then, els Block) Value
	Ret(v Value) Value
	RetVoid() Value

	Call(fn Function, args []Value, name string) Value

	// Phi creates a phi node; AddIncoming supplies (value, predecessor)
	// pairs after the node's predecessors are known, per spec's builder
	// §6 contract for forward-referenced control flow.
	Phi(t Type, name string) Value
	AddIncoming(phi Value, val Value, pred Block)

	// Switch creates a switch on v with defaultDest as the fallback; the
	// default is fixed here and AddCase only appends value cases, so a
	// caller with several `default:` arms picks the last one before
	// calling Switch (internal/visit does this).
	Switch(v Value, defaultDest Block, numCases int) Value
	AddCase(sw Value, onVal Value, dest Block)
}

// Backend creates a fresh compilation unit. The recording mockbackend
// subpackage is the only implementation in this module; a production
// back end (e.g. an LLVM binding) would satisfy the same interface.
type Backend interface {
	NewModule(name string) Module
	NewBuilder() Builder
}
