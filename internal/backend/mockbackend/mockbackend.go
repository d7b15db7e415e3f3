// Package mockbackend is a recording implementation of internal/backend's
// interfaces, used by tests and by `saphyrc --llvmir` in place of a real
// code generator. It does not execute anything; each Builder call appends
// a line of pseudo-IR to the owning function's instruction log and returns
// a Value handle referencing that line. Modeled on sokoide-llvm5's
// MockLLVMBackend/MockLLVMModule/MockLLVMFunction family.
package mockbackend

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jdm64/saphyr/internal/backend"
)

// New returns a fresh recording back end.
func New() backend.Backend { return &mockBackend{} }

type mockBackend struct{}

func (*mockBackend) NewModule(name string) backend.Module {
	return &module{
		name:      name,
		functions: map[string]*function{},
		globals:   map[string]*value{},
		structs:   map[string]*mtype{},
	}
}

func (*mockBackend) NewBuilder() backend.Builder {
	return &builder{}
}

// mtype is the mock Type handle: a tagged union over the type kinds the
// core ever asks the back end to create.
type mtype struct {
	kind   typeKind
	bits   int
	elem   *mtype
	count  int
	name   string
	fields []*mtype
	packed bool
	ret    *mtype
	params []*mtype
	varArg bool
}

type typeKind int

const (
	kInt typeKind = iota
	kFloat
	kDouble
	kVoid
	kPointer
	kArray
	kVector
	kFunction
	kStruct
)

func (t *mtype) IsInteger() bool { return t.kind == kInt }
func (t *mtype) IsFloat() bool   { return t.kind == kFloat || t.kind == kDouble }
func (t *mtype) IsPointer() bool { return t.kind == kPointer }
func (t *mtype) IsStruct() bool  { return t.kind == kStruct }
func (t *mtype) IsVoid() bool    { return t.kind == kVoid }

func (t *mtype) String() string {
	switch t.kind {
	case kInt:
		return fmt.Sprintf("i%d", t.bits)
	case kFloat:
		return "float"
	case kDouble:
		return "double"
	case kVoid:
		return "void"
	case kPointer:
		return t.elem.String() + "*"
	case kArray:
		return fmt.Sprintf("[%d x %s]", t.count, t.elem.String())
	case kVector:
		return fmt.Sprintf("<%d x %s>", t.count, t.elem.String())
	case kFunction:
		parts := make([]string, len(t.params))
		for i, p := range t.params {
			parts[i] = p.String()
		}
		return fmt.Sprintf("%s (%s)", t.ret.String(), strings.Join(parts, ", "))
	case kStruct:
		if len(t.fields) == 0 && t.name != "" {
			return "%" + t.name + " = opaque"
		}
		parts := make([]string, len(t.fields))
		for i, f := range t.fields {
			parts[i] = f.String()
		}
		return fmt.Sprintf("%%%s = type {%s}", t.name, strings.Join(parts, ", "))
	}
	return "?"
}

// value is the mock Value handle: either an instruction result, a constant,
// or a named global/function/parameter.
type value struct {
	name     string
	ty       *mtype
	text     string // the textual constant/instruction this value names
	null     bool
	constant bool
	undef    bool
}

func (v *value) Type() backend.Type  { return v.ty }
func (v *value) Name() string        { return v.name }
func (v *value) SetName(name string) { v.name = name }
func (v *value) IsNull() bool        { return v.null }
func (v *value) IsConstant() bool    { return v.constant }
func (v *value) IsUndef() bool       { return v.undef }

type block struct {
	name        string
	fn          *function
	insts       []string
	terminated  bool
}

func (b *block) Name() string             { return b.name }
func (b *block) IsTerminated() bool       { return b.terminated }
func (b *block) Parent() backend.Function { return b.fn }

type function struct {
	value
	paramTypes []*mtype
	params     []*value
	blocks     []*block
}

func (f *function) CreateBlock(name string) backend.Block {
	b := &block{name: uniqueBlockName(f, name), fn: f}
	f.blocks = append(f.blocks, b)
	return b
}

func (f *function) Param(index int) backend.Value { return f.params[index] }
func (f *function) ParamCount() int               { return len(f.params) }

func uniqueBlockName(f *function, base string) string {
	for _, b := range f.blocks {
		if b.name == base {
			return fmt.Sprintf("%s.%d", base, len(f.blocks))
		}
	}
	return base
}

type module struct {
	name      string
	functions map[string]*function
	globals   map[string]*value
	structs   map[string]*mtype
}

func (m *module) DeclareFunction(name string, paramTypes []backend.Type, retType backend.Type, varArg bool) backend.Function {
	if fn, ok := m.functions[name]; ok {
		return fn
	}
	mparams := make([]*mtype, len(paramTypes))
	params := make([]*value, len(paramTypes))
	for i, p := range paramTypes {
		mparams[i] = p.(*mtype)
		params[i] = &value{name: fmt.Sprintf("%%arg%d", i), ty: mparams[i]}
	}
	ft := &mtype{kind: kFunction, ret: retType.(*mtype), params: mparams, varArg: varArg}
	fn := &function{value: value{name: name, ty: ft}, paramTypes: mparams, params: params}
	m.functions[name] = fn
	return fn
}

func (m *module) GetFunction(name string) (backend.Function, bool) {
	fn, ok := m.functions[name]
	return fn, ok
}

func (m *module) DeclareGlobal(name string, t backend.Type) backend.Value {
	if g, ok := m.globals[name]; ok {
		return g
	}
	g := &value{name: name, ty: t.(*mtype)}
	m.globals[name] = g
	return g
}

func (m *module) GetGlobal(name string) (backend.Value, bool) {
	g, ok := m.globals[name]
	return g, ok
}

func (m *module) NamedStruct(name string) backend.Type {
	if s, ok := m.structs[name]; ok {
		return s
	}
	s := &mtype{kind: kStruct, name: name}
	m.structs[name] = s
	return s
}

func (m *module) SetStructBody(t backend.Type, fields []backend.Type, packed bool) {
	s := t.(*mtype)
	s.fields = make([]*mtype, len(fields))
	for i, f := range fields {
		s.fields[i] = f.(*mtype)
	}
	s.packed = packed
}

func (m *module) IntType(bits int) backend.Type          { return &mtype{kind: kInt, bits: bits} }
func (m *module) FloatType() backend.Type                { return &mtype{kind: kFloat} }
func (m *module) DoubleType() backend.Type               { return &mtype{kind: kDouble} }
func (m *module) VoidType() backend.Type                 { return &mtype{kind: kVoid} }
func (m *module) PointerType(elem backend.Type) backend.Type {
	return &mtype{kind: kPointer, elem: elem.(*mtype)}
}
func (m *module) ArrayType(elem backend.Type, count int) backend.Type {
	return &mtype{kind: kArray, elem: elem.(*mtype), count: count}
}
func (m *module) VectorType(elem backend.Type, count int) backend.Type {
	return &mtype{kind: kVector, elem: elem.(*mtype), count: count}
}
func (m *module) FunctionType(ret backend.Type, params []backend.Type, varArg bool) backend.Type {
	mparams := make([]*mtype, len(params))
	for i, p := range params {
		mparams[i] = p.(*mtype)
	}
	return &mtype{kind: kFunction, ret: ret.(*mtype), params: mparams, varArg: varArg}
}

func (m *module) Verify() error {
	for name, fn := range m.functions {
		for _, b := range fn.blocks {
			if !b.terminated {
				return fmt.Errorf("function %s: block %%%s has no terminator", name, b.name)
			}
		}
	}
	return nil
}

func (m *module) Print(w io.Writer) {
	fmt.Fprintf(w, "; module %s\n", m.name)
	names := make([]string, 0, len(m.functions))
	for n := range m.functions {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, name := range names {
		fn := m.functions[name]
		fmt.Fprintf(w, "define %s @%s() {\n", fn.ty.ret.String(), fn.name)
		for _, b := range fn.blocks {
			fmt.Fprintf(w, "%%%s:\n", b.name)
			for _, inst := range b.insts {
				fmt.Fprintf(w, "  %s\n", inst)
			}
		}
		fmt.Fprintln(w, "}")
	}
}

// builder emits pseudo-IR text into whichever block is currently
// positioned, per spec's Builder contract: callers must PositionAtEnd
// before issuing any instruction.
type builder struct {
	cur *block
	seq int
}

func (b *builder) PositionAtEnd(blk backend.Block) { b.cur = blk.(*block) }

func (b *builder) next() string {
	b.seq++
	return fmt.Sprintf("%%t%d", b.seq)
}

func (b *builder) emit(ty *mtype, format string, args ...interface{}) *value {
	name := b.next()
	b.cur.insts = append(b.cur.insts, fmt.Sprintf("%s = %s", name, fmt.Sprintf(format, args...)))
	return &value{name: name, ty: ty}
}

func (b *builder) ConstInt(t backend.Type, v int64) backend.Value {
	return &value{name: fmt.Sprintf("%d", v), ty: t.(*mtype), text: fmt.Sprintf("%d", v), constant: true}
}
func (b *builder) ConstFloat(t backend.Type, v float64) backend.Value {
	return &value{name: fmt.Sprintf("%g", v), ty: t.(*mtype), text: fmt.Sprintf("%g", v), constant: true}
}
func (b *builder) ConstNull(t backend.Type) backend.Value {
	return &value{name: "null", ty: t.(*mtype), constant: true, null: true}
}
func (b *builder) Undef(t backend.Type) backend.Value {
	return &value{name: "undef", ty: t.(*mtype), undef: true}
}

func (b *builder) Alloca(t backend.Type, name string) backend.Value {
	return b.emit(&mtype{kind: kPointer, elem: t.(*mtype)}, "alloca %s", t.String())
}
func (b *builder) Load(ptr backend.Value, name string) backend.Value {
	pt := ptr.Type().(*mtype)
	return b.emit(pt.elem, "load %s, %s %s", pt.elem.String(), pt.String(), ptr.Name())
}
func (b *builder) Store(val, ptr backend.Value) backend.Value {
	return b.emit(nil, "store %s %s, %s %s", val.Type().String(), val.Name(), ptr.Type().String(), ptr.Name())
}
func (b *builder) GEP(ptr backend.Value, indices []backend.Value, name string) backend.Value {
	return b.emit(ptr.Type().(*mtype), "getelementptr %s, %s %s, ...", ptr.Type().(*mtype).elem.String(), ptr.Type().String(), ptr.Name())
}

func (b *builder) binop(op string, lhs, rhs backend.Value) backend.Value {
	return b.emit(lhs.Type().(*mtype), "%s %s %s, %s", op, lhs.Type().String(), lhs.Name(), rhs.Name())
}

func (b *builder) Add(lhs, rhs backend.Value, name string) backend.Value  { return b.binop("add", lhs, rhs) }
func (b *builder) Sub(lhs, rhs backend.Value, name string) backend.Value  { return b.binop("sub", lhs, rhs) }
func (b *builder) Mul(lhs, rhs backend.Value, name string) backend.Value  { return b.binop("mul", lhs, rhs) }
func (b *builder) SDiv(lhs, rhs backend.Value, name string) backend.Value { return b.binop("sdiv", lhs, rhs) }
func (b *builder) UDiv(lhs, rhs backend.Value, name string) backend.Value { return b.binop("udiv", lhs, rhs) }
func (b *builder) SRem(lhs, rhs backend.Value, name string) backend.Value { return b.binop("srem", lhs, rhs) }
func (b *builder) URem(lhs, rhs backend.Value, name string) backend.Value { return b.binop("urem", lhs, rhs) }
func (b *builder) FAdd(lhs, rhs backend.Value, name string) backend.Value { return b.binop("fadd", lhs, rhs) }
func (b *builder) FSub(lhs, rhs backend.Value, name string) backend.Value { return b.binop("fsub", lhs, rhs) }
func (b *builder) FMul(lhs, rhs backend.Value, name string) backend.Value { return b.binop("fmul", lhs, rhs) }
func (b *builder) FDiv(lhs, rhs backend.Value, name string) backend.Value { return b.binop("fdiv", lhs, rhs) }
func (b *builder) And(lhs, rhs backend.Value, name string) backend.Value  { return b.binop("and", lhs, rhs) }
func (b *builder) Or(lhs, rhs backend.Value, name string) backend.Value   { return b.binop("or", lhs, rhs) }
func (b *builder) Xor(lhs, rhs backend.Value, name string) backend.Value  { return b.binop("xor", lhs, rhs) }
func (b *builder) Shl(lhs, rhs backend.Value, name string) backend.Value  { return b.binop("shl", lhs, rhs) }
func (b *builder) AShr(lhs, rhs backend.Value, name string) backend.Value { return b.binop("ashr", lhs, rhs) }
func (b *builder) LShr(lhs, rhs backend.Value, name string) backend.Value { return b.binop("lshr", lhs, rhs) }

var intPredNames = map[backend.IntPredicate]string{
	backend.IntEQ: "eq", backend.IntNE: "ne", backend.IntUGT: "ugt", backend.IntUGE: "uge",
	backend.IntULT: "ult", backend.IntULE: "ule", backend.IntSGT: "sgt", backend.IntSGE: "sge",
	backend.IntSLT: "slt", backend.IntSLE: "sle",
}

var floatPredNames = map[backend.FloatPredicate]string{
	backend.FloatOEQ: "oeq", backend.FloatONE: "one", backend.FloatOGT: "ogt",
	backend.FloatOGE: "oge", backend.FloatOLT: "olt", backend.FloatOLE: "ole",
}

func (b *builder) ICmp(pred backend.IntPredicate, lhs, rhs backend.Value, name string) backend.Value {
	boolTy := &mtype{kind: kInt, bits: 1}
	return b.emit(boolTy, "icmp %s %s %s, %s", intPredNames[pred], lhs.Type().String(), lhs.Name(), rhs.Name())
}
func (b *builder) FCmp(pred backend.FloatPredicate, lhs, rhs backend.Value, name string) backend.Value {
	boolTy := &mtype{kind: kInt, bits: 1}
	return b.emit(boolTy, "fcmp %s %s %s, %s", floatPredNames[pred], lhs.Type().String(), lhs.Name(), rhs.Name())
}

func (b *builder) cast(op string, v backend.Value, t backend.Type) backend.Value {
	return b.emit(t.(*mtype), "%s %s %s to %s", op, v.Type().String(), v.Name(), t.String())
}

func (b *builder) SExt(v backend.Value, t backend.Type, name string) backend.Value   { return b.cast("sext", v, t) }
func (b *builder) ZExt(v backend.Value, t backend.Type, name string) backend.Value   { return b.cast("zext", v, t) }
func (b *builder) Trunc(v backend.Value, t backend.Type, name string) backend.Value  { return b.cast("trunc", v, t) }
func (b *builder) SIToFP(v backend.Value, t backend.Type, name string) backend.Value { return b.cast("sitofp", v, t) }
func (b *builder) UIToFP(v backend.Value, t backend.Type, name string) backend.Value { return b.cast("uitofp", v, t) }
func (b *builder) FPToSI(v backend.Value, t backend.Type, name string) backend.Value { return b.cast("fptosi", v, t) }
func (b *builder) FPToUI(v backend.Value, t backend.Type, name string) backend.Value { return b.cast("fptoui", v, t) }
func (b *builder) FPExt(v backend.Value, t backend.Type, name string) backend.Value  { return b.cast("fpext", v, t) }
func (b *builder) FPTrunc(v backend.Value, t backend.Type, name string) backend.Value {
	return b.cast("fptrunc", v, t)
}
func (b *builder) BitCast(v backend.Value, t backend.Type, name string) backend.Value {
	return b.cast("bitcast", v, t)
}
func (b *builder) PtrToInt(v backend.Value, t backend.Type, name string) backend.Value {
	return b.cast("ptrtoint", v, t)
}
func (b *builder) IntToPtr(v backend.Value, t backend.Type, name string) backend.Value {
	return b.cast("inttoptr", v, t)
}

func (b *builder) Br(dest backend.Block) backend.Value {
	b.cur.terminated = true
	return b.emit(nil, "br label %%%s", dest.Name())
}
func (b *builder) CondBr(cond backend.Value, then, els backend.Block) backend.Value {
	b.cur.terminated = true
	return b.emit(nil, "br i1 %s, label %%%s, label %%%s", cond.Name(), then.Name(), els.Name())
}
func (b *builder) Ret(v backend.Value) backend.Value {
	b.cur.terminated = true
	return b.emit(nil, "ret %s %s", v.Type().String(), v.Name())
}
func (b *builder) RetVoid() backend.Value {
	b.cur.terminated = true
	return b.emit(nil, "ret void")
}

func (b *builder) Call(fn backend.Function, args []backend.Value, name string) backend.Value {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%s %s", a.Type().String(), a.Name())
	}
	retTy := fn.Type().(*mtype).ret
	return b.emit(retTy, "call %s @%s(%s)", retTy.String(), fn.Name(), strings.Join(parts, ", "))
}

func (b *builder) Phi(t backend.Type, name string) backend.Value {
	return b.emit(t.(*mtype), "phi %s", t.String())
}

func (b *builder) AddIncoming(phi backend.Value, val backend.Value, pred backend.Block) {
	v := phi.(*value)
	for i, line := range b.cur.insts {
		if strings.HasPrefix(line, v.name+" = phi") {
			b.cur.insts[i] = fmt.Sprintf("%s [ %s, %%%s ]", line, val.Name(), pred.Name())
		}
	}
}

func (b *builder) Switch(v backend.Value, defaultDest backend.Block, numCases int) backend.Value {
	b.cur.terminated = true
	return b.emit(nil, "switch %s %s, label %%%s [", v.Type().String(), v.Name(), defaultDest.Name())
}

func (b *builder) AddCase(sw backend.Value, onVal backend.Value, dest backend.Block) {
	s := sw.(*value)
	for i, line := range b.cur.insts {
		if strings.HasPrefix(line, s.name+" = switch") {
			b.cur.insts[i] = fmt.Sprintf("%s %s, label %%%s", line, onVal.Name(), dest.Name())
		}
	}
}
