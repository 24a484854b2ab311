package wasm

// Op identifies the operation carried by an Instr. The set is closed and
// matches exactly the Wasm 1.0 subset the translator accepts (spec.md §3);
// an Instr naming any other opcode is represented as UnsupportedInstruction
// by the decoder boundary, not by this package.
type Op uint8

const (
	OpI32Const Op = iota
	OpI64Const
	OpIBinOp
	OpIRelOp
	OpI32Load
	OpI32Load8U
	OpI32Load8S
	OpI32Load16U
	OpI32Load16S
	OpI64Load
	OpI64Load8U
	OpI64Load8S
	OpI64Load16U
	OpI64Load16S
	OpI64Load32U
	OpI64Load32S
	OpI32Store
	OpI32Store8
	OpI32Store16
	OpI64Store
	OpI64Store8
	OpI64Store16
	OpI64Store32
	OpBlock
	OpLoop
	OpIf
	OpBr
	OpBrIf
	OpBrTable
	OpReturn
	OpCall
	OpGetLocal
	OpSetLocal
	OpTeeLocal
	OpGetGlobal
	OpSetGlobal
	OpDrop
	OpSelect
	OpI32WrapI64
	OpI64ExtendUI32
	OpI64ExtendSI32
	OpI32Eqz
	OpI64Eqz
	OpUnreachable
)

// IntOp is the arithmetic/bitwise operator carried by an IBinOp instruction.
type IntOp uint8

const (
	Add IntOp = iota
	Sub
	Mul
	DivU
	DivS
	RemU
	RemS
	And
	Or
	Xor
	Shl
	ShrU
	ShrS
	Rotl
	Rotr
)

func (op IntOp) String() string {
	names := [...]string{"add", "sub", "mul", "div_u", "div_s", "rem_u", "rem_s", "and", "or", "xor", "shl", "shr_u", "shr_s", "rotl", "rotr"}
	if int(op) < len(names) {
		return names[op]
	}
	return "invalid"
}

// RelOp is the comparison operator carried by an IRelOp instruction.
type RelOp uint8

const (
	Eq RelOp = iota
	Ne
	LtU
	LtS
	GtU
	GtS
	LeU
	LeS
	GeU
	GeS
)

func (op RelOp) String() string {
	names := [...]string{"eq", "ne", "lt_u", "lt_s", "gt_u", "gt_s", "le_u", "le_s", "ge_u", "ge_s"}
	if int(op) < len(names) {
		return names[op]
	}
	return "invalid"
}

var opNames = [...]string{
	"i32.const", "i64.const", "ibinop", "irelop",
	"i32.load", "i32.load8_u", "i32.load8_s", "i32.load16_u", "i32.load16_s",
	"i64.load", "i64.load8_u", "i64.load8_s", "i64.load16_u", "i64.load16_s", "i64.load32_u", "i64.load32_s",
	"i32.store", "i32.store8", "i32.store16",
	"i64.store", "i64.store8", "i64.store16", "i64.store32",
	"block", "loop", "if", "br", "br_if", "br_table", "return", "call",
	"get_local", "set_local", "tee_local", "get_global", "set_global",
	"drop", "select", "i32.wrap_i64", "i64.extend_u_i32", "i64.extend_s_i32",
	"i32.eqz", "i64.eqz", "unreachable",
}

// String names the instruction the way spec.md's instruction tables do.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "invalid"
}

// MemArg carries the static byte offset and alignment hint of a load/store.
type MemArg struct {
	Offset uint32
	Align  uint32
}

// BlockType is a Wasm 1.0 block signature: no parameters, at most one
// result. Multi-value blocks do not exist in Wasm 1.0.
type BlockType struct {
	HasResult bool
	Result    ValueType
}

// Void is the empty block type.
var Void = BlockType{}

// Result constructs a block type with a single declared result.
func Result(t ValueType) BlockType { return BlockType{HasResult: true, Result: t} }

// Params returns the Wasm 1.0 block parameter types: always empty.
func (t BlockType) Params() []ValueType { return nil }

// Results returns the block's declared result types: zero or one value.
func (t BlockType) Results() []ValueType {
	if t.HasResult {
		return []ValueType{t.Result}
	}
	return nil
}

// Instr is the closed Wasm instruction sum type. Only the fields relevant to
// Op are meaningful; this mirrors the teacher's single-monolithic-variant IR
// convention (spec.md §9 Design Notes) rather than a type hierarchy.
type Instr struct {
	Op Op

	I32Value int32
	I64Value int64

	IntOp IntOp
	RelOp RelOp
	Bits  int // 32 or 64, for IBinOp/IRelOp

	Mem MemArg

	Block BlockType
	Body  []Instr // Block/Loop body, If "then" branch
	Else  []Instr // If "else" branch

	Depth   uint32   // Br/BrIf relative block depth
	Cases   []uint32 // BrTable case depths
	Default uint32   // BrTable default depth

	FuncIdx  uint32 // Call
	LocalIdx uint32 // GetLocal/SetLocal/TeeLocal
	GlobalIdx uint32 // GetGlobal/SetGlobal
}

// Constructors. These are free functions, not methods on a type hierarchy,
// so test fixtures and the translator read as plain data construction.

func I32Const(v int32) Instr { return Instr{Op: OpI32Const, I32Value: v} }
func I64Const(v int64) Instr { return Instr{Op: OpI64Const, I64Value: v} }

func IBinOp(bits int, op IntOp) Instr { return Instr{Op: OpIBinOp, Bits: bits, IntOp: op} }
func IRelOp(bits int, op RelOp) Instr { return Instr{Op: OpIRelOp, Bits: bits, RelOp: op} }

func Load(op Op, mem MemArg) Instr  { return Instr{Op: op, Mem: mem} }
func Store(op Op, mem MemArg) Instr { return Instr{Op: op, Mem: mem} }

func Block(t BlockType, body []Instr) Instr { return Instr{Op: OpBlock, Block: t, Body: body} }
func Loop(t BlockType, body []Instr) Instr  { return Instr{Op: OpLoop, Block: t, Body: body} }
func If(t BlockType, then, els []Instr) Instr {
	return Instr{Op: OpIf, Block: t, Body: then, Else: els}
}

func Br(depth uint32) Instr   { return Instr{Op: OpBr, Depth: depth} }
func BrIf(depth uint32) Instr { return Instr{Op: OpBrIf, Depth: depth} }
func BrTable(cases []uint32, def uint32) Instr {
	return Instr{Op: OpBrTable, Cases: cases, Default: def}
}

func Return() Instr           { return Instr{Op: OpReturn} }
func Call(idx uint32) Instr   { return Instr{Op: OpCall, FuncIdx: idx} }
func GetLocal(i uint32) Instr { return Instr{Op: OpGetLocal, LocalIdx: i} }
func SetLocal(i uint32) Instr { return Instr{Op: OpSetLocal, LocalIdx: i} }
func TeeLocal(i uint32) Instr { return Instr{Op: OpTeeLocal, LocalIdx: i} }

func GetGlobal(i uint32) Instr { return Instr{Op: OpGetGlobal, GlobalIdx: i} }
func SetGlobal(i uint32) Instr { return Instr{Op: OpSetGlobal, GlobalIdx: i} }

func Drop() Instr           { return Instr{Op: OpDrop} }
func Select() Instr         { return Instr{Op: OpSelect} }
func I32WrapI64() Instr     { return Instr{Op: OpI32WrapI64} }
func I64ExtendUI32() Instr  { return Instr{Op: OpI64ExtendUI32} }
func I64ExtendSI32() Instr  { return Instr{Op: OpI64ExtendSI32} }
func I32Eqz() Instr         { return Instr{Op: OpI32Eqz} }
func I64Eqz() Instr         { return Instr{Op: OpI64Eqz} }
func Unreachable() Instr    { return Instr{Op: OpUnreachable} }
