// Package masm defines the in-memory Miden Assembly abstract syntax tree
// that the translator produces. Pretty-printing the full MASM grammar and
// invoking the miden executable are external collaborators; masm/print
// implements only enough rendering for diagnostics and golden-file tests.
package masm

// Module is a complete MASM program: a fixed import preamble, procedures in
// topological emit order, and a program entry block.
type Module struct {
	UseImports       []string
	Procedures       []NamedProc
	ProgramLocalCells uint32
	Program          []Instr
}

// NamedProc pairs a procedure with the name it is Exec'd by. Names follow
// the f{index} convention (spec.md §6); ExportName is set when the
// originating Wasm function was itself exported (SPEC_FULL.md §2.NEW).
type NamedProc struct {
	Name       string
	ExportName string
	Proc       Proc
}

// Proc is a single MASM procedure: a fixed local-cell frame and a body.
type Proc struct {
	NLocalCells uint32
	Body        []Instr
}

// Op identifies the operation carried by an Instr. The set is closed and
// fixed (spec.md §3).
type Op uint8

const (
	OpPush Op = iota
	OpDrop
	OpDup
	OpSwap
	OpMoveUp
	OpMemLoad
	OpMemStore
	OpLocLoad
	OpLocStore
	OpExec
	OpIf
	OpWhile

	OpIAdd
	OpISub
	OpIMul
	OpIDiv
	OpIMod
	OpIDivMod
	OpIShL
	OpIShR
	OpIAnd
	OpIOr
	OpIXor
	OpINot

	OpIEq
	OpINeq
	OpILt
	OpIGt
	OpILte
	OpIGte
	OpIEqz

	OpIAdd64
	OpISub64
	OpIMul64
	OpIShL64
	OpIShR64
	OpIAnd64
	OpIOr64
	OpIXor64
	OpIEq64
	OpINeq64
	OpILt64
	OpIGt64
	OpILte64
	OpIGte64
	OpIEqz64

	OpCDrop
	OpAssert
)

// Instr is the closed MASM instruction sum type, matching the teacher's
// single-monolithic-variant IR convention.
type Instr struct {
	Op Op

	Word uint32 // Push

	K uint32 // Dup/Swap/MoveUp/LocLoad/LocStore

	Addr    uint32 // MemLoad/MemStore address operand
	HasAddr bool   // whether Addr is present (the Option<addr> in spec.md §3)

	Name string // Exec

	Then []Instr // If
	Else []Instr // If
	Body []Instr // While

	C    uint32 // IEq(Option<c>) immediate comparison operand
	HasC bool

	D    uint32 // IDivMod(Option<d>) immediate divisor
	HasD bool
}

// Constructors, following the spec's own instruction names.

func Push(w uint32) Instr { return Instr{Op: OpPush, Word: w} }
func Drop() Instr         { return Instr{Op: OpDrop} }
func Dup(k uint32) Instr  { return Instr{Op: OpDup, K: k} }
func Swap(k uint32) Instr { return Instr{Op: OpSwap, K: k} }
func MoveUp(k uint32) Instr { return Instr{Op: OpMoveUp, K: k} }

func MemLoad(addr *uint32) Instr {
	if addr == nil {
		return Instr{Op: OpMemLoad}
	}
	return Instr{Op: OpMemLoad, Addr: *addr, HasAddr: true}
}

func MemStore(addr *uint32) Instr {
	if addr == nil {
		return Instr{Op: OpMemStore}
	}
	return Instr{Op: OpMemStore, Addr: *addr, HasAddr: true}
}

func LocLoad(k uint32) Instr  { return Instr{Op: OpLocLoad, K: k} }
func LocStore(k uint32) Instr { return Instr{Op: OpLocStore, K: k} }

func Exec(name string) Instr { return Instr{Op: OpExec, Name: name} }

func If(then, els []Instr) Instr { return Instr{Op: OpIf, Then: then, Else: els} }
func While(body []Instr) Instr   { return Instr{Op: OpWhile, Body: body} }

func IAdd() Instr { return Instr{Op: OpIAdd} }
func ISub() Instr { return Instr{Op: OpISub} }
func IMul() Instr { return Instr{Op: OpIMul} }
func IDiv() Instr { return Instr{Op: OpIDiv} }
func IMod() Instr { return Instr{Op: OpIMod} }
func IDivMod(d *uint32) Instr {
	if d == nil {
		return Instr{Op: OpIDivMod}
	}
	return Instr{Op: OpIDivMod, D: *d, HasD: true}
}
func IShL() Instr { return Instr{Op: OpIShL} }
func IShR() Instr { return Instr{Op: OpIShR} }
func IAnd() Instr { return Instr{Op: OpIAnd} }
func IOr() Instr  { return Instr{Op: OpIOr} }
func IXor() Instr { return Instr{Op: OpIXor} }
func INot() Instr { return Instr{Op: OpINot} }

func IEq(c *uint32) Instr {
	if c == nil {
		return Instr{Op: OpIEq}
	}
	return Instr{Op: OpIEq, C: *c, HasC: true}
}
func INeq() Instr { return Instr{Op: OpINeq} }
func ILt() Instr  { return Instr{Op: OpILt} }
func IGt() Instr  { return Instr{Op: OpIGt} }
func ILte() Instr { return Instr{Op: OpILte} }
func IGte() Instr { return Instr{Op: OpIGte} }
func IEqz() Instr { return Instr{Op: OpIEqz} }

func IAdd64() Instr { return Instr{Op: OpIAdd64} }
func ISub64() Instr { return Instr{Op: OpISub64} }
func IMul64() Instr { return Instr{Op: OpIMul64} }
func IShL64() Instr { return Instr{Op: OpIShL64} }
func IShR64() Instr { return Instr{Op: OpIShR64} }
func IAnd64() Instr { return Instr{Op: OpIAnd64} }
func IOr64() Instr  { return Instr{Op: OpIOr64} }
func IXor64() Instr { return Instr{Op: OpIXor64} }
func IEq64() Instr  { return Instr{Op: OpIEq64} }
func INeq64() Instr { return Instr{Op: OpINeq64} }
func ILt64() Instr  { return Instr{Op: OpILt64} }
func IGt64() Instr  { return Instr{Op: OpIGt64} }
func ILte64() Instr { return Instr{Op: OpILte64} }
func IGte64() Instr { return Instr{Op: OpIGte64} }
func IEqz64() Instr { return Instr{Op: OpIEqz64} }

func CDrop() Instr  { return Instr{Op: OpCDrop} }
func Assert() Instr { return Instr{Op: OpAssert} }
