package translate

import (
	"fmt"

	"github.com/miden-vm/wasm2masm/internal/errors"
	"github.com/miden-vm/wasm2masm/internal/layout"
	"github.com/miden-vm/wasm2masm/internal/wasi"
	"github.com/miden-vm/wasm2masm/masm"
	"github.com/miden-vm/wasm2masm/wasm"
)

// scratchCells is the number of local cells TranslateFunction reserves
// after a function's own params/locals for the memory and arithmetic
// lowerings in memory.go/arith.go to spill intermediates into.
const scratchCells = 4

// TranslateFunction lowers one defined function (global index globalIdx)
// into a MASM procedure (spec.md §4.3): allocate local-frame cells for
// parameters and declared locals, emit the prelude that pops MASM-stack
// arguments into them, then translate the body under a function-level
// control-context frame whose declared block type is the function's own
// result type (so translateReturn can check against it).
func TranslateFunction(mod *wasm.Module, l layout.Layout, reg wasi.Registry, emptyBody map[int]bool, globalIdx int) (masm.Proc, error) {
	defIdx := mod.DefinedIndex(globalIdx)
	fn := mod.Functions[defIdx]
	sig, err := mod.FuncTypeOf(globalIdx)
	if err != nil {
		return masm.Proc{}, err
	}
	if err := validateValueTypes(sig.Params); err != nil {
		return masm.Proc{}, err
	}
	if err := validateValueTypes(sig.Results); err != nil {
		return masm.Proc{}, err
	}
	if err := validateValueTypes(fn.Locals); err != nil {
		return masm.Proc{}, err
	}

	t := New(mod, l, reg, emptyBody)
	t.funcIdx = globalIdx
	t.allocLocals(sig.Params, fn.Locals)

	resultBlock := wasm.Void
	if len(sig.Results) == 1 {
		resultBlock = wasm.Result(sig.Results[0])
	}
	t.pushCtx(ctxFrame{kind: ctxFunction, block: resultBlock})
	t.stack = nil

	prelude := t.buildPrelude(sig.Params)

	body, err := t.translateBody(fn.Body)
	if err != nil {
		return masm.Proc{}, err
	}

	if err := t.expect(sig.Results); err != nil {
		return masm.Proc{}, err
	}

	out := append(prelude, body...)
	out = append(out, emitDecrementIfPositive()...)

	return masm.Proc{NLocalCells: t.total, Body: out}, nil
}

// validateValueTypes rejects F32/F64, the two value types this translator
// has no lowering for (spec.md §6 accepts only I32/I64 params, locals, and
// results).
func validateValueTypes(ts []wasm.ValueType) error {
	for _, typ := range ts {
		if typ == wasm.F32 || typ == wasm.F64 {
			return errors.NewUnsupportedArgType(typ)
		}
	}
	return nil
}

// allocLocals assigns sequential local-frame cells: parameters first (in
// declaration order), then declared locals, then the scratch cells every
// memory/arithmetic lowering shares.
func (t *Translator) allocLocals(params, locals []wasm.ValueType) {
	alloc := func(typ wasm.ValueType) localSlot {
		n := typ.Cells()
		cells := make([]uint32, n)
		for i := range cells {
			cells[i] = t.total
			t.total++
		}
		return localSlot{Type: typ, Cells: cells}
	}

	for _, p := range params {
		t.locals = append(t.locals, alloc(p))
	}
	for _, l := range locals {
		t.locals = append(t.locals, alloc(l))
	}
	for i := range t.scratch {
		t.scratch[i] = t.total
		t.total++
	}
}

// buildPrelude pops MASM-stack arguments into their local cells. Wasm
// passes arguments left-to-right with the last parameter ending up on top
// of the MASM stack, so the prelude consumes them in reverse declaration
// order, storing each with the same cell-order convention SetLocal uses.
func (t *Translator) buildPrelude(params []wasm.ValueType) []masm.Instr {
	var out []masm.Instr
	for i := len(params) - 1; i >= 0; i-- {
		out = append(out, storeCells(t.locals[i].Cells)...)
	}
	return out
}

// translateOne is the per-instruction dispatch switch: every Wasm opcode
// lowering in this package is reachable from exactly one case here.
func (t *Translator) translateOne(ins wasm.Instr) ([]masm.Instr, bool, error) {
	switch ins.Op {
	case wasm.OpI32Const:
		return t.translateI32Const(ins)
	case wasm.OpI64Const:
		return t.translateI64Const(ins)
	case wasm.OpIBinOp:
		return t.translateIBinOp(ins)
	case wasm.OpIRelOp:
		return t.translateIRelOp(ins)

	case wasm.OpI32Load, wasm.OpI32Load8U, wasm.OpI32Load8S, wasm.OpI32Load16U, wasm.OpI32Load16S,
		wasm.OpI64Load, wasm.OpI64Load8U, wasm.OpI64Load8S, wasm.OpI64Load16U, wasm.OpI64Load16S,
		wasm.OpI64Load32U, wasm.OpI64Load32S:
		return t.translateLoad(ins)

	case wasm.OpI32Store, wasm.OpI32Store8, wasm.OpI32Store16,
		wasm.OpI64Store, wasm.OpI64Store8, wasm.OpI64Store16, wasm.OpI64Store32:
		return t.translateStore(ins)

	case wasm.OpBlock:
		return t.translateBlock(ins)
	case wasm.OpLoop:
		return t.translateLoop(ins)
	case wasm.OpIf:
		return t.translateIf(ins)
	case wasm.OpBr:
		return t.translateBr(ins)
	case wasm.OpBrIf:
		return t.translateBrIf(ins)
	case wasm.OpBrTable:
		return t.translateBrTable(ins)
	case wasm.OpReturn:
		return t.translateReturn()
	case wasm.OpCall:
		return t.translateCall(ins)

	case wasm.OpGetLocal:
		return t.translateGetLocal(ins)
	case wasm.OpSetLocal:
		return t.translateSetLocal(ins)
	case wasm.OpTeeLocal:
		return t.translateTeeLocal(ins)
	case wasm.OpGetGlobal:
		return t.translateGetGlobal(ins)
	case wasm.OpSetGlobal:
		return t.translateSetGlobal(ins)

	case wasm.OpDrop:
		return t.translateDrop()
	case wasm.OpSelect:
		return t.translateSelect()
	case wasm.OpI32WrapI64:
		return t.translateI32WrapI64()
	case wasm.OpI64ExtendUI32:
		return t.translateI64ExtendUI32()
	case wasm.OpI64ExtendSI32:
		return t.translateI64ExtendSI32()
	case wasm.OpI32Eqz:
		return t.translateI32Eqz()
	case wasm.OpI64Eqz:
		return t.translateI64Eqz()
	case wasm.OpUnreachable:
		return t.translateUnreachable()

	default:
		return nil, false, errors.NewUnsupportedInstruction(ins.Op, t.frames())
	}
}

// translateCall lowers a call to either a defined function (Exec by its
// f{index} name, or elided entirely if its body is empty) or an import
// (inlined against the WASI registry).
func (t *Translator) translateCall(ins wasm.Instr) ([]masm.Instr, bool, error) {
	idx := int(ins.FuncIdx)
	sig, err := t.mod.FuncTypeOf(idx)
	if err != nil {
		return nil, false, err
	}
	if err := t.apply(sig.Params, sig.Results); err != nil {
		return nil, false, err
	}

	if !t.mod.IsImport(idx) {
		if t.emptyBody[idx] {
			// The caller already pushed the callee's argument cells; with
			// the call elided, they must still be dropped off the physical
			// stack or every later Swap/MoveUp/Drop in this function
			// computes against the wrong depth.
			n := cellsOf(sig.Params)
			drops := make([]masm.Instr, n)
			for i := range drops {
				drops[i] = masm.Drop()
			}
			return drops, false, nil
		}
		return []masm.Instr{masm.Exec(fmt.Sprintf("f%d", idx))}, false, nil
	}

	im := t.mod.Imports[idx]
	method, ok := t.registry.Resolve(im.Module, im.Name)
	if !ok {
		return nil, false, errors.NewBadImport(im.Module, im.Name)
	}
	code, err := wasi.Translate(method.Body, method.GlobalNames(), t.layout)
	if err != nil {
		return nil, false, err
	}
	return code, false, nil
}
