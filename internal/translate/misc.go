package translate

import (
	"github.com/miden-vm/wasm2masm/internal/errors"
	"github.com/miden-vm/wasm2masm/masm"
	"github.com/miden-vm/wasm2masm/wasm"
)

// GetLocal/SetLocal/TeeLocal and GetGlobal/SetGlobal share one convention
// (spec.md §4.3): an I64 value always has its high cell on top of the
// stack, low cell beneath, so loading pushes low then high, and storing
// pops high then low — the reverse order.

func (t *Translator) translateGetLocal(ins wasm.Instr) ([]masm.Instr, bool, error) {
	slot := t.locals[ins.LocalIdx]
	t.push(slot.Type)
	return loadCells(slot.Cells), false, nil
}

func (t *Translator) translateSetLocal(ins wasm.Instr) ([]masm.Instr, bool, error) {
	slot := t.locals[ins.LocalIdx]
	if err := t.expect([]wasm.ValueType{slot.Type}); err != nil {
		return nil, false, err
	}
	t.popN(1)
	return storeCells(slot.Cells), false, nil
}

func (t *Translator) translateTeeLocal(ins wasm.Instr) ([]masm.Instr, bool, error) {
	slot := t.locals[ins.LocalIdx]
	if err := t.expect([]wasm.ValueType{slot.Type}); err != nil {
		return nil, false, err
	}
	out := dupCells(len(slot.Cells))
	out = append(out, storeCells(slot.Cells)...)
	return out, false, nil
}

func (t *Translator) translateGetGlobal(ins wasm.Instr) ([]masm.Instr, bool, error) {
	g := t.layout.Global(ins.GlobalIdx)
	typ := t.mod.Globals[ins.GlobalIdx].Type.Value
	t.push(typ)
	addrs := make([]uint32, g.Cells)
	for i := range addrs {
		addrs[i] = g.Addr + uint32(i)
	}
	return loadMemCells(addrs), false, nil
}

func (t *Translator) translateSetGlobal(ins wasm.Instr) ([]masm.Instr, bool, error) {
	g := t.layout.Global(ins.GlobalIdx)
	typ := t.mod.Globals[ins.GlobalIdx].Type.Value
	if err := t.expect([]wasm.ValueType{typ}); err != nil {
		return nil, false, err
	}
	t.popN(1)
	addrs := make([]uint32, g.Cells)
	for i := range addrs {
		addrs[i] = g.Addr + uint32(i)
	}
	return storeMemCells(addrs), false, nil
}

// loadCells pushes local cells low-to-high, leaving the highest on top.
func loadCells(cells []uint32) []masm.Instr {
	out := make([]masm.Instr, len(cells))
	for i, c := range cells {
		out[i] = masm.LocLoad(c)
	}
	return out
}

// storeCells pops local cells high-to-low (the reverse of loadCells).
func storeCells(cells []uint32) []masm.Instr {
	var out []masm.Instr
	for i := len(cells) - 1; i >= 0; i-- {
		out = append(out, masm.LocStore(cells[i]), masm.Drop())
	}
	return out
}

// loadMemCells is loadCells' memory-address analogue for globals, which
// live in linear-memory-style word cells rather than a local frame.
func loadMemCells(addrs []uint32) []masm.Instr {
	out := make([]masm.Instr, len(addrs))
	for i, a := range addrs {
		addr := a
		out[i] = masm.MemLoad(&addr)
	}
	return out
}

// storeMemCells is storeCells' memory-address analogue for globals, which
// live in linear-memory-style word cells rather than a local frame.
func storeMemCells(addrs []uint32) []masm.Instr {
	var out []masm.Instr
	for i := len(addrs) - 1; i >= 0; i-- {
		a := addrs[i]
		out = append(out, masm.MemStore(&a), masm.Drop())
	}
	return out
}

// dupCells duplicates the top n cells in place, preserving their order, by
// repeating Dup(n-1): each call copies the cell now sitting at depth n-1 to
// the top, which after n repetitions reproduces the whole window.
func dupCells(n int) []masm.Instr {
	if n == 0 {
		return nil
	}
	out := make([]masm.Instr, n)
	for i := range out {
		out[i] = masm.Dup(uint32(n - 1))
	}
	return out
}

func (t *Translator) translateDrop() ([]masm.Instr, bool, error) {
	top, ok := t.top()
	if !ok {
		return nil, false, errors.NewEmptyStack(t.frames())
	}
	t.popN(1)
	n := top.Cells()
	out := make([]masm.Instr, n)
	for i := range out {
		out[i] = masm.Drop()
	}
	return out, false, nil
}

// translateSelect lowers [cond(top), b, a] -> a if cond != 0 else b. The
// If's then-branch (select a) discards the garbage (b) that sits directly
// on top of a with plain Drops; the else-branch (select b, already on
// top) discards a, which sits beneath it, with the same MoveUp(width);Drop
// cleanup emitBranchCleanup uses for the symmetric "garbage beneath the
// kept result" shape.
func (t *Translator) translateSelect() ([]masm.Instr, bool, error) {
	if err := t.expect(i32); err != nil {
		return nil, false, err
	}
	t.popN(1)
	b, ok := t.top()
	if !ok {
		return nil, false, errors.NewEmptyStack(t.frames())
	}
	w := b.Cells()
	t.popN(2)
	t.push(b)

	then := make([]masm.Instr, w)
	for i := range then {
		then[i] = masm.Drop()
	}

	var els []masm.Instr
	for i := 0; i < w; i++ {
		els = append(els, masm.MoveUp(uint32(w)), masm.Drop())
	}

	return []masm.Instr{masm.If(then, els)}, false, nil
}

func (t *Translator) translateUnreachable() ([]masm.Instr, bool, error) {
	return []masm.Instr{masm.Push(0), masm.Assert()}, false, nil
}

func (t *Translator) translateI32Const(ins wasm.Instr) ([]masm.Instr, bool, error) {
	t.push(wasm.I32)
	return []masm.Instr{masm.Push(uint32(ins.I32Value))}, false, nil
}

func (t *Translator) translateI64Const(ins wasm.Instr) ([]masm.Instr, bool, error) {
	t.push(wasm.I64)
	lo := uint32(ins.I64Value)
	hi := uint32(ins.I64Value >> 32)
	return []masm.Instr{masm.Push(lo), masm.Push(hi)}, false, nil
}

func (t *Translator) translateI32WrapI64() ([]masm.Instr, bool, error) {
	if err := t.apply(i64, i32); err != nil {
		return nil, false, err
	}
	// The high cell sits on top (the i64 convention); dropping it leaves
	// the low cell, already the wrapped i32 result, on top.
	return []masm.Instr{masm.Drop()}, false, nil
}

func (t *Translator) translateI64ExtendUI32() ([]masm.Instr, bool, error) {
	if err := t.apply(i32, i64); err != nil {
		return nil, false, err
	}
	return []masm.Instr{masm.Push(0)}, false, nil
}

func (t *Translator) translateI64ExtendSI32() ([]masm.Instr, bool, error) {
	if err := t.apply(i32, i64); err != nil {
		return nil, false, err
	}
	return []masm.Instr{
		masm.Dup(0),
		masm.Push(signBit32),
		masm.IGte(),
		masm.If(
			[]masm.Instr{masm.Push(0xFFFFFFFF)},
			[]masm.Instr{masm.Push(0)},
		),
	}, false, nil
}

func (t *Translator) translateI32Eqz() ([]masm.Instr, bool, error) {
	if err := t.apply(i32, i32); err != nil {
		return nil, false, err
	}
	return []masm.Instr{masm.IEqz()}, false, nil
}

func (t *Translator) translateI64Eqz() ([]masm.Instr, bool, error) {
	if err := t.apply(i64, i32); err != nil {
		return nil, false, err
	}
	return []masm.Instr{masm.IEqz64()}, false, nil
}
