package translate

import (
	"github.com/miden-vm/wasm2masm/internal/errors"
	"github.com/miden-vm/wasm2masm/masm"
	"github.com/miden-vm/wasm2masm/wasm"
)

// Memory access lowering (spec.md §4.5) computes the MASM word address
// `addr/4 + offset/4 + memBeginning` at runtime for word-aligned access, and
// additionally recovers the byte-within-word via `mod 4` for sub-word
// access. Rather than shuffle the live values through Swap/MoveUp on the
// physical stack across a long op sequence, each lowering spills its
// intermediates into the function's reserved scratch local cells (four are
// reserved; the memory lowerings use at most three of them) —
// the same LocStore;Drop / LocLoad idiom spec.md already uses for ordinary
// locals — which keeps every step a simple, independently checkable
// push/pop instead of tracking stack depth by hand.
func (t *Translator) memBeginning() uint32 { return t.layout.MemBeginning() }

// wordAddr divides the byte address by 4, so for a word-sized access at an
// address that is not a multiple of 4 the remainder is discarded and the
// access lands on the containing word.
func (t *Translator) wordAddr(offset uint32) []masm.Instr {
	k := offset/4 + t.memBeginning()
	return []masm.Instr{masm.Push(4), masm.IDiv(), masm.Push(k), masm.IAdd()}
}

func (t *Translator) translateLoad(ins wasm.Instr) ([]masm.Instr, bool, error) {
	if err := t.apply(i32, nil); err != nil {
		return nil, false, err
	}

	switch ins.Op {
	case wasm.OpI32Load:
		t.push(wasm.I32)
		return append(t.wordAddr(ins.Mem.Offset), masm.MemLoad(nil)), false, nil

	case wasm.OpI64Load:
		if ins.Mem.Offset%4 != 0 {
			return nil, false, errors.NewBadMisalignedI64(ins.Mem.Offset)
		}
		t.push(wasm.I64)
		return t.emitI64Load(ins.Mem.Offset), false, nil

	case wasm.OpI32Load8U, wasm.OpI32Load16U:
		width := loadWidth(ins.Op)
		t.push(wasm.I32)
		return t.emitSubWordLoad(ins.Mem.Offset, width, false), false, nil

	case wasm.OpI32Load8S, wasm.OpI32Load16S:
		width := loadWidth(ins.Op)
		t.push(wasm.I32)
		return t.emitSubWordLoad(ins.Mem.Offset, width, true), false, nil

	case wasm.OpI64Load8U, wasm.OpI64Load16U, wasm.OpI64Load32U:
		width := loadWidth(ins.Op)
		t.push(wasm.I64)
		code := t.emitSubWordLoad(ins.Mem.Offset, width, false)
		return append(code, masm.Push(0)), false, nil // synthesize a zero high word

	case wasm.OpI64Load8S, wasm.OpI64Load16S, wasm.OpI64Load32S:
		width := loadWidth(ins.Op)
		t.push(wasm.I64)
		code := t.emitSubWordLoad(ins.Mem.Offset, width, true)
		// Sign-extend the low word into the high word: stash it, push it
		// back as the low cell, then test its sign and materialize the
		// high word (all-ones or zero) on top, matching the hi-on-top i64
		// convention.
		code = append(code, masm.LocStore(t.scratch[0]), masm.Drop())
		code = append(code, masm.LocLoad(t.scratch[0]))
		code = append(code, masm.LocLoad(t.scratch[0]), masm.Push(1<<31), masm.IGte())
		code = append(code, masm.If(
			[]masm.Instr{masm.Push(0xFFFFFFFF)},
			[]masm.Instr{masm.Push(0)},
		))
		return code, false, nil

	default:
		return nil, false, errors.NewUnsupportedInstruction(ins.Op, t.frames())
	}
}

func (t *Translator) translateStore(ins wasm.Instr) ([]masm.Instr, bool, error) {
	switch ins.Op {
	case wasm.OpI32Store:
		if err := t.apply(i32i32, nil); err != nil {
			return nil, false, err
		}
		return t.emitI32Store(ins.Mem.Offset), false, nil

	case wasm.OpI64Store:
		if err := t.apply([]wasm.ValueType{wasm.I32, wasm.I64}, nil); err != nil {
			return nil, false, err
		}
		if ins.Mem.Offset%4 != 0 {
			return nil, false, errors.NewBadMisalignedI64(ins.Mem.Offset)
		}
		return t.emitI64Store(ins.Mem.Offset), false, nil

	case wasm.OpI32Store8, wasm.OpI32Store16:
		if err := t.apply(i32i32, nil); err != nil {
			return nil, false, err
		}
		return t.emitSubWordStore(ins.Mem.Offset, storeWidth(ins.Op)), false, nil

	case wasm.OpI64Store8, wasm.OpI64Store16, wasm.OpI64Store32:
		if err := t.apply([]wasm.ValueType{wasm.I32, wasm.I64}, nil); err != nil {
			return nil, false, err
		}
		// Only the low word of the i64 value is ever stored (the stored
		// width is at most 32 bits). The high word sits on top; dropping
		// it leaves [value=lo(top), byte_addr] exactly as
		// emitSubWordStore expects, with no scratch cell needed.
		out := []masm.Instr{masm.Drop()}
		out = append(out, t.emitSubWordStore(ins.Mem.Offset, storeWidth(ins.Op))...)
		return out, false, nil

	default:
		return nil, false, errors.NewUnsupportedInstruction(ins.Op, t.frames())
	}
}

func loadWidth(op wasm.Op) int {
	switch op {
	case wasm.OpI32Load8U, wasm.OpI32Load8S, wasm.OpI64Load8U, wasm.OpI64Load8S:
		return 8
	case wasm.OpI32Load16U, wasm.OpI32Load16S, wasm.OpI64Load16U, wasm.OpI64Load16S:
		return 16
	case wasm.OpI64Load32U, wasm.OpI64Load32S:
		return 32
	}
	return 32
}

func storeWidth(op wasm.Op) int {
	switch op {
	case wasm.OpI32Store8, wasm.OpI64Store8:
		return 8
	case wasm.OpI32Store16, wasm.OpI64Store16:
		return 16
	case wasm.OpI64Store32:
		return 32
	}
	return 32
}

// emitI32Store lowers [value(top), addr] -> (). The value is stashed in a
// scratch cell while the word address is computed from addr, then both are
// reloaded in the order MemStore's dynamic-address form expects: address on
// top, value beneath.
func (t *Translator) emitI32Store(offset uint32) []masm.Instr {
	s0, s1 := t.scratch[0], t.scratch[1]
	out := []masm.Instr{masm.LocStore(s0), masm.Drop()}
	out = append(out, t.wordAddr(offset)...)
	out = append(out, masm.LocStore(s1), masm.Drop())
	out = append(out, masm.LocLoad(s0), masm.LocLoad(s1))
	out = append(out, masm.MemStore(nil), masm.Drop())
	return out
}

// emitI64Load lowers [addr] -> [hi, lo]: the low word is read first and
// left on the stack, then the high word is computed and read, landing on
// top as the 64-bit convention requires.
func (t *Translator) emitI64Load(offset uint32) []masm.Instr {
	s0 := t.scratch[0]
	out := t.wordAddr(offset)
	out = append(out, masm.LocStore(s0), masm.Drop())
	out = append(out, masm.LocLoad(s0), masm.MemLoad(nil))
	out = append(out, masm.LocLoad(s0), masm.Push(1), masm.IAdd(), masm.MemLoad(nil))
	return out
}

// emitI64Store lowers [hi(top), lo, addr] -> (): both words are stashed
// before the address is computed, then written back high-first (to
// addr+1) and low-second (to addr).
func (t *Translator) emitI64Store(offset uint32) []masm.Instr {
	sHi, sLo, sAddr := t.scratch[0], t.scratch[1], t.scratch[2]
	out := []masm.Instr{masm.LocStore(sHi), masm.Drop()}
	out = append(out, masm.LocStore(sLo), masm.Drop())
	out = append(out, t.wordAddr(offset)...)
	out = append(out, masm.LocStore(sAddr), masm.Drop())
	out = append(out, masm.LocLoad(sHi))
	out = append(out, masm.LocLoad(sAddr), masm.Push(1), masm.IAdd())
	out = append(out, masm.MemStore(nil), masm.Drop())
	out = append(out, masm.LocLoad(sLo))
	out = append(out, masm.LocLoad(sAddr))
	out = append(out, masm.MemStore(nil), masm.Drop())
	return out
}

// emitSubWordLoad lowers [byte_addr] -> [value] for an 8/16/32-bit load,
// following spec.md §4.5's q/r decomposition: q = ea/4 selects the
// containing word, r = ea mod 4 selects the byte lane within it.
func (t *Translator) emitSubWordLoad(offset uint32, width int, signed bool) []masm.Instr {
	s0, s1, s2 := t.scratch[0], t.scratch[1], t.scratch[2]
	mask := uint32(1)<<uint(width) - 1

	out := []masm.Instr{masm.Push(offset), masm.IAdd()}
	out = append(out, masm.LocStore(s0), masm.Drop()) // s0 = ea

	out = append(out, masm.LocLoad(s0), masm.Push(4), masm.IMod())
	out = append(out, masm.LocStore(s1), masm.Drop()) // s1 = r

	out = append(out, masm.LocLoad(s0), masm.Push(4), masm.IDiv(), masm.Push(t.memBeginning()), masm.IAdd())
	out = append(out, masm.MemLoad(nil))
	out = append(out, masm.LocStore(s2), masm.Drop()) // s2 = v

	out = append(out, masm.LocLoad(s1), masm.Push(8), masm.IMul())
	out = append(out, masm.LocStore(s1), masm.Drop()) // s1 = shiftAmt

	out = append(out, masm.Push(mask), masm.LocLoad(s1), masm.IShL())
	out = append(out, masm.LocLoad(s2), masm.IAnd())
	out = append(out, masm.LocLoad(s1), masm.IShR())

	if signed {
		out = append(out, t.emitSignExtend(width)...)
	}
	return out
}

// emitSubWordStore lowers [value(top), byte_addr] -> () for an 8/16/32-bit
// store, read-modify-writing the containing word.
func (t *Translator) emitSubWordStore(offset uint32, width int) []masm.Instr {
	s0, s1, s2 := t.scratch[0], t.scratch[1], t.scratch[2]
	mask := uint32(1)<<uint(width) - 1

	out := []masm.Instr{masm.LocStore(s0), masm.Drop()} // s0 = value

	out = append(out, masm.Push(offset), masm.IAdd())
	out = append(out, masm.LocStore(s1), masm.Drop()) // s1 = ea

	out = append(out, masm.LocLoad(s1), masm.Push(4), masm.IMod())
	out = append(out, masm.LocStore(s2), masm.Drop()) // s2 = r

	out = append(out, masm.LocLoad(s1), masm.Push(4), masm.IDiv(), masm.Push(t.memBeginning()), masm.IAdd())
	out = append(out, masm.LocStore(s1), masm.Drop()) // s1 = waddr

	out = append(out, masm.LocLoad(s2), masm.Push(8), masm.IMul())
	out = append(out, masm.LocStore(s2), masm.Drop()) // s2 = shiftAmt

	out = append(out, masm.LocLoad(s1), masm.MemLoad(nil)) // v_old

	out = append(out, masm.Push(mask), masm.LocLoad(s2), masm.IShL(), masm.INot())
	out = append(out, masm.IAnd())

	out = append(out, masm.LocLoad(s0), masm.LocLoad(s2), masm.IShL())
	out = append(out, masm.IOr())

	out = append(out, masm.LocLoad(s1))
	out = append(out, masm.MemStore(nil), masm.Drop())
	return out
}

// emitSignExtend generalizes spec.md §4.5's I32Load8S rule to any width:
// if the top value's high bit (at position width-1) is set, add
// 2^32 - 2^width so the value reads as negative under MASM's native 32-bit
// wraparound arithmetic.
func (t *Translator) emitSignExtend(width int) []masm.Instr {
	threshold := uint32(1) << uint(width-1)
	addend := -(uint32(1) << uint(width)) // 2^32 - 2^width, via wraparound
	return []masm.Instr{
		masm.Dup(0),
		masm.Push(threshold),
		masm.IGte(),
		masm.If(
			[]masm.Instr{masm.Push(addend), masm.IAdd()},
			nil,
		),
	}
}
