package translate

import (
	"github.com/miden-vm/wasm2masm/internal/errors"
	"github.com/miden-vm/wasm2masm/masm"
	"github.com/miden-vm/wasm2masm/wasm"
)

const signBit32 = uint32(1) << 31

// translateIBinOp lowers an arithmetic/bitwise binary operator (spec.md
// §4.5). MASM's native ops (IAdd, IMul, IAnd, ...) are unsigned; signed
// division, remainder and arithmetic shift have no native counterpart and
// are synthesized from them via the abs/negate and sign-mask helpers
// below. 64-bit support is restricted to the operators that do have a
// native *64 counterpart (Add, Sub, Mul, Shl, ShrU, And, Or, Xor);
// anything else at 64 bits is Unsupported64Bits.
func (t *Translator) translateIBinOp(ins wasm.Instr) ([]masm.Instr, bool, error) {
	if ins.Bits == 64 {
		return t.translateIBinOp64(ins)
	}
	return t.translateIBinOp32(ins)
}

func (t *Translator) translateIBinOp32(ins wasm.Instr) ([]masm.Instr, bool, error) {
	if err := t.apply(i32i32, i32); err != nil {
		return nil, false, err
	}
	switch ins.IntOp {
	case wasm.Add:
		return []masm.Instr{masm.IAdd()}, false, nil
	case wasm.Sub:
		return []masm.Instr{masm.ISub()}, false, nil
	case wasm.Mul:
		return []masm.Instr{masm.IMul()}, false, nil
	case wasm.And:
		return []masm.Instr{masm.IAnd()}, false, nil
	case wasm.Or:
		return []masm.Instr{masm.IOr()}, false, nil
	case wasm.Xor:
		return []masm.Instr{masm.IXor()}, false, nil
	case wasm.DivU:
		return []masm.Instr{masm.IDiv()}, false, nil
	case wasm.RemU:
		return []masm.Instr{masm.IMod()}, false, nil
	case wasm.Shl:
		return t.emitNormalizedShift(masm.IShL()), false, nil
	case wasm.ShrU:
		return t.emitNormalizedShift(masm.IShR()), false, nil
	case wasm.DivS:
		return t.emitDivS(), false, nil
	case wasm.RemS:
		return t.emitRemS(), false, nil
	case wasm.ShrS:
		return t.emitShrS(), false, nil
	case wasm.Rotl:
		return t.emitRotate(true), false, nil
	case wasm.Rotr:
		return t.emitRotate(false), false, nil
	default:
		return nil, false, errors.NewUnsupportedInstruction(ins.IntOp, t.frames())
	}
}

func (t *Translator) translateIBinOp64(ins wasm.Instr) ([]masm.Instr, bool, error) {
	if err := t.apply([]wasm.ValueType{wasm.I64, wasm.I64}, i64); err != nil {
		return nil, false, err
	}
	switch ins.IntOp {
	case wasm.Add:
		return []masm.Instr{masm.IAdd64()}, false, nil
	case wasm.Sub:
		return []masm.Instr{masm.ISub64()}, false, nil
	case wasm.Mul:
		return []masm.Instr{masm.IMul64()}, false, nil
	case wasm.And:
		return []masm.Instr{masm.IAnd64()}, false, nil
	case wasm.Or:
		return []masm.Instr{masm.IOr64()}, false, nil
	case wasm.Xor:
		return []masm.Instr{masm.IXor64()}, false, nil
	case wasm.Shl:
		return []masm.Instr{masm.IShL64()}, false, nil
	case wasm.ShrU:
		return []masm.Instr{masm.IShR64()}, false, nil
	default:
		return nil, false, errors.NewUnsupported64Bits(ins.IntOp)
	}
}

// translateIRelOp lowers a comparison. MASM's native I(N)Eq/ILt/IGt/ILte/
// IGte compare unsigned; the signed variants flip the sign bit of both
// operands first (a classic two's-complement trick: with the sign bit
// flipped, unsigned order matches signed order) and otherwise dispatch to
// the same native op.
func (t *Translator) translateIRelOp(ins wasm.Instr) ([]masm.Instr, bool, error) {
	if ins.Bits == 64 {
		return t.translateIRelOp64(ins)
	}
	return t.translateIRelOp32(ins)
}

func (t *Translator) translateIRelOp32(ins wasm.Instr) ([]masm.Instr, bool, error) {
	if err := t.apply(i32i32, i32); err != nil {
		return nil, false, err
	}
	native, signed := relOpNative32(ins.RelOp)
	if !signed {
		return []masm.Instr{native}, false, nil
	}
	out := []masm.Instr{
		masm.Push(signBit32), masm.Swap(1), masm.IXor(),
		masm.Push(signBit32), masm.MoveUp(2), masm.IXor(),
		masm.Swap(1),
		native,
	}
	return out, false, nil
}

func relOpNative32(op wasm.RelOp) (masm.Instr, bool) {
	switch op {
	case wasm.Eq:
		return masm.IEq(nil), false
	case wasm.Ne:
		return masm.INeq(), false
	case wasm.LtU:
		return masm.ILt(), false
	case wasm.LtS:
		return masm.ILt(), true
	case wasm.GtU:
		return masm.IGt(), false
	case wasm.GtS:
		return masm.IGt(), true
	case wasm.LeU:
		return masm.ILte(), false
	case wasm.LeS:
		return masm.ILte(), true
	case wasm.GeU:
		return masm.IGte(), false
	case wasm.GeS:
		return masm.IGte(), true
	}
	return masm.IEq(nil), false
}

func (t *Translator) translateIRelOp64(ins wasm.Instr) ([]masm.Instr, bool, error) {
	if err := t.apply([]wasm.ValueType{wasm.I64, wasm.I64}, i32); err != nil {
		return nil, false, err
	}
	native, signed := relOpNative64(ins.RelOp)
	if !signed {
		return []masm.Instr{native}, false, nil
	}
	return t.emitSigned64Compare(native), false, nil
}

func relOpNative64(op wasm.RelOp) (masm.Instr, bool) {
	switch op {
	case wasm.Eq:
		return masm.IEq64(), false
	case wasm.Ne:
		return masm.INeq64(), false
	case wasm.LtU:
		return masm.ILt64(), false
	case wasm.LtS:
		return masm.ILt64(), true
	case wasm.GtU:
		return masm.IGt64(), false
	case wasm.GtS:
		return masm.IGt64(), true
	case wasm.LeU:
		return masm.ILte64(), false
	case wasm.LeS:
		return masm.ILte64(), true
	case wasm.GeU:
		return masm.IGte64(), false
	case wasm.GeS:
		return masm.IGte64(), true
	}
	return masm.IEq64(), false
}

// emitSigned64Compare flips bit 63 (the high word's sign bit) of both
// operands via IXor64 against the constant 0x8000000000000000, spilling
// the four operand cells through all four scratch cells so each operand
// is reloaded whole instead of being shuffled on the stack.
func (t *Translator) emitSigned64Compare(native masm.Instr) []masm.Instr {
	bHi, bLo, aHi, aLo := t.scratch[0], t.scratch[1], t.scratch[2], t.scratch[3]

	out := stash2(bHi, bLo) // stack: [A_hi, A_lo]
	out = append(out, stash2(aHi, aLo)...)

	out = append(out, load2(aHi, aLo)...)
	out = append(out, masm.Push(0), masm.Push(signBit32), masm.IXor64())
	out = append(out, stash2(aHi, aLo)...)

	out = append(out, load2(bHi, bLo)...)
	out = append(out, masm.Push(0), masm.Push(signBit32), masm.IXor64())
	out = append(out, stash2(bHi, bLo)...)

	out = append(out, load2(aHi, aLo)...)
	out = append(out, load2(bHi, bLo)...)
	out = append(out, native)
	return out
}

func stash2(hiSlot, loSlot uint32) []masm.Instr {
	return []masm.Instr{
		masm.LocStore(hiSlot), masm.Drop(),
		masm.LocStore(loSlot), masm.Drop(),
	}
}

func load2(hiSlot, loSlot uint32) []masm.Instr {
	return []masm.Instr{masm.LocLoad(loSlot), masm.LocLoad(hiSlot)}
}

// emitNormalizedShift reduces the dynamic shift amount mod 32 (spec.md
// §4.5; Wasm requires shift counts to wrap) before applying the native op.
// The shift amount is already on top, directly beneath where 32 lands, so
// IMod normalizes it in place with no reordering needed.
func (t *Translator) emitNormalizedShift(native masm.Instr) []masm.Instr {
	return []masm.Instr{
		masm.Push(32), masm.IMod(),
		native,
	}
}

// emitDivS divides [b(top), a] with truncation toward zero: both operands
// are made non-negative, divided with the native unsigned IDiv, and the
// quotient is negated if exactly one operand was negative.
func (t *Translator) emitDivS() []masm.Instr {
	sB, sA, sSignA, sSignB := t.scratch[0], t.scratch[1], t.scratch[2], t.scratch[3]

	out := []masm.Instr{masm.LocStore(sB), masm.Drop(), masm.LocStore(sA), masm.Drop()}
	out = append(out, masm.LocLoad(sA), masm.Push(signBit32), masm.IGte())
	out = append(out, masm.LocStore(sSignA), masm.Drop())
	out = append(out, masm.LocLoad(sB), masm.Push(signBit32), masm.IGte())
	out = append(out, masm.LocStore(sSignB), masm.Drop())

	out = append(out, masm.LocLoad(sA), masm.LocLoad(sSignA), masm.If(negate(), nil))
	out = append(out, masm.LocStore(sA), masm.Drop())
	out = append(out, masm.LocLoad(sB), masm.LocLoad(sSignB), masm.If(negate(), nil))
	out = append(out, masm.LocStore(sB), masm.Drop())

	out = append(out, masm.LocLoad(sA), masm.LocLoad(sB), masm.IDiv())

	out = append(out, masm.LocLoad(sSignA), masm.LocLoad(sSignB), masm.INeq())
	out = append(out, masm.If(negate(), nil))
	return out
}

// emitRemS computes a signed remainder, taking the sign of the dividend.
func (t *Translator) emitRemS() []masm.Instr {
	sB, sA, sSignA := t.scratch[0], t.scratch[1], t.scratch[2]

	out := []masm.Instr{masm.LocStore(sB), masm.Drop(), masm.LocStore(sA), masm.Drop()}
	out = append(out, masm.LocLoad(sA), masm.Push(signBit32), masm.IGte())
	out = append(out, masm.LocStore(sSignA), masm.Drop())

	out = append(out, masm.LocLoad(sA), masm.LocLoad(sSignA), masm.If(negate(), nil))
	out = append(out, masm.LocStore(sA), masm.Drop())
	out = append(out, masm.LocLoad(sB), masm.LocLoad(sB), masm.Push(signBit32), masm.IGte(), masm.If(negate(), nil))
	out = append(out, masm.LocStore(sB), masm.Drop())

	out = append(out, masm.LocLoad(sA), masm.LocLoad(sB), masm.IMod())
	out = append(out, masm.LocLoad(sSignA), masm.If(negate(), nil))
	return out
}

// emitShrS performs an arithmetic right shift: the unsigned result is
// OR-ed with a sign-extension mask whenever the dividend is negative.
func (t *Translator) emitShrS() []masm.Instr {
	sS, sA, sR := t.scratch[0], t.scratch[1], t.scratch[2]

	out := []masm.Instr{masm.LocStore(sS), masm.Drop()}
	out = append(out, masm.LocLoad(sS), masm.Push(32), masm.IMod())
	out = append(out, masm.LocStore(sS), masm.Drop())
	out = append(out, masm.LocStore(sA), masm.Drop())

	out = append(out, masm.LocLoad(sA), masm.LocLoad(sS), masm.IShR())
	out = append(out, masm.LocStore(sR), masm.Drop())

	out = append(out, masm.LocLoad(sA), masm.Push(signBit32), masm.IGte())
	out = append(out, masm.If(
		[]masm.Instr{masm.LocLoad(sS), masm.IEqz(), masm.If(
			// A shift of 32-0=32 aliases to a shift of 0 under MASM's mod-32
			// shift semantics, which would wrongly turn "no sign fill
			// needed" into "fill every bit"; a zero shift needs no mask.
			[]masm.Instr{masm.Push(0)},
			[]masm.Instr{masm.Push(0xFFFFFFFF), masm.Push(32), masm.LocLoad(sS), masm.ISub(), masm.IShL()},
		)},
		[]masm.Instr{masm.Push(0)},
	))
	out = append(out, masm.LocLoad(sR), masm.IOr())
	return out
}

// emitRotate emulates rotation, which MASM has no native op for, as the
// standard two-shift-and-or formula.
func (t *Translator) emitRotate(left bool) []masm.Instr {
	sS, sA := t.scratch[0], t.scratch[1]

	out := []masm.Instr{masm.LocStore(sS), masm.Drop()}
	out = append(out, masm.LocLoad(sS), masm.Push(32), masm.IMod())
	out = append(out, masm.LocStore(sS), masm.Drop())
	out = append(out, masm.LocStore(sA), masm.Drop())

	main, other := masm.IShL(), masm.IShR()
	if !left {
		main, other = masm.IShR(), masm.IShL()
	}

	out = append(out, masm.LocLoad(sA), masm.LocLoad(sS), main)
	out = append(out, masm.LocLoad(sA), masm.Push(32), masm.LocLoad(sS), masm.ISub(), masm.Push(32), masm.IMod(), other)
	out = append(out, masm.IOr())
	return out
}

func negate() []masm.Instr {
	return []masm.Instr{masm.Push(0), masm.Swap(1), masm.ISub()}
}
