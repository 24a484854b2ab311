package interp

import (
	"fmt"

	"github.com/miden-vm/wasm2masm/masm"
)

// stepArith evaluates every native arithmetic/bitwise/compare op, both
// 32-bit and 64-bit. Every binary op here follows one rule, derived from
// how the translator package constructs its operand sequences: the two
// operands are pushed in left-to-right order, so the op computes "the
// operand beneath OP the operand on top" — e.g. for IDiv, dividend beneath,
// divisor on top, result = dividend / divisor.
func (in *Interp) stepArith(ins masm.Instr) error {
	switch ins.Op {
	case masm.OpIAdd, masm.OpISub, masm.OpIMul, masm.OpIDiv, masm.OpIMod,
		masm.OpIShL, masm.OpIShR, masm.OpIAnd, masm.OpIOr, masm.OpIXor:
		return in.binop32(ins.Op)

	case masm.OpINot:
		v, err := in.pop()
		if err != nil {
			return err
		}
		in.push(^v)
		return nil

	case masm.OpIEq:
		return in.eq32(ins)
	case masm.OpINeq, masm.OpILt, masm.OpIGt, masm.OpILte, masm.OpIGte:
		return in.relop32(ins.Op)
	case masm.OpIEqz:
		v, err := in.pop()
		if err != nil {
			return err
		}
		in.push(b2u(v == 0))
		return nil

	case masm.OpIDivMod:
		return in.divmod32(ins)

	case masm.OpIAdd64, masm.OpISub64, masm.OpIMul64, masm.OpIShL64, masm.OpIShR64,
		masm.OpIAnd64, masm.OpIOr64, masm.OpIXor64:
		return in.binop64(ins.Op)

	case masm.OpIEq64, masm.OpINeq64, masm.OpILt64, masm.OpIGt64, masm.OpILte64, masm.OpIGte64:
		return in.relop64(ins.Op)
	case masm.OpIEqz64:
		v, err := in.pop64()
		if err != nil {
			return err
		}
		in.push(b2u(v == 0))
		return nil

	default:
		return fmt.Errorf("interp: unhandled opcode %v", ins.Op)
	}
}

func (in *Interp) binop32(op masm.Op) error {
	b, err := in.pop()
	if err != nil {
		return err
	}
	a, err := in.pop()
	if err != nil {
		return err
	}
	var r uint32
	switch op {
	case masm.OpIAdd:
		r = a + b
	case masm.OpISub:
		r = a - b
	case masm.OpIMul:
		r = a * b
	case masm.OpIDiv:
		if b == 0 {
			return fmt.Errorf("interp: division by zero")
		}
		r = a / b
	case masm.OpIMod:
		if b == 0 {
			return fmt.Errorf("interp: modulo by zero")
		}
		r = a % b
	case masm.OpIShL:
		r = a << (b % 32)
	case masm.OpIShR:
		r = a >> (b % 32)
	case masm.OpIAnd:
		r = a & b
	case masm.OpIOr:
		r = a | b
	case masm.OpIXor:
		r = a ^ b
	}
	in.push(r)
	return nil
}

func (in *Interp) eq32(ins masm.Instr) error {
	if ins.HasC {
		v, err := in.pop()
		if err != nil {
			return err
		}
		in.push(b2u(v == ins.C))
		return nil
	}
	b, err := in.pop()
	if err != nil {
		return err
	}
	a, err := in.pop()
	if err != nil {
		return err
	}
	in.push(b2u(a == b))
	return nil
}

func (in *Interp) relop32(op masm.Op) error {
	b, err := in.pop()
	if err != nil {
		return err
	}
	a, err := in.pop()
	if err != nil {
		return err
	}
	var r bool
	switch op {
	case masm.OpINeq:
		r = a != b
	case masm.OpILt:
		r = a < b
	case masm.OpIGt:
		r = a > b
	case masm.OpILte:
		r = a <= b
	case masm.OpIGte:
		r = a >= b
	}
	in.push(b2u(r))
	return nil
}

func (in *Interp) divmod32(ins masm.Instr) error {
	d := ins.D
	a, err := in.pop()
	if err != nil {
		return err
	}
	if !ins.HasD {
		d = a
		a, err = in.pop()
		if err != nil {
			return err
		}
	}
	if d == 0 {
		return fmt.Errorf("interp: division by zero")
	}
	in.push(a / d)
	in.push(a % d)
	return nil
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func b2u64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// pop64/push64 read and write a 64-bit value as two cells, high on top —
// the convention the translator package's i64 lowering relies on
// throughout (spec.md §4.3).
func (in *Interp) pop64() (uint64, error) {
	hi, err := in.pop()
	if err != nil {
		return 0, err
	}
	lo, err := in.pop()
	if err != nil {
		return 0, err
	}
	return uint64(hi)<<32 | uint64(lo), nil
}

func (in *Interp) push64(v uint64) {
	in.push(uint32(v))
	in.push(uint32(v >> 32))
}

func (in *Interp) binop64(op masm.Op) error {
	b, err := in.pop64()
	if err != nil {
		return err
	}
	a, err := in.pop64()
	if err != nil {
		return err
	}
	var r uint64
	switch op {
	case masm.OpIAdd64:
		r = a + b
	case masm.OpISub64:
		r = a - b
	case masm.OpIMul64:
		r = a * b
	case masm.OpIShL64:
		r = a << (b % 64)
	case masm.OpIShR64:
		r = a >> (b % 64)
	case masm.OpIAnd64:
		r = a & b
	case masm.OpIOr64:
		r = a | b
	case masm.OpIXor64:
		r = a ^ b
	}
	in.push64(r)
	return nil
}

func (in *Interp) relop64(op masm.Op) error {
	b, err := in.pop64()
	if err != nil {
		return err
	}
	a, err := in.pop64()
	if err != nil {
		return err
	}
	var r bool
	switch op {
	case masm.OpIEq64:
		r = a == b
	case masm.OpINeq64:
		r = a != b
	case masm.OpILt64:
		r = a < b
	case masm.OpIGt64:
		r = a > b
	case masm.OpILte64:
		r = a <= b
	case masm.OpIGte64:
		r = a >= b
	}
	in.push(b2u(r))
	return nil
}
