// Package interp is a reference interpreter for the masm AST: a direct,
// unoptimized evaluator used by tests to check a translated module's
// semantics without invoking the real Miden executable (an external
// collaborator this repository never shells out to). It formalizes, as
// executable code, every operand-order convention the translator package
// assumes by construction: binary ops compute "the operand beneath OP the
// operand on top", MemStore/LocStore peek rather than pop their value
// argument, While pops a fresh boolean before each iteration including the
// first, and every *64 op treats the top two cells as one value with the
// high cell on top.
package interp

import (
	"fmt"

	"github.com/miden-vm/wasm2masm/masm"
)

// maxSteps bounds total instructions executed, so a runaway while.true in a
// malformed or adversarial test fixture fails fast instead of hanging the
// test binary.
const maxSteps = 10_000_000

// Interp evaluates one masm.Module against a word-addressed memory and a
// single shared operand stack, dispatching Exec by name into the module's
// own procedure table.
type Interp struct {
	procs map[string]masm.Proc
	mem   map[uint32]uint32
	stack []uint32
	steps int
}

// New constructs an interpreter for mod. Memory starts entirely zeroed
// (every unwritten address reads back as 0).
func New(mod *masm.Module) *Interp {
	procs := make(map[string]masm.Proc, len(mod.Procedures))
	for _, p := range mod.Procedures {
		procs[p.Name] = p.Proc
	}
	return &Interp{procs: procs, mem: map[uint32]uint32{}}
}

// Run executes mod's program entry block against a fresh, zeroed local
// frame of mod.ProgramLocalCells cells and returns the final operand
// stack, top element last.
func Run(mod *masm.Module) ([]uint32, error) {
	in := New(mod)
	locals := make([]uint32, mod.ProgramLocalCells)
	if err := in.exec(mod.Program, locals); err != nil {
		return nil, err
	}
	return in.stack, nil
}

// Mem reads a word of memory for assertions in tests.
func (in *Interp) Mem(addr uint32) uint32 { return in.mem[addr] }

func (in *Interp) push(v uint32) { in.stack = append(in.stack, v) }

func (in *Interp) pop() (uint32, error) {
	if len(in.stack) == 0 {
		return 0, fmt.Errorf("interp: pop from empty stack")
	}
	n := len(in.stack) - 1
	v := in.stack[n]
	in.stack = in.stack[:n]
	return v, nil
}

func (in *Interp) peek() (uint32, error) {
	if len(in.stack) == 0 {
		return 0, fmt.Errorf("interp: peek at empty stack")
	}
	return in.stack[len(in.stack)-1], nil
}

func (in *Interp) at(depth uint32) (uint32, error) {
	i := len(in.stack) - 1 - int(depth)
	if i < 0 {
		return 0, fmt.Errorf("interp: stack depth %d exceeds height %d", depth, len(in.stack))
	}
	return in.stack[i], nil
}

// exec runs a straight-line instruction sequence against the given active
// local frame, executed to completion or until an error or step budget
// overrun.
func (in *Interp) exec(body []masm.Instr, locals []uint32) error {
	for _, ins := range body {
		in.steps++
		if in.steps > maxSteps {
			return fmt.Errorf("interp: exceeded %d steps, likely non-terminating while.true", maxSteps)
		}
		if err := in.step(ins, locals); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interp) step(ins masm.Instr, locals []uint32) error {
	switch ins.Op {
	case masm.OpPush:
		in.push(ins.Word)
		return nil

	case masm.OpDrop:
		_, err := in.pop()
		return err

	case masm.OpDup:
		v, err := in.at(ins.K)
		if err != nil {
			return err
		}
		in.push(v)
		return nil

	case masm.OpSwap:
		return in.swap(ins.K)

	case masm.OpMoveUp:
		return in.moveUp(ins.K)

	case masm.OpMemLoad:
		addr := ins.Addr
		if !ins.HasAddr {
			a, err := in.pop()
			if err != nil {
				return err
			}
			addr = a
		}
		in.push(in.mem[addr])
		return nil

	case masm.OpMemStore:
		addr := ins.Addr
		if !ins.HasAddr {
			a, err := in.pop()
			if err != nil {
				return err
			}
			addr = a
		}
		v, err := in.peek()
		if err != nil {
			return err
		}
		in.mem[addr] = v
		return nil

	case masm.OpLocLoad:
		if err := checkLocal(locals, ins.K); err != nil {
			return err
		}
		in.push(locals[ins.K])
		return nil

	case masm.OpLocStore:
		if err := checkLocal(locals, ins.K); err != nil {
			return err
		}
		v, err := in.peek()
		if err != nil {
			return err
		}
		locals[ins.K] = v
		return nil

	case masm.OpExec:
		proc, ok := in.procs[ins.Name]
		if !ok {
			return fmt.Errorf("interp: exec of undefined procedure %q", ins.Name)
		}
		return in.exec(proc.Body, make([]uint32, proc.NLocalCells))

	case masm.OpIf:
		cond, err := in.pop()
		if err != nil {
			return err
		}
		if cond != 0 {
			return in.exec(ins.Then, locals)
		}
		return in.exec(ins.Else, locals)

	case masm.OpWhile:
		cond, err := in.pop()
		if err != nil {
			return err
		}
		for cond != 0 {
			if err := in.exec(ins.Body, locals); err != nil {
				return err
			}
			cond, err = in.pop()
			if err != nil {
				return err
			}
			in.steps++
			if in.steps > maxSteps {
				return fmt.Errorf("interp: exceeded %d steps, likely non-terminating while.true", maxSteps)
			}
		}
		return nil

	case masm.OpCDrop:
		cond, err := in.pop()
		if err != nil {
			return err
		}
		v, err := in.pop()
		if err != nil {
			return err
		}
		if cond == 0 {
			in.push(v)
		}
		return nil

	case masm.OpAssert:
		v, err := in.pop()
		if err != nil {
			return err
		}
		if v != 1 {
			return fmt.Errorf("interp: assertion failed")
		}
		return nil

	default:
		return in.stepArith(ins)
	}
}

// swap exchanges the top element with the element at depth k (k=1 is the
// ordinary two-element swap).
func (in *Interp) swap(k uint32) error {
	top := len(in.stack) - 1
	other := top - int(k)
	if other < 0 || top < 0 {
		return fmt.Errorf("interp: swap.%d exceeds stack height %d", k, len(in.stack))
	}
	in.stack[top], in.stack[other] = in.stack[other], in.stack[top]
	return nil
}

// moveUp relocates the element at depth k to the top, shifting every
// element above it down by one, matching real Miden's movup.n.
func (in *Interp) moveUp(k uint32) error {
	top := len(in.stack) - 1
	src := top - int(k)
	if src < 0 {
		return fmt.Errorf("interp: movup.%d exceeds stack height %d", k, len(in.stack))
	}
	v := in.stack[src]
	copy(in.stack[src:top], in.stack[src+1:top+1])
	in.stack[top] = v
	return nil
}

func checkLocal(locals []uint32, k uint32) error {
	if int(k) >= len(locals) {
		return fmt.Errorf("interp: local cell %d exceeds frame size %d", k, len(locals))
	}
	return nil
}
