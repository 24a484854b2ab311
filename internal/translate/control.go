package translate

import (
	"github.com/miden-vm/wasm2masm/internal/errors"
	"github.com/miden-vm/wasm2masm/internal/layout"
	"github.com/miden-vm/wasm2masm/masm"
	"github.com/miden-vm/wasm2masm/wasm"
)

// bcAddr is an addressable copy of the branch counter's fixed address, used
// wherever a masm.Instr needs a *uint32 immediate.
var bcAddr = layout.BranchCounterAddr

// translateBody lowers a straight-line Wasm instruction sequence. Every
// instruction that can leave the branch counter non-zero (Br, BrIf,
// BrTable, Return, and any nested Block/Loop/If) is followed by a
// "continue guard": the remainder of the sequence is nested inside an
// `if.true` on `BC == 0`, so a still-unwinding branch skips the rest of
// this body instead of executing it (spec.md §4.4's decrement-until-target
// scheme).
func (t *Translator) translateBody(body []wasm.Instr) ([]masm.Instr, error) {
	var out []masm.Instr
	for i := 0; i < len(body); i++ {
		code, branchy, err := t.translateOne(body[i])
		if err != nil {
			return nil, err
		}
		out = append(out, code...)
		if branchy {
			rest, err := t.translateBody(body[i+1:])
			if err != nil {
				return nil, err
			}
			out = append(out,
				masm.MemLoad(&bcAddr),
				masm.IEqz(),
				masm.If(rest, nil),
			)
			return out, nil
		}
	}
	return out, nil
}

// emitDecrementIfPositive consumes one level of an in-flight branch: if
// BC > 0, BC := BC - 1. This is the uniform exit action of a Block, an If,
// and the function body itself — the only place Block/If/function differ
// from a Loop is that a Loop additionally tests for an exact match before
// deciding whether to restart (see translateLoop).
func emitDecrementIfPositive() []masm.Instr {
	return []masm.Instr{
		masm.MemLoad(&bcAddr),
		masm.IEqz(),
		masm.If(
			nil,
			[]masm.Instr{
				masm.MemLoad(&bcAddr),
				masm.Push(1),
				masm.ISub(),
				masm.MemStore(&bcAddr),
				masm.Drop(),
			},
		),
	}
}

func (t *Translator) translateBlock(ins wasm.Instr) ([]masm.Instr, bool, error) {
	snap := t.snapshot()
	t.pushCtx(ctxFrame{kind: ctxBlock, block: ins.Block, snapshot: snap, label: t.label()})

	inner, err := t.translateBody(ins.Body)
	t.popCtx()
	if err != nil {
		return nil, false, err
	}

	t.stack = append(snap, ins.Block.Results()...)

	out := append(inner, emitDecrementIfPositive()...)
	return out, true, nil
}

// translateLoop lowers a Wasm `loop`. A `br` targeting depth 0 from
// directly inside the loop restarts it; anything else (no active branch,
// or one targeting an ancestor) falls through. Implemented as a MASM
// `while.true`: the condition the body leaves on the stack decides whether
// the next iteration runs, matching spec.md §4.4.
func (t *Translator) translateLoop(ins wasm.Instr) ([]masm.Instr, bool, error) {
	snap := t.snapshot()
	t.pushCtx(ctxFrame{kind: ctxLoop, block: ins.Block, snapshot: snap, label: t.label()})

	inner, err := t.translateBody(ins.Body)
	t.popCtx()
	if err != nil {
		return nil, false, err
	}

	t.stack = append(snap, ins.Block.Results()...)

	one := uint32(1)
	tail := []masm.Instr{
		masm.MemLoad(&bcAddr),
		masm.Dup(0),
		masm.IEq(&one), // repeatFlag := (BC == 1)
		masm.Swap(1),   // [BC, repeatFlag]
		masm.Dup(0),
		masm.IEqz(),
		masm.If(
			nil, // BC == 0: leave BC as is
			[]masm.Instr{masm.Push(1), masm.ISub()}, // BC := BC - 1
		),
		masm.MemStore(&bcAddr), masm.Drop(),
		// stack: [repeatFlag]
	}

	body := append(append([]masm.Instr{}, inner...), tail...)
	out := []masm.Instr{masm.Push(1), masm.While(body)}
	return out, true, nil
}

func (t *Translator) translateIf(ins wasm.Instr) ([]masm.Instr, bool, error) {
	if err := t.expect(i32); err != nil {
		return nil, false, err
	}
	t.popN(1)
	snap := t.snapshot()

	t.pushCtx(ctxFrame{kind: ctxIf, block: ins.Block, snapshot: snap, label: t.label()})
	thenCode, err := t.translateBody(ins.Body)
	if err != nil {
		t.popCtx()
		return nil, false, err
	}
	t.stack = snap

	var elseCode []masm.Instr
	if ins.Else != nil {
		elseCode, err = t.translateBody(ins.Else)
		if err != nil {
			t.popCtx()
			return nil, false, err
		}
	}
	t.popCtx()

	t.stack = append(snap, ins.Block.Results()...)

	out := []masm.Instr{masm.If(thenCode, elseCode)}
	out = append(out, emitDecrementIfPositive()...)
	return out, true, nil
}

// branchTarget resolves a relative block depth to its control-context
// frame, counting outward from the innermost block/loop/if.
func (t *Translator) branchTarget(depth uint32) (ctxFrame, int, error) {
	// t.ctx[0] is always the function frame; real blocks are t.ctx[1:].
	idx := len(t.ctx) - 1 - int(depth)
	if idx < 0 {
		return ctxFrame{}, 0, errors.NewExpectedStack(nil, t.frames())
	}
	return t.ctx[idx], idx, nil
}

// emitBranchCleanup drops the operand-stack cells that lie between the
// target block's entry snapshot and the result cells the branch carries,
// then sets the branch counter to depth+1 (spec.md §4.4's branch-stack
// cleanup). resultCells is fixed at 0, 1 or 2 for Wasm 1.0; a result
// width that reaches the Accessible Stack Depth is still rejected, since
// MoveUp(resultCells) could not address the cell beneath the results.
func (t *Translator) emitBranchCleanup(depth uint32) ([]masm.Instr, error) {
	target, _, err := t.branchTarget(depth)
	if err != nil {
		return nil, err
	}

	resultTypes := target.block.Results()
	resultCells := cellsOf(resultTypes)

	curCells := cellsOf(t.stack)
	snapCells := cellsOf(target.snapshot)
	garbage := curCells - snapCells - resultCells
	if garbage < 0 {
		garbage = 0
	}

	if resultCells >= AccessibleStackDepth {
		return nil, errors.NewBlockResultTooLarge(resultCells)
	}

	var out []masm.Instr
	k := uint32(resultCells)
	for i := 0; i < garbage; i++ {
		out = append(out, masm.MoveUp(k), masm.Drop())
	}

	out = append(out,
		masm.Push(depth+1),
		masm.MemStore(&bcAddr),
		masm.Drop(),
	)
	return out, nil
}

func (t *Translator) translateBr(ins wasm.Instr) ([]masm.Instr, bool, error) {
	target, _, err := t.branchTarget(ins.Depth)
	if err != nil {
		return nil, false, err
	}
	if err := t.expect(target.block.Results()); err != nil {
		return nil, false, err
	}

	out, err := t.emitBranchCleanup(ins.Depth)
	if err != nil {
		return nil, false, err
	}
	// Unreachable code after an unconditional branch; the remainder of this
	// body is skipped by the caller's continue-guard regardless of the
	// simulated stack shape, so leave the stack as-is for the guard's body
	// to type-check against.
	return out, true, nil
}

func (t *Translator) translateBrIf(ins wasm.Instr) ([]masm.Instr, bool, error) {
	if err := t.expect(i32); err != nil {
		return nil, false, err
	}
	t.popN(1)

	target, _, err := t.branchTarget(ins.Depth)
	if err != nil {
		return nil, false, err
	}
	if err := t.expect(target.block.Results()); err != nil {
		return nil, false, err
	}

	then, err := t.emitBranchCleanup(ins.Depth)
	if err != nil {
		return nil, false, err
	}

	return []masm.Instr{masm.If(then, nil)}, true, nil
}

func (t *Translator) translateBrTable(ins wasm.Instr) ([]masm.Instr, bool, error) {
	if err := t.expect(i32); err != nil {
		return nil, false, err
	}
	t.popN(1)

	scratch := t.scratch[0]
	chain, err := t.buildBrTableChain(scratch, ins.Cases, ins.Default, 0)
	if err != nil {
		return nil, false, err
	}

	out := []masm.Instr{masm.LocStore(scratch), masm.Drop()}
	out = append(out, chain...)
	return out, true, nil
}

func (t *Translator) buildBrTableChain(scratch uint32, cases []uint32, def uint32, i int) ([]masm.Instr, error) {
	if i == len(cases) {
		return t.emitBranchCleanup(def)
	}
	then, err := t.emitBranchCleanup(cases[i])
	if err != nil {
		return nil, err
	}
	els, err := t.buildBrTableChain(scratch, cases, def, i+1)
	if err != nil {
		return nil, err
	}
	cond := []masm.Instr{masm.LocLoad(scratch), masm.Push(uint32(i)), masm.IEq(nil)}
	return append(cond, masm.If(then, els)), nil
}

func (t *Translator) translateReturn() ([]masm.Instr, bool, error) {
	depth := uint32(len(t.ctx) - 1) // one past the outermost open block/loop/if
	target := t.ctx[0]
	if err := t.expect(target.block.Results()); err != nil {
		return nil, false, err
	}

	out, err := t.emitBranchCleanup(depth)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func cellsOf(ts []wasm.ValueType) int {
	n := 0
	for _, tp := range ts {
		n += tp.Cells()
	}
	return n
}

func (t *Translator) label() string {
	return ""
}
