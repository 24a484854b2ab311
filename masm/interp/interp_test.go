package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miden-vm/wasm2masm/masm"
)

func run(t *testing.T, program []masm.Instr) []uint32 {
	t.Helper()
	mod := &masm.Module{Program: program}
	stack, err := Run(mod)
	require.NoError(t, err)
	return stack
}

func TestPushDrop(t *testing.T) {
	stack := run(t, []masm.Instr{masm.Push(1), masm.Push(2), masm.Drop()})
	assert.Equal(t, []uint32{1}, stack)
}

func TestBinopOperandOrder(t *testing.T) {
	// 10 - 3: the deeper operand (10) is pushed first, so IDiv/ISub must
	// compute deeper OP top, not the reverse.
	stack := run(t, []masm.Instr{masm.Push(10), masm.Push(3), masm.ISub()})
	assert.Equal(t, []uint32{7}, stack)

	stack = run(t, []masm.Instr{masm.Push(10), masm.Push(3), masm.IDiv()})
	assert.Equal(t, []uint32{3}, stack)
}

func TestSwapExchangesDepthK(t *testing.T) {
	stack := run(t, []masm.Instr{masm.Push(1), masm.Push(2), masm.Push(3), masm.Swap(1)})
	assert.Equal(t, []uint32{1, 3, 2}, stack)

	stack = run(t, []masm.Instr{masm.Push(1), masm.Push(2), masm.Push(3), masm.Swap(2)})
	assert.Equal(t, []uint32{3, 2, 1}, stack)
}

func TestMoveUpShiftsElementsDown(t *testing.T) {
	stack := run(t, []masm.Instr{masm.Push(1), masm.Push(2), masm.Push(3), masm.MoveUp(2)})
	assert.Equal(t, []uint32{2, 3, 1}, stack)
}

func TestIfBranchesOnCondition(t *testing.T) {
	stack := run(t, []masm.Instr{
		masm.Push(1),
		masm.If([]masm.Instr{masm.Push(42)}, []masm.Instr{masm.Push(0)}),
	})
	assert.Equal(t, []uint32{42}, stack)

	stack = run(t, []masm.Instr{
		masm.Push(0),
		masm.If([]masm.Instr{masm.Push(42)}, []masm.Instr{masm.Push(99)}),
	})
	assert.Equal(t, []uint32{99}, stack)
}

func TestWhilePopsConditionBeforeFirstIteration(t *testing.T) {
	// A false condition with no prior iteration must run the body zero
	// times: push.0 directly feeding while.true is the first-iteration
	// guard, not just the inter-iteration one.
	stack := run(t, []masm.Instr{
		masm.Push(0),
		masm.While([]masm.Instr{masm.Push(1), masm.Drop(), masm.Push(0)}),
		masm.Push(7),
	})
	assert.Equal(t, []uint32{7}, stack)
}

func TestWhileCountsDown(t *testing.T) {
	mod := &masm.Module{
		ProgramLocalCells: 1,
		Program: []masm.Instr{
			masm.Push(3), masm.LocStore(0),
			masm.Push(1), // first-iteration condition
			masm.While([]masm.Instr{
				masm.Drop(), // drop the stale condition left from LocStore's peek
				masm.LocLoad(0), masm.Push(1), masm.ISub(), masm.LocStore(0),
				masm.LocLoad(0), masm.Push(0), masm.IGt(),
			}),
		},
	}
	stack, err := Run(mod)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0}, stack)
	in := New(mod)
	locals := make([]uint32, mod.ProgramLocalCells)
	require.NoError(t, in.exec(mod.Program, locals))
	assert.Equal(t, uint32(0), locals[0])
}

func TestLocStoreAndMemStorePeekRatherThanPop(t *testing.T) {
	mod := &masm.Module{
		ProgramLocalCells: 1,
		Program: []masm.Instr{
			masm.Push(5), masm.LocStore(0), // leaves 5 on the stack
		},
	}
	stack, err := Run(mod)
	require.NoError(t, err)
	assert.Equal(t, []uint32{5}, stack)
}

func TestI64HighOnTop(t *testing.T) {
	// Two i64 values, each pushed low-then-high. IAdd64 must read the top
	// two cells as one value with the high cell on top, not the reverse.
	stack := run(t, []masm.Instr{
		masm.Push(1), masm.Push(0), // value A = 1
		masm.Push(2), masm.Push(0), // value B = 2
		masm.IAdd64(),
	})
	assert.Equal(t, []uint32{3, 0}, stack)
}

func TestAssertTrapsOnNonOne(t *testing.T) {
	_, err := Run(&masm.Module{Program: []masm.Instr{masm.Push(0), masm.Assert()}})
	assert.Error(t, err)

	stack := run(t, []masm.Instr{masm.Push(1), masm.Assert()})
	assert.Empty(t, stack)
}

func TestExecDispatchesNamedProcedure(t *testing.T) {
	mod := &masm.Module{
		Procedures: []masm.NamedProc{
			{Name: "double", Proc: masm.Proc{Body: []masm.Instr{masm.Push(2), masm.IMul()}}},
		},
		Program: []masm.Instr{masm.Push(21), masm.Exec("double")},
	}
	stack, err := Run(mod)
	require.NoError(t, err)
	assert.Equal(t, []uint32{42}, stack)
}

func TestDivisionByZeroErrors(t *testing.T) {
	_, err := Run(&masm.Module{Program: []masm.Instr{masm.Push(1), masm.Push(0), masm.IDiv()}})
	assert.Error(t, err)
}
