package translate_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miden-vm/wasm2masm/internal/compile"
	"github.com/miden-vm/wasm2masm/internal/fixtures"
	"github.com/miden-vm/wasm2masm/masm"
	"github.com/miden-vm/wasm2masm/wasm"
)

func TestScenarioConstDropLeavesStackEmpty(t *testing.T) {
	mod := niladicModule(nil, nil, []wasm.Instr{wasm.I32Const(42), wasm.Drop()})
	stack := run(t, mod)
	assert.Empty(t, stack)
}

func TestScenarioAddEvaluatesToSeven(t *testing.T) {
	mod := niladicModule([]wasm.ValueType{wasm.I32}, nil, []wasm.Instr{
		wasm.I32Const(3), wasm.I32Const(4), wasm.IBinOp(32, wasm.Add),
	})
	stack := run(t, mod)
	require.Len(t, stack, 1)
	assert.Equal(t, uint32(7), stack[0])
}

func TestScenarioSignedDivideTruncatesTowardZero(t *testing.T) {
	mod := niladicModule([]wasm.ValueType{wasm.I32}, nil, []wasm.Instr{
		wasm.I32Const(-10), wasm.I32Const(3), wasm.IBinOp(32, wasm.DivS),
	})
	stack := run(t, mod)
	require.Len(t, stack, 1)
	assert.Equal(t, uint32(0xFFFFFFFD), stack[0]) // -10/3 == -3
}

// TestScenarioLoopBodyRunsOnceThenBranchesOut checks a `br 1` from directly
// inside a loop exits the enclosing block after exactly one iteration,
// rather than restarting the loop or unwinding further than intended.
func TestScenarioLoopBodyRunsOnceThenBranchesOut(t *testing.T) {
	body := []wasm.Instr{
		wasm.I32Const(0), wasm.SetLocal(0),
		wasm.Block(wasm.Void, []wasm.Instr{
			wasm.Loop(wasm.Void, []wasm.Instr{
				wasm.GetLocal(0), wasm.I32Const(1), wasm.IBinOp(32, wasm.Add), wasm.SetLocal(0),
				wasm.Br(1), // targets the enclosing block, not the loop itself
			}),
		}),
		wasm.GetLocal(0),
	}
	mod := niladicModule([]wasm.ValueType{wasm.I32}, []wasm.ValueType{wasm.I32}, body)
	stack := run(t, mod)
	require.Len(t, stack, 1)
	assert.Equal(t, uint32(1), stack[0])
}

func TestScenarioI64StoreLoadRoundTrip(t *testing.T) {
	body := []wasm.Instr{
		wasm.I32Const(8), wasm.I64Const(0x0123456789ABCDEF),
		wasm.Store(wasm.OpI64Store, wasm.MemArg{Offset: 0}),
		wasm.I32Const(8), wasm.Load(wasm.OpI64Load, wasm.MemArg{Offset: 0}),
	}
	mod := niladicModule([]wasm.ValueType{wasm.I64}, nil, body)
	stack := run(t, mod)
	require.Len(t, stack, 2)
	assert.Equal(t, uint32(0x89ABCDEF), stack[0], "low word")
	assert.Equal(t, uint32(0x01234567), stack[1], "high word, on top")
}

func TestScenarioByteStorePreservesSiblingBytes(t *testing.T) {
	body := []wasm.Instr{
		wasm.I32Const(8), wasm.I32Const(0x44332211),
		wasm.Store(wasm.OpI32Store, wasm.MemArg{Offset: 0}),
		wasm.I32Const(9), wasm.I32Const(0xAB),
		wasm.Store(wasm.OpI32Store8, wasm.MemArg{Offset: 0}),
		wasm.I32Const(8), wasm.Load(wasm.OpI32Load, wasm.MemArg{Offset: 0}),
	}
	mod := niladicModule([]wasm.ValueType{wasm.I32}, nil, body)
	stack := run(t, mod)
	require.Len(t, stack, 1)
	assert.Equal(t, uint32(0x4433AB11), stack[0])
}

func TestTranslationIsDeterministic(t *testing.T) {
	mod, ok := fixtures.Get("fib")
	require.True(t, ok)

	out1, errs1 := compile.ToMASM(mod, compile.Options{})
	require.Empty(t, errs1)
	out2, errs2 := compile.ToMASM(mod, compile.Options{})
	require.Empty(t, errs2)

	assert.True(t, reflect.DeepEqual(out1, out2), "two translations of the same module must be identical")
}

// TestEmissionIsTopological checks every procedure only Execs a procedure
// that appears earlier in the emitted list, matching the planner's
// callee-before-caller guarantee.
func TestEmissionIsTopological(t *testing.T) {
	for _, name := range fixtures.Names() {
		mod, ok := fixtures.Get(name)
		require.True(t, ok)

		out, errs := compile.ToMASM(mod, compile.Options{})
		require.Empty(t, errs)

		position := make(map[string]int, len(out.Procedures))
		for i, p := range out.Procedures {
			position[p.Name] = i
		}

		for i, p := range out.Procedures {
			checkTopological(t, name, p.Name, i, p.Proc.Body, position)
		}
	}
}

func checkTopological(t *testing.T, fixture, proc string, pos int, body []masm.Instr, position map[string]int) {
	for _, ins := range body {
		switch ins.Op {
		case masm.OpExec:
			calleePos, ok := position[ins.Name]
			require.True(t, ok, "%s: %s execs unknown procedure %s", fixture, proc, ins.Name)
			assert.Less(t, calleePos, pos, "%s: %s execs %s out of topological order", fixture, proc, ins.Name)
		case masm.OpIf:
			checkTopological(t, fixture, proc, pos, ins.Then, position)
			checkTopological(t, fixture, proc, pos, ins.Else, position)
		case masm.OpWhile:
			checkTopological(t, fixture, proc, pos, ins.Body, position)
		}
	}
}
