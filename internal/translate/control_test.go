package translate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miden-vm/wasm2masm/wasm"
)

// TestBrTableDistinguishesCaseFromDefault builds two nested blocks where the
// inner one is the br_table's case target and the outer one is its default
// target, and checks only a matching index reaches the code sitting between
// the two block ends.
func TestBrTableDistinguishesCaseFromDefault(t *testing.T) {
	brTableModule := func(idx int32) *wasm.Module {
		body := []wasm.Instr{
			wasm.I32Const(0), wasm.SetLocal(0), // result = 0
			wasm.Block(wasm.Void, []wasm.Instr{ // depth 1: default target
				wasm.Block(wasm.Void, []wasm.Instr{ // depth 0: case target
					wasm.I32Const(idx), wasm.BrTable([]uint32{0}, 1),
				}),
				wasm.I32Const(1), wasm.SetLocal(0), // reached only when the case (depth 0) was taken
			}),
			wasm.GetLocal(0),
		}
		return niladicModule([]wasm.ValueType{wasm.I32}, []wasm.ValueType{wasm.I32}, body)
	}

	stack := run(t, brTableModule(0))
	require.Len(t, stack, 1)
	assert.Equal(t, uint32(1), stack[0], "index 0 matches the case and falls through to set result")

	stack = run(t, brTableModule(5))
	require.Len(t, stack, 1)
	assert.Equal(t, uint32(0), stack[0], "index 5 matches nothing and takes the default, skipping the case's tail")
}

func TestSelectChoosesByConditionWithoutLeakingTheOtherOperand(t *testing.T) {
	mod := niladicModule([]wasm.ValueType{wasm.I32}, nil, []wasm.Instr{
		wasm.I32Const(11), wasm.I32Const(22), wasm.I32Const(1), wasm.Select(),
	})
	stack := run(t, mod)
	require.Len(t, stack, 1)
	assert.Equal(t, uint32(11), stack[0], "nonzero condition selects the first operand")

	mod = niladicModule([]wasm.ValueType{wasm.I32}, nil, []wasm.Instr{
		wasm.I32Const(11), wasm.I32Const(22), wasm.I32Const(0), wasm.Select(),
	})
	stack = run(t, mod)
	require.Len(t, stack, 1)
	assert.Equal(t, uint32(22), stack[0], "zero condition selects the second operand")
}

// TestEmptyBodyCallElisionDropsCalleeArguments is a regression test: eliding
// a call to a defined-but-empty-body function must still drop the
// arguments the caller already pushed, or they linger on the physical
// stack underneath everything translated afterward.
func TestEmptyBodyCallElisionDropsCalleeArguments(t *testing.T) {
	mod := &wasm.Module{
		Types: []wasm.FuncType{
			{Params: []wasm.ValueType{wasm.I32}},
			{Results: []wasm.ValueType{wasm.I32}},
		},
		Functions: []wasm.Function{
			{TypeIdx: 0, Body: []wasm.Instr{}}, // elided at every call site
			{TypeIdx: 1, Body: []wasm.Instr{
				wasm.I32Const(42), wasm.Call(0),
				wasm.I32Const(7), wasm.I32Const(3), wasm.IBinOp(32, wasm.Sub),
			}},
		},
		Exports: []wasm.Export{{Name: "main", Kind: wasm.ExportFunc, Idx: 1}},
	}

	stack := run(t, mod)
	require.Len(t, stack, 1, "the elided call's argument cell must be dropped, not left on the stack")
	assert.Equal(t, uint32(4), stack[0])
}
