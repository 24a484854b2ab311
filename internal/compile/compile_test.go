package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miden-vm/wasm2masm/internal/errors"
	"github.com/miden-vm/wasm2masm/internal/fixtures"
	"github.com/miden-vm/wasm2masm/masm"
	"github.com/miden-vm/wasm2masm/masm/interp"
	"github.com/miden-vm/wasm2masm/wasm"
)

// These tests compile a fixture module and execute the result against the
// reference interpreter, checking the translator's stack-order conventions
// end to end rather than inspecting emitted instructions by hand.

func TestAddFixtureEvaluatesToFive(t *testing.T) {
	mod, ok := fixtures.Get("add")
	require.True(t, ok)

	out, errs := ToMASM(mod, Options{})
	require.Empty(t, errs)

	stack, err := interp.Run(out)
	require.NoError(t, err)
	require.Len(t, stack, 1)
	assert.Equal(t, uint32(5), stack[0])
}

func TestFibFixtureComputesIterativeFibonacci(t *testing.T) {
	mod, ok := fixtures.Get("fib")
	require.True(t, ok)

	out, errs := ToMASM(mod, Options{})
	require.Empty(t, errs)

	stack, err := interp.Run(out)
	require.NoError(t, err)
	require.Len(t, stack, 1)
	assert.Equal(t, uint32(55), stack[0])
}

func TestHelloFixtureWritesDataSegmentAndCallsImport(t *testing.T) {
	mod, ok := fixtures.Get("hello")
	require.True(t, ok)

	out, errs := ToMASM(mod, Options{})
	require.Empty(t, errs)
	require.NotEmpty(t, out.Program)

	_, err := interp.Run(out)
	require.NoError(t, err)
}

func TestFloatSignatureIsRejected(t *testing.T) {
	mod := &wasm.Module{
		Types: []wasm.FuncType{{Results: []wasm.ValueType{wasm.F32}}},
		Functions: []wasm.Function{{
			TypeIdx: 0,
			Body:    []wasm.Instr{wasm.I32Const(0)},
		}},
		Exports: []wasm.Export{{Name: "main", Kind: wasm.ExportFunc, Idx: 0}},
	}

	_, errs := ToMASM(mod, Options{})
	require.Len(t, errs, 1)
	var target *errors.UnsupportedArgType
	assert.ErrorAs(t, errs[0], &target)
}

func TestDataSegmentForNonZeroMemoryIsRejected(t *testing.T) {
	mod := &wasm.Module{
		Types: []wasm.FuncType{{}},
		Functions: []wasm.Function{{
			TypeIdx: 0,
			Body:    []wasm.Instr{},
		}},
		Datas: []wasm.DataSegment{{
			MemIdx: 1,
			Offset: []wasm.Instr{wasm.I32Const(0)},
			Bytes:  []byte{1, 2, 3, 4},
		}},
		Exports: []wasm.Export{{Name: "main", Kind: wasm.ExportFunc, Idx: 0}},
	}

	_, errs := ToMASM(mod, Options{})
	require.Len(t, errs, 1)
	var target *errors.BadNoMultipleMem
	assert.ErrorAs(t, errs[0], &target)
}

// TestWASIGlobalDiscoveryOrderFollowsFirstCallUse declares random_get before
// clock_time_get but calls clock_time_get first; the layout address handed
// to clock_ticks must reflect that call order, not declaration order.
func TestWASIGlobalDiscoveryOrderFollowsFirstCallUse(t *testing.T) {
	mod := &wasm.Module{
		Types: []wasm.FuncType{
			{Params: []wasm.ValueType{wasm.I32, wasm.I32}, Results: []wasm.ValueType{wasm.I32}},
			{Params: []wasm.ValueType{wasm.I32, wasm.I64, wasm.I32}, Results: []wasm.ValueType{wasm.I32}},
			{}, // niladic entry
		},
		Imports: []wasm.Import{
			{Module: "wasi_snapshot_preview1", Name: "random_get", Desc: wasm.ImportFunc{TypeIdx: 0}},
			{Module: "wasi_snapshot_preview1", Name: "clock_time_get", Desc: wasm.ImportFunc{TypeIdx: 1}},
		},
		Functions: []wasm.Function{{
			TypeIdx: 2,
			Body: []wasm.Instr{
				// clock_time_get(0, 0, 0), called first
				wasm.I32Const(0), wasm.I64Const(0), wasm.I32Const(0), wasm.Call(1), wasm.Drop(),
				// random_get(0, 0), called second
				wasm.I32Const(0), wasm.I32Const(0), wasm.Call(0), wasm.Drop(),
			},
		}},
		Exports: []wasm.Export{{Name: "main", Kind: wasm.ExportFunc, Idx: 2}},
	}

	out, errs := ToMASM(mod, Options{})
	require.Empty(t, errs)

	var storeAddrs []uint32
	for _, ins := range out.Program {
		if ins.Op == masm.OpMemStore && ins.HasAddr {
			storeAddrs = append(storeAddrs, ins.Addr)
		}
	}
	require.GreaterOrEqual(t, len(storeAddrs), 3)
	assert.Equal(t, uint32(0), storeAddrs[0], "branch counter")
	assert.Equal(t, uint32(1), storeAddrs[1], "clock_ticks, resolved first by call order")
	assert.Equal(t, uint32(2), storeAddrs[2], "random_state, resolved second by call order")
}
