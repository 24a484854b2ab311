package translate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/miden-vm/wasm2masm/internal/compile"
	"github.com/miden-vm/wasm2masm/masm/interp"
	"github.com/miden-vm/wasm2masm/wasm"
)

// niladicModule builds a module with a single exported entry function that
// takes no parameters, the convention every fixture and program entry in
// this repository follows.
func niladicModule(results, locals []wasm.ValueType, body []wasm.Instr) *wasm.Module {
	return &wasm.Module{
		Types: []wasm.FuncType{{Results: results}},
		Functions: []wasm.Function{{
			TypeIdx: 0,
			Locals:  locals,
			Body:    body,
		}},
		Exports: []wasm.Export{{Name: "main", Kind: wasm.ExportFunc, Idx: 0}},
	}
}

// run compiles mod and executes it against the reference interpreter,
// returning the final operand stack (top element last).
func run(t *testing.T, mod *wasm.Module) []uint32 {
	t.Helper()
	out, errs := compile.ToMASM(mod, compile.Options{})
	require.Empty(t, errs)
	stack, err := interp.Run(out)
	require.NoError(t, err)
	return stack
}
