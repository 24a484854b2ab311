package statscmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/miden-vm/wasm2masm/wasm"
)

func TestTallyCategorizesEveryOpcode(t *testing.T) {
	body := []wasm.Instr{
		wasm.I32Const(1),
		wasm.I32Const(2),
		wasm.IBinOp(32, wasm.Add),
		wasm.IRelOp(32, wasm.Eq),
		wasm.GetLocal(0),
		wasm.SetLocal(1),
		wasm.Load(wasm.OpI32Load, wasm.MemArg{}),
		wasm.Store(wasm.OpI32Store, wasm.MemArg{}),
		wasm.If(wasm.Void, []wasm.Instr{wasm.I32Const(3)}, []wasm.Instr{wasm.I32Const(4)}),
	}

	r := tally("f0", body)
	assert.Equal(t, "f0", r.Func)
	assert.Equal(t, 5, r.Arith) // two top-level consts, one ibinop, two nested consts
	assert.Equal(t, 1, r.Compare)
	assert.Equal(t, 1, r.Load)
	assert.Equal(t, 1, r.Store)
	assert.Equal(t, 2, r.LocalGlobal)
	assert.Equal(t, 1, r.ControlFlow) // the if itself; its nested consts are tallied as Arith
	assert.Equal(t, r.Arith+r.Compare+r.Load+r.Store+r.ControlFlow+r.LocalGlobal+r.Other, r.Total)
}
