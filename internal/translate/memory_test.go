package translate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miden-vm/wasm2masm/internal/compile"
	"github.com/miden-vm/wasm2masm/internal/errors"
	"github.com/miden-vm/wasm2masm/wasm"
)

// writeWord emits the instructions to store word at byte address addr,
// prefixed onto whatever body follows.
func writeWord(addr uint32, word uint32) []wasm.Instr {
	return []wasm.Instr{
		wasm.I32Const(int32(addr)), wasm.I32Const(int32(word)),
		wasm.Store(wasm.OpI32Store, wasm.MemArg{Offset: 0}),
	}
}

// TestSubWordLoadsRecoverEachByteLane stores the word 0x81828384 at byte
// address 0 (byte 0 = 0x84 ... byte 3 = 0x81) and checks every sub-word load
// variant recovers the expected lane, zero- or sign-extended as its opcode
// demands.
func TestSubWordLoadsRecoverEachByteLane(t *testing.T) {
	cases := []struct {
		name     string
		op       wasm.Op
		addr     uint32
		wantLo   uint32
		wantHi   uint32 // only meaningful for i64 loads
		resultI64 bool
	}{
		{"i32load8u", wasm.OpI32Load8U, 0, 0x84, 0, false},
		{"i32load8s", wasm.OpI32Load8S, 0, 0xFFFFFF84, 0, false},
		{"i32load16u", wasm.OpI32Load16U, 0, 0x8384, 0, false},
		{"i32load16s", wasm.OpI32Load16S, 0, 0xFFFF8384, 0, false},
		{"i64load8u", wasm.OpI64Load8U, 2, 0x82, 0, true},
		{"i64load8s", wasm.OpI64Load8S, 2, 0xFFFFFF82, 0xFFFFFFFF, true},
		{"i64load16u", wasm.OpI64Load16U, 0, 0x8384, 0, true},
		{"i64load16s", wasm.OpI64Load16S, 0, 0xFFFF8384, 0xFFFFFFFF, true},
		{"i64load32u", wasm.OpI64Load32U, 0, 0x81828384, 0, true},
		{"i64load32s", wasm.OpI64Load32S, 0, 0x81828384, 0xFFFFFFFF, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			body := writeWord(0, 0x81828384)
			body = append(body, wasm.I32Const(int32(c.addr)), wasm.Load(c.op, wasm.MemArg{Offset: 0}))

			results := []wasm.ValueType{wasm.I32}
			wantLen := 1
			if c.resultI64 {
				results = []wasm.ValueType{wasm.I64}
				wantLen = 2
			}

			mod := niladicModule(results, nil, body)
			stack := run(t, mod)
			require.Len(t, stack, wantLen)
			assert.Equal(t, c.wantLo, stack[0], "low/only word")
			if c.resultI64 {
				assert.Equal(t, c.wantHi, stack[1], "high word")
			}
		})
	}
}

func TestSubWordStoresReadModifyWriteTheContainingWord(t *testing.T) {
	body := writeWord(8, 0x44332211)
	body = append(body,
		wasm.I32Const(9), wasm.I32Const(0xAB),
		wasm.Store(wasm.OpI32Store8, wasm.MemArg{Offset: 0}),
		wasm.I32Const(8), wasm.Load(wasm.OpI32Load, wasm.MemArg{Offset: 0}),
	)
	mod := niladicModule([]wasm.ValueType{wasm.I32}, nil, body)
	stack := run(t, mod)
	require.Len(t, stack, 1)
	assert.Equal(t, uint32(0x4433AB11), stack[0])
}

// TestI64SubWordStoreWritesOnlyTheLowWord checks I64Store16 discards the
// i64 value's high word and write only the truncated low bits, per the
// store-width table.
func TestI64SubWordStoreWritesOnlyTheLowWord(t *testing.T) {
	body := writeWord(0, 0)
	body = append(body,
		wasm.I32Const(0), wasm.I64Const(0x1234),
		wasm.Store(wasm.OpI64Store16, wasm.MemArg{Offset: 0}),
		wasm.I32Const(0), wasm.Load(wasm.OpI32Load16U, wasm.MemArg{Offset: 0}),
	)
	mod := niladicModule([]wasm.ValueType{wasm.I32}, nil, body)
	stack := run(t, mod)
	require.Len(t, stack, 1)
	assert.Equal(t, uint32(0x1234), stack[0])
}

func TestMisalignedI64LoadIsRejected(t *testing.T) {
	mod := niladicModule([]wasm.ValueType{wasm.I64}, nil, []wasm.Instr{
		wasm.I32Const(0), wasm.Load(wasm.OpI64Load, wasm.MemArg{Offset: 1}),
	})
	_, errs := compile.ToMASM(mod, compile.Options{})
	require.Len(t, errs, 1)
	var target *errors.BadMisalignedI64
	assert.ErrorAs(t, errs[0], &target)
}

func TestMisalignedI64StoreIsRejected(t *testing.T) {
	mod := niladicModule(nil, nil, []wasm.Instr{
		wasm.I32Const(0), wasm.I64Const(0),
		wasm.Store(wasm.OpI64Store, wasm.MemArg{Offset: 2}),
	})
	_, errs := compile.ToMASM(mod, compile.Options{})
	require.Len(t, errs, 1)
	var target *errors.BadMisalignedI64
	assert.ErrorAs(t, errs[0], &target)
}
