package translate

import (
	"github.com/miden-vm/wasm2masm/internal/layout"
	"github.com/miden-vm/wasm2masm/internal/wasi"
	"github.com/miden-vm/wasm2masm/masm"
	"github.com/miden-vm/wasm2masm/wasm"
)

// EvalInitExpr lowers a constant-expression instruction sequence — a
// global's initializer or a data segment's offset (spec.md §4.1) — into
// MASM code that leaves its single result on top of the stack. Wasm 1.0
// restricts these sequences to const instructions (and global.get of an
// imported immutable global, which this module's import set never
// produces), so the ordinary instruction dispatcher handles them directly
// with no dedicated constant folder.
func EvalInitExpr(mod *wasm.Module, l layout.Layout, reg wasi.Registry, body []wasm.Instr) ([]masm.Instr, error) {
	t := New(mod, l, reg, nil)
	t.pushCtx(ctxFrame{kind: ctxGlobalsInit, block: wasm.Void})
	return t.translateBody(body)
}
