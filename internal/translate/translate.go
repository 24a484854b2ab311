// Package translate is the core of the compiler: the function translator
// (spec.md §4.3), control-flow lowerer (§4.4), and memory/arithmetic
// lowerer (§4.5). It threads two values through its recursion exactly as
// spec.md §5 describes: a mutable symbolic operand-stack type list and an
// append-only control-context stack, both owned by one Translator value per
// function (never a package-level global), mirroring the teacher's
// function struct (operands, branchTargets fields on a per-function value).
package translate

import (
	"fmt"

	"github.com/miden-vm/wasm2masm/internal/errors"
	"github.com/miden-vm/wasm2masm/internal/layout"
	"github.com/miden-vm/wasm2masm/internal/wasi"
	"github.com/miden-vm/wasm2masm/wasm"
)

// AccessibleStackDepth is the MASM-enforced maximum depth that Dup/Swap/
// MoveUp may address (spec.md §4.4, Glossary).
const AccessibleStackDepth = 16

// ctxKind is the kind of a control-context frame.
type ctxKind uint8

const (
	ctxFunction ctxKind = iota
	ctxBlock
	ctxLoop
	ctxIf
	ctxGlobalsInit
	ctxDatasInit
	ctxImport
)

func (k ctxKind) String() string {
	switch k {
	case ctxFunction:
		return "function"
	case ctxBlock:
		return "block"
	case ctxLoop:
		return "loop"
	case ctxIf:
		return "if"
	case ctxGlobalsInit:
		return "globals-init"
	case ctxDatasInit:
		return "data-init"
	case ctxImport:
		return "import"
	default:
		return "?"
	}
}

// ctxFrame is one entry of the control-context stack (spec.md §3's
// controlCtx). Block/Loop/If frames additionally record the block's
// declared type and the operand-stack snapshot captured on entry, used to
// restore the stack shape after the block exits and to resolve `br n`
// targets.
type ctxFrame struct {
	kind      ctxKind
	block    wasm.BlockType
	snapshot []wasm.ValueType
	label    string
}

// localSlot records the MASM local-frame cell addresses a single Wasm
// local (parameter or declared local) occupies.
type localSlot struct {
	Type  wasm.ValueType
	Cells []uint32
}

// Translator is the explicit mutable object translation helpers share for
// one function body. It is never reused across functions and never stored
// in a package-level variable.
type Translator struct {
	mod      *wasm.Module
	layout   layout.Layout
	registry wasi.Registry
	// emptyBody is the set of defined (global) function indices whose body
	// is empty and therefore elided (spec.md §3 "Empty-function elision").
	emptyBody map[int]bool

	funcIdx int
	locals  []localSlot
	scratch [4]uint32
	total   uint32

	stack []wasm.ValueType
	ctx   []ctxFrame
}

// New constructs a fresh Translator for one function body (or one
// initializer expression); the layout and registry it holds are shared,
// read-only, by every Translator built from them.
func New(mod *wasm.Module, l layout.Layout, reg wasi.Registry, emptyBody map[int]bool) *Translator {
	return &Translator{mod: mod, layout: l, registry: reg, emptyBody: emptyBody}
}

func (t *Translator) frames() []errors.Frame {
	out := make([]errors.Frame, len(t.ctx))
	for i, f := range t.ctx {
		out[i] = errors.Frame{Kind: f.kind.String(), Label: f.label}
	}
	return out
}

func (t *Translator) pushCtx(f ctxFrame) { t.ctx = append(t.ctx, f) }
func (t *Translator) popCtx() ctxFrame {
	n := len(t.ctx) - 1
	f := t.ctx[n]
	t.ctx = t.ctx[:n]
	return f
}

// expect verifies operandStack has params as its prefix (spec.md §3
// "stack-type consistency" invariant), returning ExpectedStack otherwise.
func (t *Translator) expect(params []wasm.ValueType) error {
	if len(t.stack) < len(params) {
		return errors.NewExpectedStack(stringers(params), t.frames())
	}
	prefix := t.stack[len(t.stack)-len(params):]
	for i, p := range params {
		if prefix[i] != p {
			return errors.NewExpectedStack(stringers(params), t.frames())
		}
	}
	return nil
}

func stringers(ts []wasm.ValueType) []fmt.Stringer {
	out := make([]fmt.Stringer, len(ts))
	for i, t := range ts {
		out[i] = t
	}
	return out
}

// apply checks params against the stack, pops them, and pushes results —
// the standard per-instruction typed(params, results) transition.
func (t *Translator) apply(params, results []wasm.ValueType) error {
	if err := t.expect(params); err != nil {
		return err
	}
	t.stack = t.stack[:len(t.stack)-len(params)]
	t.stack = append(t.stack, results...)
	return nil
}

func (t *Translator) top() (wasm.ValueType, bool) {
	if len(t.stack) == 0 {
		return 0, false
	}
	return t.stack[len(t.stack)-1], true
}

func (t *Translator) popN(n int) {
	t.stack = t.stack[:len(t.stack)-n]
}

func (t *Translator) push(v wasm.ValueType) {
	t.stack = append(t.stack, v)
}

func (t *Translator) snapshot() []wasm.ValueType {
	s := make([]wasm.ValueType, len(t.stack))
	copy(s, t.stack)
	return s
}

var (
	i32 = []wasm.ValueType{wasm.I32}
	i64 = []wasm.ValueType{wasm.I64}
	i32i32 = []wasm.ValueType{wasm.I32, wasm.I32}
)
