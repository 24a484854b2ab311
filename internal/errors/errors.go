// Package errors defines the translator's closed validation error taxonomy
// (spec.md §7). Every error type is distinguishable with errors.As and
// carries a ModuleError marker so callers can tell "this Wasm module is
// unsupported" apart from an internal compiler bug.
package errors

import (
	"fmt"
	"strings"

	"golang.org/x/xerrors"
)

// ModuleError is implemented by every error in this package.
type ModuleError interface {
	error
	ModuleError() bool
}

// Frame is one entry of a controlCtx breadcrumb trail, attached to
// stack-discipline and instruction-support errors per the §7 policy.
type Frame struct {
	Kind  string // "function", "block", "loop", "if", "globals-init", "data-init", "import"
	Label string
}

func (f Frame) String() string {
	if f.Label == "" {
		return f.Kind
	}
	return f.Kind + " " + f.Label
}

func trail(frames []Frame) string {
	if len(frames) == 0 {
		return ""
	}
	parts := make([]string, len(frames))
	for i, f := range frames {
		parts[i] = f.String()
	}
	return " (in " + strings.Join(parts, " > ") + ")"
}

type base struct {
	text string
}

func (e *base) Error() string     { return e.text }
func (e *base) ModuleError() bool { return true }

// NoEntry: neither a start function nor an export named main/_start/""
// resolves to a function export. Fatal — the module has no entry point.
type NoEntry struct{ base }

func NewNoEntry() error {
	return &NoEntry{base{"no start or main function"}}
}

// BadImport: an import is not resolvable against the WASI registry.
type BadImport struct {
	base
	Module, Name string
}

func NewBadImport(module, name string) error {
	return &BadImport{base{fmt.Sprintf("unresolvable import %s.%s", module, name)}, module, name}
}

// BadNamedGlobalRef: a WASI method's Load/Store pseudo-instruction names a
// global that is not in the method's declared Globals list.
type BadNamedGlobalRef struct {
	base
	Name string
}

func NewBadNamedGlobalRef(name string) error {
	return &BadNamedGlobalRef{base{fmt.Sprintf("reference to unknown named global %q", name)}, name}
}

// BadNoMultipleMem: a data segment targets a memory index other than 0.
type BadNoMultipleMem struct {
	base
	MemIdx uint32
}

func NewBadNoMultipleMem(memIdx uint32) error {
	return &BadNoMultipleMem{base{fmt.Sprintf("data segment targets unsupported memory %d", memIdx)}, memIdx}
}

// UnsupportedArgType: a function signature mentions a float type.
type UnsupportedArgType struct {
	base
	Type fmt.Stringer
}

func NewUnsupportedArgType(t fmt.Stringer) error {
	return &UnsupportedArgType{base{fmt.Sprintf("unsupported value type %s", t)}, t}
}

// UnsupportedInstruction: an opcode outside the accepted subset.
type UnsupportedInstruction struct {
	base
	Instr fmt.Stringer
}

func NewUnsupportedInstruction(instr fmt.Stringer, frames []Frame) error {
	return &UnsupportedInstruction{base{fmt.Sprintf("unsupported instruction %s%s", instr, trail(frames))}, instr}
}

// Unsupported64Bits: a 64-bit operator variant with no MASM counterpart.
type Unsupported64Bits struct {
	base
	Op fmt.Stringer
}

func NewUnsupported64Bits(op fmt.Stringer) error {
	return &Unsupported64Bits{base{fmt.Sprintf("unsupported 64-bit operator %s", op)}, op}
}

// ExpectedStack: the simulated operand stack's prefix did not match an
// instruction's declared parameter types.
type ExpectedStack struct {
	base
	Expected []fmt.Stringer
}

func NewExpectedStack(expected []fmt.Stringer, frames []Frame) error {
	parts := make([]string, len(expected))
	for i, t := range expected {
		parts[i] = t.String()
	}
	return &ExpectedStack{base{fmt.Sprintf("expected stack prefix [%s]%s", strings.Join(parts, " "), trail(frames))}, expected}
}

// EmptyStack: a polymorphic Drop (or Select) with nothing on the stack.
type EmptyStack struct{ base }

func NewEmptyStack(frames []Frame) error {
	return &EmptyStack{base{fmt.Sprintf("drop from empty stack%s", trail(frames))}}
}

// BlockResultTooLarge: a branch target's result width is at least the
// accessible-stack-depth constant.
type BlockResultTooLarge struct {
	base
	Width int
}

func NewBlockResultTooLarge(width int) error {
	return &BlockResultTooLarge{base{fmt.Sprintf("block result width %d too large for accessible stack depth", width)}, width}
}

// BadMisalignedI64: an I64 memory access with offset%4 != 0.
type BadMisalignedI64 struct {
	base
	Offset uint32
}

func NewBadMisalignedI64(offset uint32) error {
	return &BadMisalignedI64{base{fmt.Sprintf("misaligned i64 access at offset %d", offset)}, offset}
}

// Wrap attaches a breadcrumb-free cause chain, preserving %+v frames, so
// that internal (non-ModuleError) failures are still inspectable with
// errors.As while module-level errors above stay the caller-facing type.
func Wrap(cause error, msg string) error {
	return xerrors.Errorf("%s: %w", msg, cause)
}
