// Package wasi implements the fixed WASI-like import registry (spec.md
// §4.3 "Imports", §6 "WASI library"). Every import in a translated module
// must resolve against this registry or the translator fails with
// BadImport; every named global referenced by a registered method's
// pseudo-instructions must appear in that method's declared Globals or the
// translator fails with BadNamedGlobalRef.
package wasi

import (
	"github.com/miden-vm/wasm2masm/internal/errors"
	"github.com/miden-vm/wasm2masm/internal/layout"
	"github.com/miden-vm/wasm2masm/masm"
)

// PseudoOp identifies the kind of a WASI pseudo-instruction.
type PseudoOp uint8

const (
	Verbatim PseudoOp = iota
	LoadGlobal
	StoreGlobal
)

// Instr is a WASI pseudo-instruction: either a verbatim MASM instruction or
// a named-global load/store resolved against the layout map at translation
// time.
type Instr struct {
	Op   PseudoOp
	MASM masm.Instr
	Name string
}

// M emits a MASM instruction verbatim.
func M(i masm.Instr) Instr { return Instr{Op: Verbatim, MASM: i} }

// Load resolves name via the layout's WASI global address map and emits
// MemLoad(Some a).
func Load(name string) Instr { return Instr{Op: LoadGlobal, Name: name} }

// Store resolves name the same way and emits MemStore(Some a); Drop, since
// MASM's MemStore does not consume its value.
func Store(name string) Instr { return Instr{Op: StoreGlobal, Name: name} }

// Method is a single WASI-registered import implementation.
type Method struct {
	Locals  uint32
	Globals []string
	Init    []Instr
	Body    []Instr
}

// Key identifies an import by its declared module and field name.
type Key struct {
	Module, Name string
}

// Registry is a fixed table of WASI method implementations keyed by
// (module, name), matching spec.md §6's "fixed registry" contract.
type Registry map[Key]Method

// Resolve looks up an import. The bool result is false when the import is
// not WASI-registered, in which case the caller reports BadImport.
func (r Registry) Resolve(module, name string) (Method, bool) {
	m, ok := r[Key{module, name}]
	return m, ok
}

// GlobalNames returns every distinct named global this method's Init and
// Body pseudo-instructions may reference, used by the layout allocator's
// WASI-global discovery pass (spec.md §4.2 step 2).
func (m Method) GlobalNames() []string {
	return m.Globals
}

// Translate resolves a pseudo-instruction sequence against l, producing a
// real MASM instruction sequence. It returns BadNamedGlobalRef if a
// Load/Store names a global outside globals (the method's declared set) or
// one the layout never assigned an address to.
func Translate(seq []Instr, globals []string, l layout.Layout) ([]masm.Instr, error) {
	declared := make(map[string]bool, len(globals))
	for _, g := range globals {
		declared[g] = true
	}

	out := make([]masm.Instr, 0, len(seq))
	for _, ins := range seq {
		switch ins.Op {
		case Verbatim:
			out = append(out, ins.MASM)

		case LoadGlobal:
			if !declared[ins.Name] {
				return nil, errors.NewBadNamedGlobalRef(ins.Name)
			}
			addr, ok := l.WASIAddr(ins.Name)
			if !ok {
				return nil, errors.NewBadNamedGlobalRef(ins.Name)
			}
			out = append(out, masm.MemLoad(&addr))

		case StoreGlobal:
			if !declared[ins.Name] {
				return nil, errors.NewBadNamedGlobalRef(ins.Name)
			}
			addr, ok := l.WASIAddr(ins.Name)
			if !ok {
				return nil, errors.NewBadNamedGlobalRef(ins.Name)
			}
			out = append(out, masm.MemStore(&addr), masm.Drop())
		}
	}
	return out, nil
}
