// Package layout implements the memory layout allocator (spec.md §4.2):
// assignment of MASM word addresses to the branch counter, WASI-exposed
// named globals, Wasm globals, and the start of linear memory. The map it
// produces is built once and never mutated (spec.md §5), mirroring the
// teacher's pattern of a static, precomputed address table consulted by
// every downstream function translator (internal/datalayout in the
// teacher, generalized here from a byte-addressed native layout to the
// word-addressed MASM layout).
package layout

import "github.com/miden-vm/wasm2masm/wasm"

// BranchCounterAddr is the fixed address of the branch counter word
// (spec.md §4.4): address 0, shared by every procedure without handshake
// because MASM execution is single-threaded within a Miden run.
const BranchCounterAddr uint32 = 0

// Global records a Wasm global's assigned address and cell width.
type Global struct {
	Addr  uint32
	Cells int
}

// Layout is the immutable address map consulted throughout translation.
type Layout struct {
	wasiAddr    map[string]uint32
	wasiOrder   []string
	globals     []Global
	memBeginning uint32
}

// Build assigns addresses in the order spec.md §4.2 describes: the branch
// counter at 0, then one word per WASI global name (in discovery order),
// then one or two words per Wasm global (in module index order), then
// linear memory begins at the next unused word.
func Build(wasiGlobals []string, globals []wasm.Global) Layout {
	l := Layout{
		wasiAddr: make(map[string]uint32, len(wasiGlobals)),
	}

	next := BranchCounterAddr + 1

	for _, name := range wasiGlobals {
		if _, dup := l.wasiAddr[name]; dup {
			continue
		}
		l.wasiAddr[name] = next
		l.wasiOrder = append(l.wasiOrder, name)
		next++
	}

	l.globals = make([]Global, len(globals))
	for i, g := range globals {
		cells := g.Type.Value.Cells()
		l.globals[i] = Global{Addr: next, Cells: cells}
		next += uint32(cells)
	}

	l.memBeginning = next
	return l
}

// WASIAddr resolves a WASI-exposed named global to its assigned address.
// ok is false if the name was never registered during discovery.
func (l Layout) WASIAddr(name string) (uint32, bool) {
	a, ok := l.wasiAddr[name]
	return a, ok
}

// WASINames returns the WASI global names in discovery (allocation) order.
func (l Layout) WASINames() []string { return l.wasiOrder }

// Global resolves a Wasm global index to its assigned address and width.
func (l Layout) Global(idx uint32) Global { return l.globals[idx] }

// MemBeginning is the first MASM word address of linear memory.
func (l Layout) MemBeginning() uint32 { return l.memBeginning }
