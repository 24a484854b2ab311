// Package plan implements the module planner (spec.md §4.1): entry
// discovery, the static call graph, and the callee-before-caller emission
// order. The order is the reverse of the depth-first first-visit
// (pre-)order from the entries; there is no teacher analog to generalize
// from; the teacher's own function layout is plain sequential index
// iteration.
package plan

import (
	"github.com/miden-vm/wasm2masm/internal/errors"
	"github.com/miden-vm/wasm2masm/wasm"
	"github.com/willf/bitset"
)

// Plan is the planner's output: the callee-before-caller order in which
// defined functions should be translated and emitted, and the deduplicated
// set of entry function indices.
type Plan struct {
	EmitOrder []int
	Entries   []int
}

// Build runs the planner over mod.
func Build(mod *wasm.Module) (*Plan, error) {
	entries := discoverEntries(mod)
	if len(entries) == 0 {
		return nil, errors.NewNoEntry()
	}

	graph := buildCallGraph(mod)

	var order []int
	seen := bitset.New(uint(len(mod.Functions) + mod.NumFuncImports()))

	for _, e := range entries {
		order = append(order, dfsPreorder(e, graph, seen)...)
	}

	order = dedupKeepFirst(order)
	reverse(order)

	// Only defined functions are ever translated into procedures; imports
	// are resolved inline against the WASI registry at each call site.
	nImports := mod.NumFuncImports()
	defined := order[:0]
	for _, idx := range order {
		if idx >= nImports {
			defined = append(defined, idx)
		}
	}

	return &Plan{EmitOrder: defined, Entries: entries}, nil
}

func discoverEntries(mod *wasm.Module) []int {
	var entries []int

	if mod.Start != nil {
		entries = append(entries, int(*mod.Start))
	}

	for _, name := range []string{"main", "_start", ""} {
		if idx, ok := findFuncExport(mod, name); ok {
			entries = append(entries, idx)
			break
		}
	}

	return dedupKeepFirst(entries)
}

func findFuncExport(mod *wasm.Module, name string) (int, bool) {
	for _, ex := range mod.Exports {
		if ex.Kind == wasm.ExportFunc && ex.Name == name {
			return int(ex.Idx), true
		}
	}
	return 0, false
}

// callGraph is a multi-map from caller global index to callee global
// indices; self-loops and duplicate edges are permitted (spec.md §4.1).
type callGraph map[int][]int

func buildCallGraph(mod *wasm.Module) callGraph {
	g := callGraph{}
	nImports := mod.NumFuncImports()

	for i := range mod.Functions {
		caller := nImports + i
		g[caller] = scanCalls(mod.Functions[i].Body, nil)
	}

	return g
}

func scanCalls(body []wasm.Instr, out []int) []int {
	for _, ins := range body {
		switch ins.Op {
		case wasm.OpCall:
			out = append(out, int(ins.FuncIdx))
		case wasm.OpBlock, wasm.OpLoop:
			out = scanCalls(ins.Body, out)
		case wasm.OpIf:
			out = scanCalls(ins.Body, out)
			out = scanCalls(ins.Else, out)
		}
	}
	return out
}

// dfsPreorder collects the indices a standard depth-first traversal from
// root first visits, in visitation order, marking seen in the shared
// bitset so later entries don't re-walk already-discovered subtrees.
func dfsPreorder(root int, g callGraph, seen *bitset.BitSet) []int {
	if seen.Test(uint(root)) {
		return nil
	}
	seen.Set(uint(root))

	order := []int{root}
	for _, callee := range g[root] {
		order = append(order, dfsPreorder(callee, g, seen)...)
	}
	return order
}

func dedupKeepFirst(xs []int) []int {
	seen := make(map[int]bool, len(xs))
	out := xs[:0]
	for _, x := range xs {
		if seen[x] {
			continue
		}
		seen[x] = true
		out = append(out, x)
	}
	return out
}

func reverse(xs []int) {
	for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
		xs[i], xs[j] = xs[j], xs[i]
	}
}
