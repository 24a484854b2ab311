// Package compile implements the top-level module build (spec.md §4.1,
// §4.6): wiring the planner, layout allocator, WASI registry, and function
// translator into a complete MASM module, plus the program entry block
// that initializes globals, data segments, and WASI state before invoking
// every discovered entry in turn.
package compile

import (
	"fmt"

	"github.com/miden-vm/wasm2masm/internal/errors"
	"github.com/miden-vm/wasm2masm/internal/layout"
	"github.com/miden-vm/wasm2masm/internal/plan"
	"github.com/miden-vm/wasm2masm/internal/translate"
	"github.com/miden-vm/wasm2masm/internal/wasi"
	"github.com/miden-vm/wasm2masm/masm"
	"github.com/miden-vm/wasm2masm/wasm"
)

// programScratchCells mirrors translate's per-function scratch reservation
// for the module's own entry block, which needs the same spill space to
// compute data-segment addresses.
const programScratchCells = 4

// Options reserves a place for future compile-time switches; none exist
// yet.
type Options struct{}

// ToMASM lowers mod into a complete MASM module. Translation errors across
// different functions accumulate rather than aborting at the first one
// (spec.md §5's "accumulating validation" model), so a caller sees every
// function that fails, not just the first.
func ToMASM(mod *wasm.Module, opts Options) (*masm.Module, []error) {
	p, err := plan.Build(mod)
	if err != nil {
		return nil, []error{err}
	}

	registry := wasi.Default
	methods, wasiGlobals, errs := resolveImports(mod, registry, p)
	if len(errs) > 0 {
		return nil, errs
	}

	l := layout.Build(wasiGlobals, mod.Globals)
	emptyBody := emptyBodies(mod)

	var procs []masm.NamedProc
	for _, idx := range p.EmitOrder {
		proc, err := translate.TranslateFunction(mod, l, registry, emptyBody, idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		procs = append(procs, masm.NamedProc{
			Name:       fname(idx),
			ExportName: exportNameOf(mod, idx),
			Proc:       proc,
		})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	program, err := buildProgram(mod, l, registry, methods, p)
	if err != nil {
		return nil, append(errs, err)
	}

	return &masm.Module{
		UseImports:        []string{"std::sys", "std::math::u64"},
		Procedures:         procs,
		ProgramLocalCells: programScratchCells,
		Program:           program,
	}, nil
}

// resolveImports discovers WASI methods and their globals in the order
// internal/wasi.Resolve is first asked to resolve a given import: across
// the emit-ordered function list, scanning each reachable function body
// left to right, deduplicated by first occurrence. An import declared but
// never called from a reachable function is never resolved here — a bad
// call site still fails via translate.translateCall's own resolution.
func resolveImports(mod *wasm.Module, registry wasi.Registry, p *plan.Plan) ([]wasi.Method, []string, []error) {
	var methods []wasi.Method
	var wasiGlobals []string
	var errs []error
	resolved := map[int]bool{}
	seenGlobal := map[string]bool{}

	for _, idx := range p.EmitOrder {
		fn := mod.Functions[mod.DefinedIndex(idx)]
		for _, callee := range scanImportCalls(mod, fn.Body, nil) {
			if resolved[callee] {
				continue
			}
			resolved[callee] = true

			im := mod.Imports[callee]
			m, ok := registry.Resolve(im.Module, im.Name)
			if !ok {
				errs = append(errs, errors.NewBadImport(im.Module, im.Name))
				continue
			}
			methods = append(methods, m)
			for _, g := range m.GlobalNames() {
				if !seenGlobal[g] {
					seenGlobal[g] = true
					wasiGlobals = append(wasiGlobals, g)
				}
			}
		}
	}
	return methods, wasiGlobals, errs
}

// scanImportCalls collects, left to right, the import function indices body
// calls directly or through nested blocks/loops/ifs.
func scanImportCalls(mod *wasm.Module, body []wasm.Instr, out []int) []int {
	for _, ins := range body {
		switch ins.Op {
		case wasm.OpCall:
			idx := int(ins.FuncIdx)
			if mod.IsImport(idx) {
				out = append(out, idx)
			}
		case wasm.OpBlock, wasm.OpLoop:
			out = scanImportCalls(mod, ins.Body, out)
		case wasm.OpIf:
			out = scanImportCalls(mod, ins.Body, out)
			out = scanImportCalls(mod, ins.Else, out)
		}
	}
	return out
}

func emptyBodies(mod *wasm.Module) map[int]bool {
	out := map[int]bool{}
	nImports := mod.NumFuncImports()
	for i, fn := range mod.Functions {
		if len(fn.Body) == 0 {
			out[nImports+i] = true
		}
	}
	return out
}

func fname(idx int) string { return fmt.Sprintf("f%d", idx) }

func exportNameOf(mod *wasm.Module, idx int) string {
	for _, ex := range mod.Exports {
		if ex.Kind == wasm.ExportFunc && int(ex.Idx) == idx {
			return ex.Name
		}
	}
	return ""
}
