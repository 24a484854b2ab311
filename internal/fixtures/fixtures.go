// Package fixtures holds hand-built wasm.Module literals used as this
// repository's test corpus. Binary .wasm decoding is an external
// collaborator (SPEC_FULL.md §1.NEW), so both the test suite and
// cmd/wasm2masmc's demo mode consume modules constructed directly with the
// wasm package's own constructors, the same way a decoder would hand them
// to the translator.
package fixtures

import "github.com/miden-vm/wasm2masm/wasm"

// Names lists every fixture in a fixed, stable order.
func Names() []string { return []string{"add", "fib", "hello"} }

// Get resolves a fixture by name.
func Get(name string) (*wasm.Module, bool) {
	switch name {
	case "add":
		return Add(), true
	case "fib":
		return Fib(), true
	case "hello":
		return Hello(), true
	default:
		return nil, false
	}
}

// Add is the smallest possible module: one exported function that adds two
// constants, no imports, no memory, no control flow.
func Add() *wasm.Module {
	return &wasm.Module{
		Types: []wasm.FuncType{
			{Results: []wasm.ValueType{wasm.I32}},
		},
		Functions: []wasm.Function{
			{
				TypeIdx: 0,
				Body: []wasm.Instr{
					wasm.I32Const(2),
					wasm.I32Const(3),
					wasm.IBinOp(32, wasm.Add),
				},
			},
		},
		Exports: []wasm.Export{
			{Name: "", Kind: wasm.ExportFunc, Idx: 0},
		},
	}
}

// Fib computes the 10th Fibonacci number iteratively with a block-wrapped
// loop, exercising Br/BrIf, locals, and the branch-counter lowering
// (SPEC_FULL.md §4's control-flow module) the way a compiled `for`/`while`
// loop would. The entry itself is niladic, matching spec.md's convention
// that program entries take no arguments; n is a local constant rather
// than a parameter so the module can run directly from the program block.
func Fib() *wasm.Module {
	// locals: 0=n, 1=a, 2=b, 3=i, 4=tmp
	body := []wasm.Instr{
		wasm.I32Const(10), wasm.SetLocal(0), // n = 10
		wasm.I32Const(0), wasm.SetLocal(1), // a = 0
		wasm.I32Const(1), wasm.SetLocal(2), // b = 1
		wasm.I32Const(0), wasm.SetLocal(3), // i = 0
		wasm.Block(wasm.Void, []wasm.Instr{
			wasm.Loop(wasm.Void, []wasm.Instr{
				wasm.GetLocal(3), wasm.GetLocal(0), wasm.IRelOp(32, wasm.GeU),
				wasm.BrIf(1), // exit the block once i >= n

				wasm.GetLocal(1), wasm.GetLocal(2), wasm.IBinOp(32, wasm.Add),
				wasm.SetLocal(4), // tmp = a + b
				wasm.GetLocal(2), wasm.SetLocal(1), // a = b
				wasm.GetLocal(4), wasm.SetLocal(2), // b = tmp
				wasm.GetLocal(3), wasm.I32Const(1), wasm.IBinOp(32, wasm.Add), wasm.SetLocal(3), // i++

				wasm.Br(0), // restart the loop
			}),
		}),
		wasm.GetLocal(1), // result = a
	}

	return &wasm.Module{
		Types: []wasm.FuncType{
			{Results: []wasm.ValueType{wasm.I32}},
		},
		Functions: []wasm.Function{
			{
				TypeIdx: 0,
				Locals:  []wasm.ValueType{wasm.I32, wasm.I32, wasm.I32, wasm.I32, wasm.I32},
				Body:    body,
			},
		},
		Exports: []wasm.Export{
			{Name: "main", Kind: wasm.ExportFunc, Idx: 0},
		},
	}
}

// Hello calls the WASI fd_write import against a data segment, exercising
// import resolution, the data-segment initializer, and linear memory.
func Hello() *wasm.Module {
	return &wasm.Module{
		Types: []wasm.FuncType{
			{
				Params:  []wasm.ValueType{wasm.I32, wasm.I32, wasm.I32, wasm.I32},
				Results: []wasm.ValueType{wasm.I32},
			},
			{},
		},
		Imports: []wasm.Import{
			{Module: "wasi_snapshot_preview1", Name: "fd_write", Desc: wasm.ImportFunc{TypeIdx: 0}},
		},
		Functions: []wasm.Function{
			{
				TypeIdx: 1,
				Body: []wasm.Instr{
					wasm.I32Const(1), // fd = stdout
					wasm.I32Const(0), // iovs
					wasm.I32Const(1), // iovs_len
					wasm.I32Const(0), // nwritten
					wasm.Call(0),
					wasm.Drop(),
				},
			},
		},
		Datas: []wasm.DataSegment{
			{MemIdx: 0, Offset: []wasm.Instr{wasm.I32Const(0)}, Bytes: []byte("hi\n")},
		},
		Exports: []wasm.Export{
			{Name: "_start", Kind: wasm.ExportFunc, Idx: 1},
		},
	}
}
