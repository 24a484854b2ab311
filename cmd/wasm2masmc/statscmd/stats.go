package statscmd

import "github.com/miden-vm/wasm2masm/wasm"

// row tallies one function's instruction mix by category, the same
// per-function breakdown a dump/stats report gives a compiled module.
type row struct {
	Func        string `csv:"func"`
	Arith       int    `csv:"arith"`
	Compare     int    `csv:"compare"`
	Load        int    `csv:"load"`
	Store       int    `csv:"store"`
	ControlFlow int    `csv:"control_flow"`
	LocalGlobal int    `csv:"local_global"`
	Other       int    `csv:"other"`
	Total       int    `csv:"total"`
}

func tally(name string, body []wasm.Instr) row {
	r := row{Func: name}
	var walk func([]wasm.Instr)
	walk = func(instrs []wasm.Instr) {
		for _, ins := range instrs {
			r.Total++
			switch ins.Op {
			case wasm.OpI32Const, wasm.OpI64Const, wasm.OpIBinOp,
				wasm.OpI32WrapI64, wasm.OpI64ExtendUI32, wasm.OpI64ExtendSI32:
				r.Arith++

			case wasm.OpIRelOp, wasm.OpI32Eqz, wasm.OpI64Eqz:
				r.Compare++

			case wasm.OpI32Load, wasm.OpI32Load8U, wasm.OpI32Load8S,
				wasm.OpI32Load16U, wasm.OpI32Load16S,
				wasm.OpI64Load, wasm.OpI64Load8U, wasm.OpI64Load8S,
				wasm.OpI64Load16U, wasm.OpI64Load16S, wasm.OpI64Load32U, wasm.OpI64Load32S:
				r.Load++

			case wasm.OpI32Store, wasm.OpI32Store8, wasm.OpI32Store16,
				wasm.OpI64Store, wasm.OpI64Store8, wasm.OpI64Store16, wasm.OpI64Store32:
				r.Store++

			case wasm.OpBlock, wasm.OpLoop, wasm.OpIf, wasm.OpBr, wasm.OpBrIf,
				wasm.OpBrTable, wasm.OpReturn, wasm.OpCall, wasm.OpUnreachable:
				r.ControlFlow++
				if ins.Op == wasm.OpIf {
					walk(ins.Body)
					walk(ins.Else)
				} else if ins.Op == wasm.OpBlock || ins.Op == wasm.OpLoop {
					walk(ins.Body)
				}

			case wasm.OpGetLocal, wasm.OpSetLocal, wasm.OpTeeLocal,
				wasm.OpGetGlobal, wasm.OpSetGlobal:
				r.LocalGlobal++

			default:
				r.Other++
			}
		}
	}
	walk(body)
	return r
}
