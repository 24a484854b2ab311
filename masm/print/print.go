// Package print renders a masm.Module back out as indented text. It does
// not implement the full MASM grammar that a real assembler would parse
// (that pretty-printer is an external collaborator) — only enough of it to
// make a translated module readable in diagnostics and golden-file tests,
// one mnemonic per instruction via masm.Op.String().
package print

import (
	"fmt"
	"io"
	"strings"

	"github.com/miden-vm/wasm2masm/masm"
)

// Module writes mod's full text form: the import preamble, every procedure
// in emit order, then the program entry block.
func Module(w io.Writer, mod *masm.Module) error {
	for _, use := range mod.UseImports {
		if _, err := fmt.Fprintf(w, "use.%s\n", use); err != nil {
			return err
		}
	}

	for _, p := range mod.Procedures {
		if err := proc(w, p); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "begin\n"); err != nil {
		return err
	}
	if err := block(w, mod.Program, 1); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "end\n")
	return err
}

func proc(w io.Writer, p masm.NamedProc) error {
	header := fmt.Sprintf("proc.%s.%d", p.Name, p.Proc.NLocalCells)
	if p.ExportName != "" {
		header += fmt.Sprintf(" # export %s", p.ExportName)
	}
	if _, err := fmt.Fprintf(w, "%s\n", header); err != nil {
		return err
	}
	if err := block(w, p.Proc.Body, 1); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "end\n")
	return err
}

// block renders a flat instruction sequence at the given indent depth,
// recursing into If/While bodies.
func block(w io.Writer, instrs []masm.Instr, depth int) error {
	ind := strings.Repeat("    ", depth)
	for _, ins := range instrs {
		switch ins.Op {
		case masm.OpIf:
			if _, err := fmt.Fprintf(w, "%sif.true\n", ind); err != nil {
				return err
			}
			if err := block(w, ins.Then, depth+1); err != nil {
				return err
			}
			if len(ins.Else) > 0 {
				if _, err := fmt.Fprintf(w, "%selse\n", ind); err != nil {
					return err
				}
				if err := block(w, ins.Else, depth+1); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "%send\n", ind); err != nil {
				return err
			}

		case masm.OpWhile:
			if _, err := fmt.Fprintf(w, "%swhile.true\n", ind); err != nil {
				return err
			}
			if err := block(w, ins.Body, depth+1); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "%send\n", ind); err != nil {
				return err
			}

		default:
			if _, err := fmt.Fprintf(w, "%s%s\n", ind, operand(ins)); err != nil {
				return err
			}
		}
	}
	return nil
}

// operand renders a single non-block instruction's mnemonic together with
// whatever immediate operand it carries.
func operand(ins masm.Instr) string {
	switch ins.Op {
	case masm.OpPush:
		return fmt.Sprintf("push.%d", ins.Word)
	case masm.OpDup:
		return fmt.Sprintf("dup.%d", ins.K)
	case masm.OpSwap:
		return fmt.Sprintf("swap.%d", ins.K)
	case masm.OpMoveUp:
		return fmt.Sprintf("movup.%d", ins.K)
	case masm.OpMemLoad:
		if ins.HasAddr {
			return fmt.Sprintf("mem_load.%d", ins.Addr)
		}
		return "mem_load"
	case masm.OpMemStore:
		if ins.HasAddr {
			return fmt.Sprintf("mem_store.%d", ins.Addr)
		}
		return "mem_store"
	case masm.OpLocLoad:
		return fmt.Sprintf("loc_load.%d", ins.K)
	case masm.OpLocStore:
		return fmt.Sprintf("loc_store.%d", ins.K)
	case masm.OpExec:
		return fmt.Sprintf("exec.%s", ins.Name)
	case masm.OpIEq:
		if ins.HasC {
			return fmt.Sprintf("eq.%d", ins.C)
		}
		return "eq"
	case masm.OpIDivMod:
		if ins.HasD {
			return fmt.Sprintf("divmod.%d", ins.D)
		}
		return "divmod"
	default:
		return ins.Op.String()
	}
}
