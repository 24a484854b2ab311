package compile

import (
	"github.com/miden-vm/wasm2masm/internal/errors"
	"github.com/miden-vm/wasm2masm/internal/layout"
	"github.com/miden-vm/wasm2masm/internal/plan"
	"github.com/miden-vm/wasm2masm/internal/translate"
	"github.com/miden-vm/wasm2masm/internal/wasi"
	"github.com/miden-vm/wasm2masm/masm"
	"github.com/miden-vm/wasm2masm/wasm"
)

// buildProgram emits the module's entry block (spec.md §4.1, §4.6), in
// order: zero the branch counter, run every Wasm global's initializer,
// write every data segment's bytes into linear memory, run every
// referenced WASI method's Init sequence, then Exec each discovered
// entry.
func buildProgram(mod *wasm.Module, l layout.Layout, registry wasi.Registry, methods []wasi.Method, p *plan.Plan) ([]masm.Instr, error) {
	bc := layout.BranchCounterAddr
	out := []masm.Instr{masm.Push(0), masm.MemStore(&bc), masm.Drop()}

	for i, g := range mod.Globals {
		code, err := translate.EvalInitExpr(mod, l, registry, g.Init)
		if err != nil {
			return nil, err
		}
		out = append(out, code...)
		out = append(out, storeWords(addrsOf(l.Global(uint32(i))))...)
	}

	for _, seg := range mod.Datas {
		code, err := dataSegmentInit(mod, l, registry, seg)
		if err != nil {
			return nil, err
		}
		out = append(out, code...)
	}

	for _, m := range methods {
		if len(m.Init) == 0 {
			continue
		}
		code, err := wasi.Translate(m.Init, m.GlobalNames(), l)
		if err != nil {
			return nil, err
		}
		out = append(out, code...)
	}

	for _, entry := range p.Entries {
		out = append(out, masm.Exec(fname(entry)))
	}

	return out, nil
}

func addrsOf(g layout.Global) []uint32 {
	addrs := make([]uint32, g.Cells)
	for i := range addrs {
		addrs[i] = g.Addr + uint32(i)
	}
	return addrs
}

// storeWords pops cells high-to-low into consecutive addresses, matching
// the hi-on-top convention every I64 value carries.
func storeWords(addrs []uint32) []masm.Instr {
	var out []masm.Instr
	for i := len(addrs) - 1; i >= 0; i-- {
		a := addrs[i]
		out = append(out, masm.MemStore(&a), masm.Drop())
	}
	return out
}

const dataBaseScratch = uint32(0)

// dataSegmentInit writes seg.Bytes into linear memory starting at its
// (possibly dynamic) offset, packing 4 bytes per MASM word little-endian
// and zero-padding the final partial word.
func dataSegmentInit(mod *wasm.Module, l layout.Layout, registry wasi.Registry, seg wasm.DataSegment) ([]masm.Instr, error) {
	if seg.MemIdx != 0 {
		return nil, errors.NewBadNoMultipleMem(seg.MemIdx)
	}

	addrCode, err := translate.EvalInitExpr(mod, l, registry, seg.Offset)
	if err != nil {
		return nil, err
	}

	out := append(addrCode, masm.LocStore(dataBaseScratch), masm.Drop())

	memBeg := l.MemBeginning()
	for off := 0; off < len(seg.Bytes); off += 4 {
		word := packWordLE(seg.Bytes[off:])
		out = append(out,
			masm.Push(word),
			masm.LocLoad(dataBaseScratch), masm.Push(uint32(off)), masm.IAdd(),
			masm.Push(4), masm.IDiv(), masm.Push(memBeg), masm.IAdd(),
			masm.MemStore(nil), masm.Drop(),
		)
	}
	return out, nil
}

func packWordLE(b []byte) uint32 {
	var w uint32
	for i := 0; i < 4 && i < len(b); i++ {
		w |= uint32(b[i]) << uint(8*i)
	}
	return w
}
