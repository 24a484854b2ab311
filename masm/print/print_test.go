package print

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miden-vm/wasm2masm/masm"
)

func TestModuleRendersImportsProceduresAndProgram(t *testing.T) {
	mod := &masm.Module{
		UseImports: []string{"std::sys"},
		Procedures: []masm.NamedProc{
			{
				Name:       "f0",
				ExportName: "add",
				Proc: masm.Proc{
					NLocalCells: 2,
					Body:        []masm.Instr{masm.Push(2), masm.Push(3), masm.IAdd()},
				},
			},
		},
		Program: []masm.Instr{masm.Exec("f0")},
	}

	var buf bytes.Buffer
	require.NoError(t, Module(&buf, mod))

	out := buf.String()
	assert.Contains(t, out, "use.std::sys\n")
	assert.Contains(t, out, "proc.f0.2 # export add\n")
	assert.Contains(t, out, "push.2\n")
	assert.Contains(t, out, "add\n")
	assert.Contains(t, out, "begin\n")
	assert.Contains(t, out, "    exec.f0\n")
	assert.Contains(t, out, "end\n")
}

func TestBlockRecursesIntoIfAndWhile(t *testing.T) {
	instrs := []masm.Instr{
		masm.Push(1),
		masm.If([]masm.Instr{masm.Push(2)}, []masm.Instr{masm.Push(3)}),
		masm.While([]masm.Instr{masm.Push(4), masm.Drop()}),
	}

	var buf bytes.Buffer
	require.NoError(t, block(&buf, instrs, 0))

	out := buf.String()
	assert.Contains(t, out, "if.true\n")
	assert.Contains(t, out, "else\n")
	assert.Contains(t, out, "while.true\n")
}

func TestOperandRendersImmediates(t *testing.T) {
	assert.Equal(t, "push.7", operand(masm.Push(7)))
	assert.Equal(t, "swap.1", operand(masm.Swap(1)))
	assert.Equal(t, "movup.3", operand(masm.MoveUp(3)))
	assert.Equal(t, "mem_load", operand(masm.MemLoad(nil)))
	addr := uint32(8)
	assert.Equal(t, "mem_load.8", operand(masm.MemLoad(&addr)))
	assert.Equal(t, "loc_store.0", operand(masm.LocStore(0)))
	assert.Equal(t, "exec.f1", operand(masm.Exec("f1")))
	c := uint32(5)
	assert.Equal(t, "eq.5", operand(masm.IEq(&c)))
	assert.Equal(t, "eq", operand(masm.IEq(nil)))
}
