package wasi

import "github.com/miden-vm/wasm2masm/masm"

// Default is the fixed registry seeded for clang/rustc wasm32-wasi output
// that only needs to terminate, write to stdout, and read a minimal,
// non-real environment (SPEC_FULL.md §4.3). It does not implement real
// I/O — fd_write's iovec contents are never read, args are always empty —
// because no real OS surface exists inside a Miden program; it implements
// the calling convention (argument cell count, result cell count) faithfully
// so that a module built against this surface type-checks and runs to
// completion.
var Default = Registry{
	{"wasi_snapshot_preview1", "proc_exit"}: Method{
		// (code: i32) -> ()
		Body: []Instr{M(masm.Drop())},
	},

	{"wasi_snapshot_preview1", "fd_write"}: Method{
		// (fd: i32, iovs: i32, iovs_len: i32, nwritten: i32) -> errno: i32
		Body: []Instr{
			M(masm.Drop()), // nwritten
			M(masm.Drop()), // iovs_len
			M(masm.Drop()), // iovs
			M(masm.Drop()), // fd
			M(masm.Push(0)),
		},
	},

	{"wasi_snapshot_preview1", "args_sizes_get"}: Method{
		// (argc_ptr: i32, argv_buf_size_ptr: i32) -> errno: i32
		Body: []Instr{
			M(masm.Drop()),
			M(masm.Drop()),
			M(masm.Push(0)),
		},
	},

	{"wasi_snapshot_preview1", "args_get"}: Method{
		// (argv_ptr: i32, argv_buf_ptr: i32) -> errno: i32
		Body: []Instr{
			M(masm.Drop()),
			M(masm.Drop()),
			M(masm.Push(0)),
		},
	},

	{"wasi_snapshot_preview1", "clock_time_get"}: Method{
		// (clock_id: i32, precision: i64, time_ptr: i32) -> errno: i32
		Globals: []string{"clock_ticks"},
		Init: []Instr{
			M(masm.Push(0)),
			Store("clock_ticks"),
		},
		Body: []Instr{
			Load("clock_ticks"),
			M(masm.Push(1)),
			M(masm.IAdd()),
			Store("clock_ticks"),
			M(masm.Drop()), // time_ptr
			M(masm.Drop()), // precision hi
			M(masm.Drop()), // precision lo
			M(masm.Drop()), // clock_id
			M(masm.Push(0)),
		},
	},

	{"wasi_snapshot_preview1", "random_get"}: Method{
		// (buf_ptr: i32, buf_len: i32) -> errno: i32
		Globals: []string{"random_state"},
		Init: []Instr{
			M(masm.Push(0x2545f491)),
			Store("random_state"),
		},
		Body: []Instr{
			Load("random_state"),
			M(masm.Push(1)),
			M(masm.IAdd()),
			Store("random_state"),
			M(masm.Drop()), // buf_len
			M(masm.Drop()), // buf_ptr
			M(masm.Push(0)),
		},
	},
}
