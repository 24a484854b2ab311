// Package runcmd implements the `run` subcommand: compile a fixture to
// MASM and execute it directly against the reference interpreter, rather
// than shelling out to an external assembler/VM.
package runcmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/miden-vm/wasm2masm/internal/compile"
	"github.com/miden-vm/wasm2masm/internal/fixtures"
	"github.com/miden-vm/wasm2masm/masm/interp"
)

func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <fixture>",
		Short: "Compile a fixture and execute it against the reference interpreter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mod, ok := fixtures.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown fixture %q (have: %s)", args[0], strings.Join(fixtures.Names(), ", "))
			}

			out, errs := compile.ToMASM(mod, compile.Options{})
			if len(errs) > 0 {
				for _, err := range errs {
					fmt.Fprintln(os.Stderr, err)
				}
				return fmt.Errorf("compile: %d error(s)", len(errs))
			}

			stack, err := interp.Run(out)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "stack:")
			for _, v := range stack {
				fmt.Fprintf(w, " %d", v)
			}
			fmt.Fprintln(w)
			return nil
		},
	}
	return cmd
}
