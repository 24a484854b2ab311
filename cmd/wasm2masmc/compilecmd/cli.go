// Package compilecmd implements the `compile` subcommand: translate a
// named fixture module to MASM and write its text form.
package compilecmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/miden-vm/wasm2masm/internal/compile"
	"github.com/miden-vm/wasm2masm/internal/fixtures"
	"github.com/miden-vm/wasm2masm/masm/print"
)

func Command() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "compile <fixture>",
		Short: "Translate a fixture module to Miden Assembly",
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

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return print.Module(w, out)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}
