// Package statscmd implements the `stats` subcommand: a per-function
// instruction-mix CSV report over a fixture module, the input-side
// analogue of a compiled-output breakdown.
package statscmd

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/spf13/cobra"

	"github.com/miden-vm/wasm2masm/internal/fixtures"
	"github.com/miden-vm/wasm2masm/wasm"
)

func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <fixture>",
		Short: "Print a per-function instruction-mix CSV report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mod, ok := fixtures.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown fixture %q (have: %s)", args[0], strings.Join(fixtures.Names(), ", "))
			}

			w := csv.NewWriter(cmd.OutOrStdout())
			enc := csvutil.NewEncoder(w)
			for i, fn := range mod.Functions {
				r := tally(funcName(mod, i), fn.Body)
				if err := enc.Encode(&r); err != nil {
					return err
				}
			}
			w.Flush()
			return w.Error()
		},
	}
	return cmd
}

func funcName(mod *wasm.Module, idx int) string {
	n := mod.NumFuncImports()
	for _, ex := range mod.Exports {
		if ex.Kind == wasm.ExportFunc && int(ex.Idx) == n+idx && ex.Name != "" {
			return ex.Name
		}
	}
	return fmt.Sprintf("f%d", n+idx)
}
