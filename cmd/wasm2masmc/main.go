// Command wasm2masmc is the translator's CLI front end. It has no decoder
// of its own: every subcommand resolves its input module by name against
// the fixtures package, the same hand-built wasm.Module literals the test
// suite runs against (binary .wasm decoding is an external collaborator).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/miden-vm/wasm2masm/cmd/wasm2masmc/compilecmd"
	"github.com/miden-vm/wasm2masm/cmd/wasm2masmc/runcmd"
	"github.com/miden-vm/wasm2masm/cmd/wasm2masmc/statscmd"
)

func main() {
	if err := configureCLI().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func configureCLI() *cobra.Command {
	root := &cobra.Command{
		Use:           "wasm2masmc",
		Short:         "Translate WebAssembly modules to Miden Assembly",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(compilecmd.Command())
	root.AddCommand(statscmd.Command())
	root.AddCommand(runcmd.Command())
	return root
}
