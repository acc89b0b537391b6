// Command superhtml is the CLI driver wiring the core packages together
// (spec.md §6): `check`, `fmt`, `interface`, `lsp`, `version`. Grounded on
// clems4ever-arbor-encoder/cmd's Cobra root-command style (one file per
// subcommand, each registering itself in init() via rootCmd.AddCommand).
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "superhtml",
	Short: "A template and HTML language toolchain",
	Long:  "superhtml parses, validates, formats and renders SuperHTML/HTML/XML documents.",
}

var noColor bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable ANSI-colored diagnostic output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
