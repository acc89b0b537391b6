package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dpotapov/superhtml/elements"
	"github.com/dpotapov/superhtml/htmlast"
	"github.com/dpotapov/superhtml/htmltok"
	"github.com/dpotapov/superhtml/render"
	"github.com/dpotapov/superhtml/tmplast"
)

var interfaceCmd = &cobra.Command{
	Use:   "interface FILE",
	Short: "Print the extended-template interface as an HTML stub",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		tree := htmlast.Build(src, htmltok.SuperHTML, htmlast.Options{Mode: elements.ModeStandard})
		if tree.Errors() {
			return fmt.Errorf("interface: %s has syntax errors", args[0])
		}
		ta := tmplast.Build(tree)
		if ta.Errors() {
			return fmt.Errorf("interface: %s has template errors", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.Interface(ta))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(interfaceCmd)
}
