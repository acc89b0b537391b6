package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dpotapov/superhtml/diag"
	"github.com/dpotapov/superhtml/elements"
	"github.com/dpotapov/superhtml/htmltok"
	"github.com/dpotapov/superhtml/tmplast"
)

var checkMode string

var checkCmd = &cobra.Command{
	Use:   "check PATH...",
	Short: "Parse files recursively and print diagnostics",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := parseMode(checkMode)
		if err != nil {
			return err
		}

		hasError := false
		err = walkFiles(args, mode, func(pf parsedFile) error {
			diags := append([]diag.Diagnostic{}, pf.tree.Diagnostics...)
			if pf.lang == htmltok.SuperHTML {
				diags = append(diags, tmplast.Build(pf.tree).Diagnostics...)
			}

			p := diag.NewPresenter(pf.path, pf.src, !noColor)
			for _, d := range diags {
				fmt.Fprint(cmd.OutOrStdout(), p.Format(d))
				if d.Severity() == diag.SeverityError {
					hasError = true
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		if hasError {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkMode, "mode", "standard", "element validation mode: off|standard|web-components")
}

func parseMode(s string) (elements.ValidationMode, error) {
	switch s {
	case "off":
		return elements.ModeOff, nil
	case "standard":
		return elements.ModeStandard, nil
	case "web-components":
		return elements.ModeWebComponents, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}
