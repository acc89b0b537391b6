package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dpotapov/superhtml/elements"
	"github.com/dpotapov/superhtml/htmlast"
	"github.com/dpotapov/superhtml/htmltok"
	"github.com/dpotapov/superhtml/render"
)

var (
	fmtStdin       bool
	fmtStdinSuper  bool
	fmtCheckOnly   bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt PATH...",
	Short: "Format files in place, or check formatting",
	RunE: func(cmd *cobra.Command, args []string) error {
		if fmtStdin || fmtStdinSuper {
			lang := htmltok.HTML
			if fmtStdinSuper {
				lang = htmltok.SuperHTML
			}
			src, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			out, err := formatSrc(src, lang)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		}

		if len(args) == 0 {
			return fmt.Errorf("fmt: no paths given (use --stdin for standard input)")
		}

		nonConforming := false
		err := walkFiles(args, elements.ModeStandard, func(pf parsedFile) error {
			out, err := formatSrc(pf.src, pf.lang)
			if err != nil {
				return fmt.Errorf("%s: %w", pf.path, err)
			}
			if out == string(pf.src) {
				return nil
			}
			if fmtCheckOnly {
				nonConforming = true
				fmt.Fprintln(cmd.OutOrStdout(), pf.path)
				return nil
			}
			return os.WriteFile(pf.path, []byte(out), 0o644)
		})
		if err != nil {
			return err
		}
		if fmtCheckOnly && nonConforming {
			os.Exit(1)
		}
		return nil
	},
}

func formatSrc(src []byte, lang htmltok.Language) (string, error) {
	tree := htmlast.Build(src, lang, htmlast.Options{Mode: elements.ModeStandard})
	return render.Format(tree)
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().BoolVar(&fmtStdin, "stdin", false, "read HTML from standard input")
	fmtCmd.Flags().BoolVar(&fmtStdinSuper, "stdin-super", false, "read SuperHTML from standard input")
	fmtCmd.Flags().BoolVar(&fmtCheckOnly, "check", false, "list non-conforming files instead of rewriting them; exit 1 if any")
}
