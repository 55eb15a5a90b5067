package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mmastrac/reedsolomon-ecc/internal/validation"
	"github.com/mmastrac/reedsolomon-ecc/pkg/galois"
	"github.com/mmastrac/reedsolomon-ecc/pkg/tables"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func NewTablesCommand() *cobra.Command {
	var (
		width int
		dir   string
	)

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Export the exp/log tables of GF(2^r) as .npy files",
		Long: `Write exp<r>.npy and log<r>.npy (uint32 arrays of length 2^r) into a directory.
The log table stores 2^r - 1 at index 0 as the marker for log(0).

Example:
  rsecc tables -r 10 --dir tables`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateFieldOrder(width); err != nil {
				return err
			}

			f, err := galois.NewField(width)
			if err != nil {
				return err
			}

			var progress func(int)
			if !jsonOutput(cmd) && isTerminal(os.Stderr) {
				bar := progressbar.NewOptions(2,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionSetDescription("writing tables"),
				)
				defer bar.Finish()
				progress = func(done int) { bar.Set(done) }
			}

			paths, err := tables.Export(dir, f, progress)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return writeJSON(out, paths)
			}

			green := color.New(color.FgGreen)
			green.Fprintf(out, "Wrote tables for %s\n", f)
			fmt.Fprintf(out, "  exp: %s\n", paths.Exp)
			fmt.Fprintf(out, "  log: %s\n", paths.Log)
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "r", 10, "Field order r")
	cmd.Flags().StringVarP(&dir, "dir", "d", "tables", "Output directory")

	return cmd
}
