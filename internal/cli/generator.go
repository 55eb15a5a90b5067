package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mmastrac/reedsolomon-ecc/internal/validation"
	"github.com/mmastrac/reedsolomon-ecc/pkg/galois"
	"github.com/mmastrac/reedsolomon-ecc/pkg/rsecc"
	"github.com/spf13/cobra"
)

// GeneratorResult is the machine-readable output of the generator command
type GeneratorResult struct {
	SymbolWidth       int    `json:"symbol_width"`
	Polynomial        string `json:"field_polynomial"`
	CorrectableErrors int    `json:"correctable_errors"`
	Coefficients      []int  `json:"coefficients"`
}

func NewGeneratorCommand() *cobra.Command {
	var (
		errs  int
		width int
	)

	cmd := &cobra.Command{
		Use:   "generator",
		Short: "Print the generator polynomial (x - a^1)...(x - a^2s)",
		Long: `Print the coefficients of the Reed-Solomon generator polynomial, lowest
degree first.

Example:
  rsecc generator -s 4 -r 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateFieldOrder(width); err != nil {
				return err
			}

			f, err := galois.NewField(width)
			if err != nil {
				return err
			}

			g, err := rsecc.GeneratorPolynomial(f, errs)
			if err != nil {
				return err
			}

			result := GeneratorResult{
				SymbolWidth:       width,
				Polynomial:        fmt.Sprintf("%#x", f.Polynomial()),
				CorrectableErrors: errs,
				Coefficients:      g,
			}

			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return writeJSON(out, result)
			}

			color.New(color.FgCyan, color.Bold).Fprintf(out, "g(x) over %s, degree %d\n", f, len(g)-1)
			fmt.Fprintln(out, formatPolynomial(g))
			return nil
		},
	}

	cmd.Flags().IntVarP(&errs, "errors", "s", 4, "Correctable symbol errors")
	cmd.Flags().IntVarP(&width, "width", "r", 10, "Symbol width in bits")

	return cmd
}

// formatPolynomial renders coefficients highest degree first
func formatPolynomial(g []int) string {
	terms := make([]string, 0, len(g))
	for i := len(g) - 1; i >= 0; i-- {
		if g[i] == 0 {
			continue
		}
		switch i {
		case 0:
			terms = append(terms, fmt.Sprintf("%d", g[i]))
		case 1:
			terms = append(terms, fmt.Sprintf("%d*x", g[i]))
		default:
			if g[i] == 1 {
				terms = append(terms, fmt.Sprintf("x^%d", i))
			} else {
				terms = append(terms, fmt.Sprintf("%d*x^%d", g[i], i))
			}
		}
	}
	return strings.Join(terms, " + ")
}
