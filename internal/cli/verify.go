package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mmastrac/reedsolomon-ecc/internal/validation"
	"github.com/spf13/cobra"
)

// VerifyResult reports whether stored parity matches the message
type VerifyResult struct {
	Match    bool   `json:"match"`
	Expected string `json:"expected"`
	Stored   string `json:"stored"`
}

func NewVerifyCommand() *cobra.Command {
	var (
		encOpts encoderOptions
		msgOpts messageOptions
	)

	cmd := &cobra.Command{
		Use:   "verify [packed-parity-hex]",
		Short: "Check stored parity bytes against a message",
		Long: `Recompute parity for a message and compare it with packed parity bytes,
for example the ECC bytes read from a NAND spare area.

This only detects a mismatch; it does not locate or correct errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stored := strings.ToLower(strings.TrimSpace(args[0]))
			if err := validation.ValidateHex(stored); err != nil {
				return fmt.Errorf("invalid parity format: %w", err)
			}

			m, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			enc, err := encOpts.encoder(m)
			if err != nil {
				return err
			}

			message, err := msgOpts.read(cmd, enc)
			if err != nil {
				return err
			}

			parity, err := computeParity(enc, message)
			if err != nil {
				return err
			}

			result := VerifyResult{
				Match:    parity.Packed == stored,
				Expected: parity.Packed,
				Stored:   stored,
			}

			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				if err := writeJSON(out, result); err != nil {
					return err
				}
			} else if result.Match {
				color.New(color.FgGreen, color.Bold).Fprintln(out, "✓ Parity matches")
			} else {
				red := color.New(color.FgRed, color.Bold)
				red.Fprintln(out, "✗ Parity mismatch")
				fmt.Fprintf(out, "  Expected: %s\n", result.Expected)
				fmt.Fprintf(out, "  Stored:   %s\n", result.Stored)
			}

			if !result.Match {
				return fmt.Errorf("parity mismatch")
			}
			return nil
		},
	}

	encOpts.register(cmd)
	msgOpts.register(cmd)

	return cmd
}
