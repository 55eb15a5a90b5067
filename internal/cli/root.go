package cli

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewRootCommand assembles the rsecc command tree
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rsecc",
		Short: "Reed-Solomon parity for NAND pages and other fixed-size blocks",
		Long: `rsecc computes Reed-Solomon forward error correction parity over GF(2^r).

A message of k symbols is encoded into 2s parity symbols, enough to correct
up to s symbol errors. The default profile matches a 512-byte NAND sector
protected by 8 ten-bit parity symbols (10 bytes of ECC).

Features:
- Any symbol width from 2 to 16 bits
- Parity packed most significant bit first, as stored in NAND spare areas
- Concurrent encoding of whole flash images page by page
- Named encoder profiles in a JSON or YAML config file
- Export of the field's exp/log tables as .npy`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			jsonMode := flagBool(cmd, "json")
			if jsonMode {
				color.NoColor = true
			}
			setupLogging(cmd.ErrOrStderr(), flagBool(cmd, "verbose"), jsonMode)
		},
	}

	rootCmd.AddCommand(
		NewParityCommand(),
		NewVerifyCommand(),
		NewEncodeFileCommand(),
		NewGeneratorCommand(),
		NewFieldCommand(),
		NewTablesCommand(),
		NewConfigCommand(),
	)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().String("config", "", "Config file (default $RSECC_CONFIG or ~/.config/rsecc/config.json)")

	return rootCmd
}

// setupLogging installs the default slog logger: JSON records in --json mode,
// charmbracelet/log text otherwise
func setupLogging(w io.Writer, verbose, jsonMode bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if jsonMode {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		charmLevel := log.WarnLevel
		if verbose {
			charmLevel = log.DebugLevel
		}
		handler = log.NewWithOptions(w, log.Options{
			Level:           charmLevel,
			ReportTimestamp: verbose,
			Prefix:          "rsecc",
		})
	}

	slog.SetDefault(slog.New(handler))
}
