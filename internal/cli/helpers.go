package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mmastrac/reedsolomon-ecc/internal/validation"
	"github.com/mmastrac/reedsolomon-ecc/pkg/config"
	"github.com/mmastrac/reedsolomon-ecc/pkg/rsecc"
	"github.com/mmastrac/reedsolomon-ecc/pkg/symbols"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// encoderOptions selects an encoder either by profile or by explicit parameters.
// Explicit flags override the profile's values.
type encoderOptions struct {
	profile string
	k       int
	s       int
	r       int
}

func (o *encoderOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.profile, "profile", "p", "", "Encoder profile from the config file (default from config)")
	cmd.Flags().IntVarP(&o.k, "message-symbols", "k", 0, "Message symbols per block")
	cmd.Flags().IntVarP(&o.s, "errors", "s", 0, "Correctable symbol errors (parity is 2s symbols)")
	cmd.Flags().IntVarP(&o.r, "width", "r", 0, "Symbol width in bits (field order)")
}

func (o *encoderOptions) resolve(m *config.Manager) (config.Profile, error) {
	profile, err := m.Profile(o.profile)
	if err != nil {
		return config.Profile{}, err
	}

	if o.k > 0 {
		profile.MessageSymbols = o.k
	}
	if o.s > 0 {
		profile.CorrectableErrors = o.s
	}
	if o.r > 0 {
		profile.SymbolWidth = o.r
	}

	if err := profile.Validate(); err != nil {
		return config.Profile{}, fmt.Errorf("invalid encoder parameters: %w", err)
	}

	slog.Debug("Resolved encoder profile",
		"profile", o.profile,
		"k", profile.MessageSymbols,
		"s", profile.CorrectableErrors,
		"r", profile.SymbolWidth)

	return profile, nil
}

func (o *encoderOptions) encoder(m *config.Manager) (*rsecc.Encoder, error) {
	profile, err := o.resolve(m)
	if err != nil {
		return nil, err
	}
	return rsecc.NewEncoder(profile.MessageSymbols, profile.CorrectableErrors, profile.SymbolWidth)
}

// loadConfig opens the config named by --config, or the default location
func loadConfig(cmd *cobra.Command) (*config.Manager, error) {
	path := flagString(cmd, "config")

	var (
		m   *config.Manager
		err error
	)
	if path != "" {
		m, err = config.NewManagerAt(path)
	} else {
		m, err = config.NewManager()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if !m.Config().UI.UseColor {
		color.NoColor = true
	}

	return m, nil
}

func flagBool(cmd *cobra.Command, name string) bool {
	if f := cmd.Flags().Lookup(name); f != nil {
		v, _ := strconv.ParseBool(f.Value.String())
		return v
	}
	return false
}

func flagString(cmd *cobra.Command, name string) string {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f.Value.String()
	}
	return ""
}

func jsonOutput(cmd *cobra.Command) bool {
	return flagBool(cmd, "json")
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func isTerminal(f *os.File) bool {
	return isTerminalFd(f.Fd())
}

func isTerminalFd(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// parseSymbolList parses "1, 2,0x3ff" into symbols of width bits
func parseSymbolList(input string, width int) ([]int, error) {
	input = strings.TrimSpace(validation.SanitizeInput(input))
	if input == "" {
		return nil, fmt.Errorf("symbol list cannot be empty")
	}

	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})

	out := make([]int, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseInt(field, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid symbol '%s' at position %d", field, i+1)
		}
		out[i] = int(v)
	}

	if err := validation.ValidateSymbols(out, width); err != nil {
		return nil, fmt.Errorf("invalid symbol list: %w", err)
	}
	return out, nil
}

// parseHexSymbols decodes hex into one symbol per byte
func parseHexSymbols(input string) ([]int, error) {
	input = strings.TrimSpace(input)
	if err := validation.ValidateHex(input); err != nil {
		return nil, err
	}

	data, err := hex.DecodeString(input)
	if err != nil {
		return nil, fmt.Errorf("invalid hex message: %w", err)
	}
	return symbols.FromBytes(data), nil
}

// packedHex packs parity symbols per the MSB-first convention
func packedHex(parity []int, width int) (string, error) {
	packed, err := symbols.Pack(parity, width)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(packed), nil
}

func formatSymbols(syms []int) string {
	parts := make([]string, len(syms))
	for i, s := range syms {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, " ")
}
