package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mmastrac/reedsolomon-ecc/pkg/galois"
)

var (
	hexPattern     = regexp.MustCompile(`^[0-9a-fA-F]+$`)
	profilePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
)

// MaxWorkers bounds the worker count accepted for batch encoding
const MaxWorkers = 1024

func ValidateHex(input string) error {
	input = strings.TrimSpace(input)
	if len(input) == 0 {
		return fmt.Errorf("hex string cannot be empty")
	}

	if len(input)%2 != 0 {
		return fmt.Errorf("hex string must have even length")
	}

	if !hexPattern.MatchString(input) {
		return fmt.Errorf("invalid hex characters")
	}

	return nil
}

func ValidateFieldOrder(r int) error {
	if r < galois.MinOrder || r > galois.MaxOrder {
		return fmt.Errorf("symbol width must be between %d and %d bits (got %d)",
			galois.MinOrder, galois.MaxOrder, r)
	}
	return nil
}

func ValidateEncoderParams(k, s, r int) error {
	if err := ValidateFieldOrder(r); err != nil {
		return err
	}

	if k <= 0 {
		return fmt.Errorf("message symbols must be positive (got %d)", k)
	}

	if s <= 0 {
		return fmt.Errorf("correctable errors must be positive (got %d)", s)
	}

	if n, limit := k+2*s, (1<<r)-1; n > limit {
		return fmt.Errorf("codeword of %d symbols exceeds %d for %d-bit symbols", n, limit, r)
	}

	return nil
}

func ValidateSymbols(symbols []int, r int) error {
	if err := ValidateFieldOrder(r); err != nil {
		return err
	}

	limit := 1 << r
	for i, s := range symbols {
		if s < 0 || s >= limit {
			return fmt.Errorf("symbol %d (%d) does not fit in %d bits", i+1, s, r)
		}
	}

	return nil
}

func ValidateWorkers(n int) error {
	if n < 0 || n > MaxWorkers {
		return fmt.Errorf("workers must be between 0 and %d (got %d)", MaxWorkers, n)
	}
	return nil
}

func ValidateProfileName(name string) error {
	if name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}

	if !profilePattern.MatchString(name) {
		return fmt.Errorf("invalid profile name '%s'", name)
	}

	return nil
}

func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)

	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")

	lines := strings.Split(input, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	return strings.Join(lines, "\n")
}
