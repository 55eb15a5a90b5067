// Package rsecc computes Reed-Solomon parity symbols over GF(2^r) for fixed-size
// messages, such as the ECC bytes stored in the spare area of a NAND page.
//
// An Encoder is configured once with the message length k, the number of
// correctable symbol errors s and the symbol width r. Every message is then
// divided by the generator polynomial (x - a^1)...(x - a^2s) and the 2s remainder
// symbols are returned as parity.
package rsecc

import (
	"errors"
	"fmt"

	"github.com/mmastrac/reedsolomon-ecc/pkg/galois"
)

var (
	// ErrConfig is returned when an encoder cannot be built for the requested parameters
	ErrConfig = errors.New("invalid encoder configuration")
	// ErrInvalidArgument is returned when a message does not match the encoder
	ErrInvalidArgument = errors.New("invalid argument")
)

// Encoder generates parity for one (k, s, r) configuration.
// It holds no mutable state and may be shared between goroutines.
type Encoder struct {
	k int // message symbols
	s int // correctable symbol errors
	n int // message + parity symbols

	gf        *galois.Field
	generator []int
}

// NewEncoder creates an encoder for messages of k symbols, s correctable errors
// and r-bit symbols
func NewEncoder(k, s, r int) (*Encoder, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: message symbol count must be positive, got %d", ErrConfig, k)
	}
	if s <= 0 {
		return nil, fmt.Errorf("%w: correctable error count must be positive, got %d", ErrConfig, s)
	}

	gf, err := galois.NewField(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	n := k + 2*s
	if n > gf.Period() {
		return nil, fmt.Errorf("%w: codeword of %d symbols exceeds %d for %d-bit symbols",
			ErrConfig, n, gf.Period(), r)
	}

	generator, err := GeneratorPolynomial(gf, s)
	if err != nil {
		return nil, err
	}

	return &Encoder{
		k:         k,
		s:         s,
		n:         n,
		gf:        gf,
		generator: generator,
	}, nil
}

// MessageSymbols returns k
func (e *Encoder) MessageSymbols() int { return e.k }

// CorrectableErrors returns s
func (e *Encoder) CorrectableErrors() int { return e.s }

// ParitySymbols returns the number of parity symbols, 2s
func (e *Encoder) ParitySymbols() int { return 2 * e.s }

// CodewordSymbols returns N = k + 2s
func (e *Encoder) CodewordSymbols() int { return e.n }

// SymbolWidth returns r
func (e *Encoder) SymbolWidth() int { return e.gf.Order() }

// Field returns the field the encoder works in
func (e *Encoder) Field() *galois.Field { return e.gf }

// Generator returns a copy of the generator polynomial, lowest degree first
func (e *Encoder) Generator() []int {
	out := make([]int, len(e.generator))
	copy(out, e.generator)
	return out
}

// GenerateParity returns the 2s parity symbols for a message of exactly k symbols
func (e *Encoder) GenerateParity(message []int) ([]int, error) {
	if err := e.checkMessage(message); err != nil {
		return nil, err
	}

	parity := 2 * e.s

	// x^2s * m(x)
	data := make([]int, e.n)
	copy(data[parity:], message)

	// Synthetic division; the generator is monic so the quotient is not needed
	for i := e.n - 1; i >= parity; i-- {
		if data[i] == 0 {
			continue
		}
		for j := 1; j <= parity; j++ {
			data[i-j] ^= e.gf.Multiply(data[i], e.generator[parity-j])
		}
		data[i] = 0
	}

	return data[:parity:parity], nil
}

// Codeword returns parity followed by the message, i.e. the coefficients of
// x^2s * m(x) + p(x) lowest degree first
func (e *Encoder) Codeword(message []int) ([]int, error) {
	parity, err := e.GenerateParity(message)
	if err != nil {
		return nil, err
	}

	codeword := make([]int, 0, e.n)
	codeword = append(codeword, parity...)
	codeword = append(codeword, message...)
	return codeword, nil
}

func (e *Encoder) checkMessage(message []int) error {
	if len(message) != e.k {
		return fmt.Errorf("%w: message has %d symbols, expected %d", ErrInvalidArgument, len(message), e.k)
	}
	for i, symbol := range message {
		if !e.gf.Contains(symbol) {
			return fmt.Errorf("%w: symbol %d (%d) does not fit in %d bits",
				ErrInvalidArgument, i, symbol, e.gf.Order())
		}
	}
	return nil
}

// String describes the encoder configuration
func (e *Encoder) String() string {
	return fmt.Sprintf("RS(%d,%d) over %s", e.n, e.k, e.gf)
}
