package rsecc

import (
	"fmt"

	"github.com/mmastrac/reedsolomon-ecc/pkg/galois"
)

// GeneratorPolynomial builds g(x) = (x - a^1)(x - a^2)...(x - a^2s) over the field.
// Coefficients are returned lowest degree first; the polynomial is monic of degree 2s.
func GeneratorPolynomial(gf *galois.Field, s int) ([]int, error) {
	if gf == nil {
		return nil, fmt.Errorf("%w: nil field", ErrConfig)
	}
	if s <= 0 {
		return nil, fmt.Errorf("%w: correctable error count must be positive, got %d", ErrConfig, s)
	}

	roots := 2 * s
	g := make([]int, roots+1)

	g[0] = 1
	for i := 1; i <= roots; i++ {
		g[i] = 1

		// Multiply by (x - a^i) in place, high degree first
		root := gf.Exp(i)
		for j := i - 1; j > 0; j-- {
			g[j] = gf.Add(g[j-1], gf.Multiply(root, g[j]))
		}

		// Constant term is a^(1+2+...+i)
		g[0] = gf.Exp(i * (i + 1) / 2)
	}

	return g, nil
}
