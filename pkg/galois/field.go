// Package galois implements arithmetic over the binary extension fields GF(2^r)
// for 2 <= r <= 16, using exponential and logarithm lookup tables.
package galois

import (
	"errors"
	"fmt"
)

const (
	// MinOrder is the smallest supported field order r
	MinOrder = 2
	// MaxOrder is the largest supported field order r
	MaxOrder = 16
)

var (
	// ErrConfig is returned when a field cannot be built for the requested order
	ErrConfig = errors.New("invalid field configuration")
	// ErrZeroLog is returned when asking for the logarithm of zero
	ErrZeroLog = errors.New("zero has no logarithm")
	// ErrOutOfField is returned for values that are not elements of the field
	ErrOutOfField = errors.New("value is not a field element")
)

// Lee & Messerschmitt, p. 453
var primitivePolynomials = [MaxOrder - MinOrder + 1]uint32{
	0x00000007, // x^2 + x + 1
	0x0000000B, // x^3 + x + 1
	0x00000013, // x^4 + x + 1
	0x00000025, // x^5 + x^2 + 1
	0x00000043, // x^6 + x + 1
	0x00000089, // x^7 + x^3 + 1
	0x0000011D, // x^8 + x^4 + x^3 + x^2 + 1
	0x00000211, // x^9 + x^4 + 1
	0x00000409, // x^10 + x^3 + 1
	0x00000805, // x^11 + x^2 + 1
	0x00001053, // x^12 + x^6 + x^4 + x + 1
	0x0000201B, // x^13 + x^4 + x^3 + x + 1
	0x00004443, // x^14 + x^10 + x^6 + x + 1
	0x00008003, // x^15 + x + 1
	0x0001100B, // x^16 + x^12 + x^3 + x + 1
}

// PrimitivePolynomial returns the reduction polynomial used for GF(2^r)
func PrimitivePolynomial(r int) (uint32, error) {
	if r < MinOrder || r > MaxOrder {
		return 0, fmt.Errorf("%w: order %d outside [%d,%d]", ErrConfig, r, MinOrder, MaxOrder)
	}
	return primitivePolynomials[r-MinOrder], nil
}

// Field is GF(2^r). It is immutable once built and safe for concurrent use.
type Field struct {
	order int
	poly  uint32
	size  int
	exp   []int
	log   []int
}

// NewField builds the exp/log tables for GF(2^r)
func NewField(r int) (*Field, error) {
	poly, err := PrimitivePolynomial(r)
	if err != nil {
		return nil, err
	}

	f := &Field{
		order: r,
		poly:  poly,
		size:  1 << r,
	}
	f.generateLogExp()

	return f, nil
}

// generateLogExp fills the tables by repeated multiplication by the primitive element 2
func (f *Field) generateLogExp() {
	f.exp = make([]int, f.size)
	f.log = make([]int, f.size)

	f.exp[0] = 1
	// log[0] is a placeholder; zero has no logarithm and Multiply never reads it
	f.log[0] = 1

	highBit := 1 << (f.order - 1)
	for i := 1; i < f.size; i++ {
		highBitSet := f.exp[i-1]&highBit != 0
		f.exp[i] = f.exp[i-1] << 1
		if highBitSet {
			f.exp[i] ^= int(f.poly)
		}
		f.log[f.exp[i]] = i
	}
}

// Order returns r
func (f *Field) Order() int {
	return f.order
}

// Size returns the number of field elements, 2^r
func (f *Field) Size() int {
	return f.size
}

// Period returns the order of the multiplicative group, 2^r - 1
func (f *Field) Period() int {
	return f.size - 1
}

// Polynomial returns the primitive polynomial the field reduces by
func (f *Field) Polynomial() uint32 {
	return f.poly
}

// Contains reports whether x is an element of the field
func (f *Field) Contains(x int) bool {
	return x >= 0 && x < f.size
}

// Exp returns alpha^x. Any integer exponent is accepted, the result repeats
// with period 2^r - 1.
func (f *Field) Exp(x int) int {
	x %= f.Period()
	if x < 0 {
		x += f.Period()
	}
	return f.exp[x]
}

// Log returns the discrete logarithm of a non-zero element
func (f *Field) Log(x int) (int, error) {
	if !f.Contains(x) {
		return 0, fmt.Errorf("%w: %d in GF(2^%d)", ErrOutOfField, x, f.order)
	}
	if x == 0 {
		return 0, ErrZeroLog
	}
	return f.log[x] % f.Period(), nil
}

// Multiply multiplies two field elements
func (f *Field) Multiply(x, y int) int {
	if x == 0 || y == 0 {
		return 0
	}
	return f.Exp(f.log[x] + f.log[y])
}

// Add adds two field elements. Subtraction is the same operation.
func (f *Field) Add(x, y int) int {
	return x ^ y
}

// ExpTable returns a copy of the exponential table
func (f *Field) ExpTable() []int {
	out := make([]int, len(f.exp))
	copy(out, f.exp)
	return out
}

// LogTable returns a copy of the logarithm table. Entry 0 is meaningless.
func (f *Field) LogTable() []int {
	out := make([]int, len(f.log))
	copy(out, f.log)
	return out
}

// String describes the field
func (f *Field) String() string {
	return fmt.Sprintf("GF(2^%d) poly=%#x", f.order, f.poly)
}
