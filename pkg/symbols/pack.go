// Package symbols converts between multi-bit field symbols and bytes.
//
// Packed streams are big-endian at the bit level: every symbol contributes
// its width bits most significant first, and the resulting bit string is cut
// into bytes most significant bit first. This is the layout NAND controllers
// use for the ECC bytes in a page's spare area.
package symbols

import (
	"errors"
	"fmt"
)

// MaxWidth is the widest symbol supported
const MaxWidth = 16

// ErrInvalidSymbol is returned when a symbol does not fit in the requested width
var ErrInvalidSymbol = errors.New("invalid symbol")

// PackedLen returns the number of bytes needed to pack count symbols of width bits
func PackedLen(count, width int) int {
	return (count*width + 7) / 8
}

// Pack concatenates the symbols MSB-first and slices the bit string into bytes.
// A trailing partial byte is padded with zero bits.
func Pack(symbols []int, width int) ([]byte, error) {
	if width < 1 || width > MaxWidth {
		return nil, fmt.Errorf("symbol width must be between 1 and %d, got %d", MaxWidth, width)
	}

	out := make([]byte, PackedLen(len(symbols), width))
	limit := 1 << width

	var (
		acc   uint32 // pending bits, right aligned
		nbits int
		pos   int
	)
	for i, s := range symbols {
		if s < 0 || s >= limit {
			return nil, fmt.Errorf("%w: symbol %d (%d) does not fit in %d bits", ErrInvalidSymbol, i, s, width)
		}

		acc = acc<<width | uint32(s)
		nbits += width
		for nbits >= 8 {
			nbits -= 8
			out[pos] = byte(acc >> nbits)
			pos++
		}
		acc &= (1 << nbits) - 1
	}
	if nbits > 0 {
		out[pos] = byte(acc << (8 - nbits))
	}

	return out, nil
}

// Unpack reads count symbols of width bits from a stream produced by Pack
func Unpack(data []byte, width, count int) ([]int, error) {
	if width < 1 || width > MaxWidth {
		return nil, fmt.Errorf("symbol width must be between 1 and %d, got %d", MaxWidth, width)
	}
	if count < 0 {
		return nil, fmt.Errorf("symbol count cannot be negative, got %d", count)
	}
	if need := PackedLen(count, width); len(data) < need {
		return nil, fmt.Errorf("need %d bytes for %d symbols of %d bits, got %d", need, count, width, len(data))
	}

	out := make([]int, count)

	var (
		acc   uint32
		nbits int
		pos   int
	)
	for i := range out {
		for nbits < width {
			acc = acc<<8 | uint32(data[pos])
			pos++
			nbits += 8
		}
		nbits -= width
		out[i] = int(acc>>nbits) & (1<<width - 1)
		acc &= (1 << nbits) - 1
	}

	return out, nil
}

// FromBytes treats every byte as one symbol
func FromBytes(data []byte) []int {
	out := make([]int, len(data))
	for i, b := range data {
		out[i] = int(b)
	}
	return out
}

// ToBytes is the inverse of FromBytes. Every symbol must fit in a byte.
func ToBytes(symbols []int) ([]byte, error) {
	out := make([]byte, len(symbols))
	for i, s := range symbols {
		if s < 0 || s > 0xff {
			return nil, fmt.Errorf("%w: symbol %d (%d) does not fit in a byte", ErrInvalidSymbol, i, s)
		}
		out[i] = byte(s)
	}
	return out, nil
}
