// Package tables exports the lookup tables of a Galois field as NumPy .npy
// files so they can be inspected or reused by other tooling.
package tables

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mmastrac/reedsolomon-ecc/pkg/galois"
	"github.com/sbinet/npyio"
)

// Paths lists the files written by Export
type Paths struct {
	Exp string `json:"exp"`
	Log string `json:"log"`
}

// WriteNPY writes a table as a one-dimensional uint32 .npy array
func WriteNPY(w io.Writer, table []int) error {
	values := make([]uint32, len(table))
	for i, v := range table {
		if v < 0 {
			return fmt.Errorf("table entry %d is negative: %d", i, v)
		}
		values[i] = uint32(v)
	}

	if err := npyio.Write(w, values); err != nil {
		return fmt.Errorf("failed to write npy array: %w", err)
	}
	return nil
}

// ReadNPY reads a table written by WriteNPY
func ReadNPY(r io.Reader) ([]int, error) {
	var values []uint32
	if err := npyio.Read(r, &values); err != nil {
		return nil, fmt.Errorf("failed to read npy array: %w", err)
	}

	table := make([]int, len(values))
	for i, v := range values {
		table[i] = int(v)
	}
	return table, nil
}

// LogTable returns the field's logarithm table with the zero entry set to
// 2^r - 1, the conventional marker for log(0)
func LogTable(f *galois.Field) []int {
	log := f.LogTable()
	log[0] = f.Period()
	return log
}

// Export writes exp<r>.npy and log<r>.npy into dir. progress, if not nil, is
// called with the number of tables completed.
func Export(dir string, f *galois.Field, progress func(done int)) (Paths, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Paths{}, fmt.Errorf("failed to create table directory: %w", err)
	}

	paths := Paths{
		Exp: filepath.Join(dir, fmt.Sprintf("exp%d.npy", f.Order())),
		Log: filepath.Join(dir, fmt.Sprintf("log%d.npy", f.Order())),
	}

	outputs := []struct {
		path  string
		table []int
	}{
		{paths.Exp, f.ExpTable()},
		{paths.Log, LogTable(f)},
	}

	for i, out := range outputs {
		if err := writeFile(out.path, out.table); err != nil {
			return Paths{}, err
		}
		if progress != nil {
			progress(i + 1)
		}
	}

	return paths, nil
}

func writeFile(path string, table []int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := WriteNPY(file, table); err != nil {
		file.Close()
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
