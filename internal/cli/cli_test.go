package cli

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmastrac/reedsolomon-ecc/pkg/rsecc"
	"github.com/mmastrac/reedsolomon-ecc/pkg/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	parityOnes = "dd337b1bf5dae2009967"
	parityFF   = "cfd89d54a77625877452"
)

type testCLI struct {
	t          *testing.T
	configPath string
}

func newTestCLI(t *testing.T) *testCLI {
	return &testCLI{
		t:          t,
		configPath: filepath.Join(t.TempDir(), "config.json"),
	}
}

func (c *testCLI) run(stdin []byte, args ...string) (string, error) {
	c.t.Helper()

	root := NewRootCommand("test")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(bytes.NewReader(stdin))
	root.SetArgs(append([]string{"--config", c.configPath}, args...))

	err := root.Execute()
	return out.String(), err
}

func (c *testCLI) runJSON(v interface{}, args ...string) {
	c.t.Helper()

	out, err := c.run(nil, append(args, "--json")...)
	require.NoError(c.t, err)
	require.NoError(c.t, json.Unmarshal([]byte(out), v), out)
}

func TestParityCommand_NANDVectors(t *testing.T) {
	c := newTestCLI(t)

	var result ParityResult
	c.runJSON(&result, "parity", "--fill", "1")
	assert.Equal(t, parityOnes, result.Packed)
	assert.Equal(t, 512, result.MessageSymbols)
	assert.Equal(t, 4, result.CorrectableErrors)
	assert.Equal(t, 10, result.SymbolWidth)
	assert.Len(t, result.Parity, 8)

	c.runJSON(&result, "parity", "--fill", "0xff")
	assert.Equal(t, parityFF, result.Packed)

	c.runJSON(&result, "parity", "--hex", strings.Repeat("00", 512))
	assert.Equal(t, strings.Repeat("00", 10), result.Packed)
}

func TestParityCommand_Stdin(t *testing.T) {
	c := newTestCLI(t)

	out, err := c.run(bytes.Repeat([]byte{0xff}, 512), "parity")
	require.NoError(t, err)
	assert.Contains(t, out, "RS(520,512)")
	assert.Contains(t, out, "Packed (10 bytes): "+parityFF)
}

func TestParityCommand_ExplicitParameters(t *testing.T) {
	c := newTestCLI(t)

	var result ParityResult
	c.runJSON(&result, "parity", "-k", "4", "-s", "2", "-r", "4", "--symbols", "1,1,1,1")
	assert.Equal(t, []int{2, 6, 4, 10}, result.Parity)
	assert.Equal(t, "264a", result.Packed)
}

func TestParityCommand_Errors(t *testing.T) {
	c := newTestCLI(t)

	_, err := c.run(nil, "parity", "--symbols", "1,2,3")
	assert.ErrorIs(t, err, rsecc.ErrInvalidArgument)

	_, err = c.run(nil, "parity", "--hex", "abc")
	assert.Error(t, err)

	_, err = c.run(nil, "parity", "--symbols", "1,x")
	assert.Error(t, err)

	_, err = c.run(nil, "parity", "-k", "4", "-s", "2", "-r", "4", "--symbols", "1,1,1,16")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not fit in 4 bits")

	_, err = c.run(nil, "parity", "-r", "8", "--fill", "1")
	assert.Error(t, err, "512 + 8 symbols do not fit GF(2^8)")

	_, err = c.run(nil, "parity", "--profile", "missing", "--fill", "1")
	assert.Error(t, err)
}

func TestVerifyCommand(t *testing.T) {
	c := newTestCLI(t)

	out, err := c.run(nil, "verify", parityOnes, "--fill", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Parity matches")

	out, err = c.run(nil, "verify", strings.ToUpper(parityOnes), "--fill", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Parity matches")

	out, err = c.run(nil, "verify", parityFF, "--fill", "1")
	assert.Error(t, err)
	assert.Contains(t, out, "Parity mismatch")
	assert.Contains(t, out, parityOnes)

	_, err = c.run(nil, "verify", "zz", "--fill", "1")
	assert.Error(t, err)
}

func TestEncodeFileCommand(t *testing.T) {
	c := newTestCLI(t)
	dir := t.TempDir()

	input := filepath.Join(dir, "flash.img")
	require.NoError(t, os.WriteFile(input, bytes.Repeat([]byte{0x01}, 3*512), 0600))

	output := filepath.Join(dir, "flash.ecc")
	var result EncodeFileResult
	c.runJSON(&result, "encode-file", input, "--output", output, "--workers", "2")
	assert.Equal(t, 3, result.Pages)
	assert.Equal(t, 512, result.PageBytes)
	assert.Equal(t, 10, result.ParityBytes)
	assert.False(t, result.PaddedLastPage)

	ecc, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat(parityOnes, 3), hex.EncodeToString(ecc))
}

func TestEncodeFileCommand_PadsLastPage(t *testing.T) {
	c := newTestCLI(t)

	input := filepath.Join(t.TempDir(), "short.img")
	require.NoError(t, os.WriteFile(input, bytes.Repeat([]byte{0xff}, 600), 0600))

	var result EncodeFileResult
	c.runJSON(&result, "encode-file", input, "--pad", "0xff")
	assert.Equal(t, 2, result.Pages)
	assert.True(t, result.PaddedLastPage)
	assert.Equal(t, []string{parityFF, parityFF}, result.Parity)

	out, err := c.run(nil, "encode-file", input, "--pad", "0xff")
	require.NoError(t, err)
	assert.Contains(t, out, "Encoded 2 pages of 512 bytes")
}

func TestEncodeFileCommand_Errors(t *testing.T) {
	c := newTestCLI(t)
	dir := t.TempDir()

	_, err := c.run(nil, "encode-file", filepath.Join(dir, "missing.img"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.img")
	require.NoError(t, os.WriteFile(empty, nil, 0600))
	_, err = c.run(nil, "encode-file", empty)
	assert.Error(t, err)

	input := filepath.Join(dir, "data.img")
	require.NoError(t, os.WriteFile(input, []byte{1, 2, 3}, 0600))

	_, err = c.run(nil, "encode-file", input, "-k", "4", "-s", "1", "-r", "4")
	assert.Error(t, err, "bytes do not fit 4-bit symbols")

	_, err = c.run(nil, "encode-file", input, "--pad", "256")
	assert.Error(t, err)

	_, err = c.run(nil, "encode-file", input, "--workers", "-1")
	assert.Error(t, err)
}

func TestSplitPages(t *testing.T) {
	pages, padded := splitPages([]byte{1, 2, 3, 4, 5}, 2, 9)
	assert.True(t, padded)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5, 9}}, pages)

	pages, padded = splitPages([]byte{1, 2, 3, 4}, 2, 9)
	assert.False(t, padded)
	assert.Len(t, pages, 2)
}

func TestFieldCommand(t *testing.T) {
	c := newTestCLI(t)

	out, err := c.run(nil, "field", "exp", "10", "-r", "10")
	require.NoError(t, err)
	assert.Equal(t, "9\n", out)

	out, err = c.run(nil, "field", "mul", "0xff", "0xff")
	require.NoError(t, err)
	assert.Equal(t, "488\n", out)

	var result FieldResult
	c.runJSON(&result, "field", "log", "512", "-r", "10")
	assert.Equal(t, FieldResult{Order: 10, Operation: "log", Operands: []int{512}, Result: 9}, result)

	_, err = c.run(nil, "field", "log", "0")
	assert.Error(t, err)

	_, err = c.run(nil, "field", "mul", "1024", "2")
	assert.Error(t, err)

	_, err = c.run(nil, "field", "exp", "1", "-r", "17")
	assert.Error(t, err)
}

func TestGeneratorCommand(t *testing.T) {
	c := newTestCLI(t)

	var result GeneratorResult
	c.runJSON(&result, "generator", "-s", "4", "-r", "10")
	assert.Equal(t, []int{836, 587, 58, 928, 663, 323, 51, 510, 1}, result.Coefficients)
	assert.Equal(t, "0x409", result.Polynomial)

	out, err := c.run(nil, "generator", "-s", "1", "-r", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "x^2 + 6*x + 8")

	_, err = c.run(nil, "generator", "-s", "0")
	assert.Error(t, err)
}

func TestTablesCommand(t *testing.T) {
	c := newTestCLI(t)
	dir := filepath.Join(t.TempDir(), "out")

	var paths tables.Paths
	c.runJSON(&paths, "tables", "-r", "8", "--dir", dir)
	assert.Equal(t, filepath.Join(dir, "exp8.npy"), paths.Exp)

	f, err := os.Open(paths.Exp)
	require.NoError(t, err)
	defer f.Close()

	exp, err := tables.ReadNPY(f)
	require.NoError(t, err)
	require.Len(t, exp, 256)
	assert.Equal(t, 0x1d, exp[8])
}

func TestConfigCommands(t *testing.T) {
	c := newTestCLI(t)

	out, err := c.run(nil, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, c.configPath)

	_, err = c.run(nil, "config", "init")
	assert.Error(t, err, "init refuses to overwrite")

	_, err = c.run(nil, "config", "init", "--force")
	require.NoError(t, err)

	_, err = c.run(nil, "config", "set-profile", "tiny", "-k", "4", "-s", "2", "-r", "4", "--default")
	require.NoError(t, err)

	out, err = c.run(nil, "config", "profiles")
	require.NoError(t, err)
	assert.Contains(t, out, "* tiny")
	assert.Contains(t, out, "nand512")

	var result ParityResult
	c.runJSON(&result, "parity", "--symbols", "1,1,1,1")
	assert.Equal(t, "264a", result.Packed)

	_, err = c.run(nil, "config", "delete-profile", "tiny")
	assert.Error(t, err, "default profile cannot be deleted")

	_, err = c.run(nil, "config", "delete-profile", "nand512-8bit")
	assert.Error(t, err, "built-in profiles cannot be deleted")

	out, err = c.run(nil, "config", "profiles")
	require.NoError(t, err)
	assert.Contains(t, out, "nand512-8bit")

	_, err = c.run(nil, "config", "set-profile", "bad", "-k", "600", "-s", "1", "-r", "8")
	assert.Error(t, err)

	var cfg map[string]interface{}
	c.runJSON(&cfg, "config", "show")
	assert.Contains(t, cfg, "profiles")
}
