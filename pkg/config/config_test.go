package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerAt_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	m, err := NewManagerAt(path)
	require.NoError(t, err)
	assert.Equal(t, path, m.Path())

	profile, err := m.Profile("")
	require.NoError(t, err)
	assert.Equal(t, 512, profile.MessageSymbols)
	assert.Equal(t, 4, profile.CorrectableErrors)
	assert.Equal(t, 10, profile.SymbolWidth)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "manager should not write until Save")
}

func TestDefaultProfilesAreValid(t *testing.T) {
	for name, profile := range DefaultConfig().Profiles {
		assert.NoError(t, profile.Validate(), name)
	}
}

func TestSaveAndLoad(t *testing.T) {
	for _, name := range []string{"config.json", "config.yaml", "config.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			m, err := NewManagerAt(path)
			require.NoError(t, err)

			require.NoError(t, m.SetProfile("small", Profile{
				MessageSymbols:    16,
				CorrectableErrors: 2,
				SymbolWidth:       6,
			}))
			m.Config().Defaults.Workers = 3
			m.Config().Defaults.Profile = "small"
			require.NoError(t, m.Save())

			reloaded, err := NewManagerAt(path)
			require.NoError(t, err)

			profile, err := reloaded.Profile("")
			require.NoError(t, err)
			assert.Equal(t, Profile{MessageSymbols: 16, CorrectableErrors: 2, SymbolWidth: 6}, profile)
			assert.Equal(t, 3, reloaded.Config().Defaults.Workers)
			assert.Contains(t, reloaded.ListProfiles(), "nand512")
		})
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rsecc.yaml")
	data := `
version: "1.0.0"
defaults:
  profile: spare
profiles:
  spare:
    description: test
    message_symbols: 100
    correctable_errors: 3
    symbol_width: 9
ui:
  use_color: false
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	m, err := NewManagerAt(path)
	require.NoError(t, err)

	profile, err := m.Profile("")
	require.NoError(t, err)
	assert.Equal(t, 100, profile.MessageSymbols)
	assert.Equal(t, 3, profile.CorrectableErrors)
	assert.Equal(t, 9, profile.SymbolWidth)
	assert.False(t, m.Config().UI.UseColor)
}

func TestLoad_RejectsInvalidProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"profiles": {"broken": {"message_symbols": 512, "correctable_errors": 4, "symbol_width": 8}}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	_, err := NewManagerAt(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewManagerAt(path)
	assert.Error(t, err)
}

func TestProfileManagement(t *testing.T) {
	m, err := NewManagerAt(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	assert.Error(t, m.SetProfile("Bad Name", Profile{MessageSymbols: 1, CorrectableErrors: 1, SymbolWidth: 4}))
	assert.Error(t, m.SetProfile("toolong", Profile{MessageSymbols: 300, CorrectableErrors: 1, SymbolWidth: 8}))

	require.NoError(t, m.SetProfile("tiny", Profile{MessageSymbols: 4, CorrectableErrors: 1, SymbolWidth: 4}))
	assert.Equal(t, []string{"nand512", "nand512-8bit", "tiny"}, m.ListProfiles())

	require.NoError(t, m.DeleteProfile("tiny"))
	assert.Error(t, m.DeleteProfile("tiny"))
	assert.Error(t, m.DeleteProfile(DefaultProfile))

	_, err = m.Profile("missing")
	assert.Error(t, err)
}

func TestDeleteProfile_BuiltinSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	m, err := NewManagerAt(path)
	require.NoError(t, err)

	assert.True(t, IsBuiltinProfile("nand512-8bit"))
	assert.False(t, IsBuiltinProfile("tiny"))

	err = m.DeleteProfile("nand512-8bit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "built-in")

	require.NoError(t, m.SetProfile("tiny", Profile{MessageSymbols: 4, CorrectableErrors: 1, SymbolWidth: 4}))
	require.NoError(t, m.Save())
	require.NoError(t, m.DeleteProfile("tiny"))
	require.NoError(t, m.Save())

	reloaded, err := NewManagerAt(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"nand512", "nand512-8bit"}, reloaded.ListProfiles())
}

func TestNewManager_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")
	t.Setenv("RSECC_CONFIG", path)

	m, err := NewManager()
	require.NoError(t, err)
	assert.Equal(t, path, m.Path())
}

func TestNewManager_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RSECC_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", dir)

	m, err := NewManager()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rsecc", "config.json"), m.Path())
}
