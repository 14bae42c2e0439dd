package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkmark/internal/marker"
	"linkmark/internal/metadata"
	"linkmark/internal/platform"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "linkmark.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	config := Default()

	require.NoError(t, config.Validate())
	assert.Equal(t, marker.FIFO, config.Order())
	assert.Equal(t, []metadata.TypeRef{{Assembly: "Mono.Android", FullName: "Android.Runtime.IJavaObject"}}, config.Contracts())
	assert.Equal(t, platform.DefaultDecorationAttribute, config.Decoration.Attribute)
	assert.Equal(t, platform.DefaultDecorationArgument, config.Decoration.Argument)
	assert.False(t, config.LinkSymbols)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
worklist_order: lifo
link_symbols: true
universal_contracts:
  - type: Java.Interop.IJavaPeerable
decoration:
  attribute: Java.Interop.JniAddNativeMethodRegistrationAttribute
  argument: 1
roots:
  - "method:App:App.Program::Main()"
neo4j:
  password: secret
  clean: true
`)

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, marker.LIFO, config.Order())
	assert.True(t, config.LinkSymbols)
	assert.Equal(t, []metadata.TypeRef{{FullName: "Java.Interop.IJavaPeerable"}}, config.Contracts())
	assert.Equal(t, Decoration{Attribute: "Java.Interop.JniAddNativeMethodRegistrationAttribute", Argument: 1}, config.Decoration)
	assert.Equal(t, []metadata.ID{metadata.MethodID("App", "App.Program", "Main()")}, config.Roots)

	// unset keys keep their defaults
	assert.Equal(t, "bolt://localhost:7687", config.Neo4j.URI)
	assert.Equal(t, "neo4j", config.Neo4j.User)
	assert.Equal(t, "secret", config.Neo4j.Password)
	assert.True(t, config.Neo4j.Clean)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     error
	}{
		{
			name:    "malformed yaml",
			content: "worklist_order: [",
			err:     ErrConfigFileParse,
		},
		{
			name:    "bad root id",
			content: "roots: [nope]",
			err:     ErrConfigFileParse,
		},
		{
			name:    "contract without type",
			content: "universal_contracts: [{assembly: Mono.Android}]",
			err:     ErrContractTypeEmpty,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadWithFallback(t *testing.T) {
	config, err := LoadWithFallback("")
	require.NoError(t, err)
	assert.Equal(t, Default(), config)

	config, err = LoadWithFallback(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), config)

	_, err = LoadWithFallback(writeConfig(t, "worklist_order: sideways"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		err    error
	}{
		{
			name:   "empty decoration attribute",
			modify: func(c *Config) { c.Decoration.Attribute = "" },
			err:    ErrDecorationAttributeEmpty,
		},
		{
			name:   "negative decoration argument",
			modify: func(c *Config) { c.Decoration.Argument = -1 },
			err:    ErrDecorationArgument,
		},
		{
			name:   "empty neo4j uri",
			modify: func(c *Config) { c.Neo4j.URI = "" },
			err:    ErrNeo4jURIEmpty,
		},
		{
			name:   "empty contract type",
			modify: func(c *Config) { c.UniversalContracts = append(c.UniversalContracts, Contract{}) },
			err:    ErrContractTypeEmpty,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := Default()
			tc.modify(config)
			assert.ErrorIs(t, config.Validate(), tc.err)
		})
	}

	config := Default()
	config.WorklistOrder = "sideways"
	assert.Error(t, config.Validate())
}

func TestTable(t *testing.T) {
	config := Default()
	table, err := config.Table()
	require.NoError(t, err)
	assert.Equal(t, platform.DefaultTable().Entries(), table.Entries())

	config.RuntimeTable = writeConfig(t, `
entries:
  - assembly: App
    namespace: App.Native
    name: Handle
    fields: all
`)
	table, err = config.Table()
	require.NoError(t, err)
	require.Len(t, table.Entries(), 1)
	assert.Equal(t, "Handle", table.Entries()[0].Name)
}
