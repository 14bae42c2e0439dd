// Package config loads the linkmark configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"linkmark/internal/marker"
	"linkmark/internal/metadata"
	"linkmark/internal/platform"
)

// Config represents the application configuration.
type Config struct {
	WorklistOrder      string        `yaml:"worklist_order"`
	LinkSymbols        bool          `yaml:"link_symbols"`
	UniversalContracts []Contract    `yaml:"universal_contracts"`
	Decoration         Decoration    `yaml:"decoration"`
	RuntimeTable       string        `yaml:"runtime_table"`
	Roots              []metadata.ID `yaml:"roots"`
	Neo4j              Neo4j         `yaml:"neo4j"`
}

// Contract names a universal contract interface. An empty assembly
// matches the interface in any assembly.
type Contract struct {
	Assembly string `yaml:"assembly"`
	Type     string `yaml:"type"`
}

// Decoration locates peer-binding decorations: the positional argument
// Argument of the custom attribute Attribute.
type Decoration struct {
	Attribute string `yaml:"attribute"`
	Argument  int    `yaml:"argument"`
}

// Neo4j holds the export connection settings.
type Neo4j struct {
	URI      string `yaml:"uri"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Clean    bool   `yaml:"clean"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		WorklistOrder: marker.FIFO.String(),
		UniversalContracts: []Contract{
			{Assembly: "Mono.Android", Type: "Android.Runtime.IJavaObject"},
		},
		Decoration: Decoration{
			Attribute: platform.DefaultDecorationAttribute,
			Argument:  platform.DefaultDecorationArgument,
		},
		Neo4j: Neo4j{
			URI:  "bolt://localhost:7687",
			User: "neo4j",
		},
	}
}

// Load loads configuration from the specified file path. Keys missing
// from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigFileParse, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadWithFallback loads configuration from path, falling back to the
// default configuration when path is empty or does not exist.
func LoadWithFallback(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	config, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return config, err
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if _, err := marker.ParseOrder(c.WorklistOrder); err != nil {
		return err
	}
	for _, contract := range c.UniversalContracts {
		if contract.Type == "" {
			return ErrContractTypeEmpty
		}
	}
	if c.Decoration.Attribute == "" {
		return ErrDecorationAttributeEmpty
	}
	if c.Decoration.Argument < 0 {
		return ErrDecorationArgument
	}
	if c.Neo4j.URI == "" {
		return ErrNeo4jURIEmpty
	}
	return nil
}

// Order returns the configured worklist order.
func (c *Config) Order() marker.Order {
	o, _ := marker.ParseOrder(c.WorklistOrder)
	return o
}

// Contracts returns the universal contracts as type references.
func (c *Config) Contracts() []metadata.TypeRef {
	refs := make([]metadata.TypeRef, len(c.UniversalContracts))
	for i, contract := range c.UniversalContracts {
		refs[i] = metadata.TypeRef{Assembly: contract.Assembly, FullName: contract.Type}
	}
	return refs
}

// Table returns the runtime table: the file named by RuntimeTable, or
// the built-in table.
func (c *Config) Table() (*platform.Table, error) {
	if c.RuntimeTable == "" {
		return platform.DefaultTable(), nil
	}
	return platform.LoadTable(c.RuntimeTable)
}
