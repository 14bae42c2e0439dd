package config

import "errors"

// Error definitions for config package.
var (
	// Configuration file errors.
	ErrConfigFileParse = errors.New("failed to parse config file")
	// Configuration validation errors.
	ErrContractTypeEmpty        = errors.New("universal_contracts entries need a type")
	ErrDecorationAttributeEmpty = errors.New("decoration.attribute cannot be empty")
	ErrDecorationArgument       = errors.New("decoration.argument cannot be negative")
	ErrNeo4jURIEmpty            = errors.New("neo4j.uri cannot be empty")
)
