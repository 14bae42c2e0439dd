package metadata

import "errors"

var (
	ErrInvalidKind = errors.New("invalid node kind")
	ErrInvalidID   = errors.New("invalid node id, want kind:assembly:name")

	// Graph construction errors.
	ErrMissingAssembly  = errors.New("type has no assembly")
	ErrDuplicateNode    = errors.New("duplicate node")
	ErrInheritanceCycle = errors.New("type hierarchy contains a cycle")
)
