package marker

import "errors"

// Registry errors.
var (
	ErrNilRule       = errors.New("rule cannot be nil")
	ErrDuplicateRule = errors.New("rule already registered")
	ErrNoHooks       = errors.New("rule implements no hook")
)
