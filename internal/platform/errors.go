package platform

import "errors"

var (
	// ErrInvalidEntry is returned when a runtime table entry is missing its
	// assembly or type name, or names a method directive without a method.
	ErrInvalidEntry = errors.New("invalid runtime table entry")

	// ErrDuplicateEntry is returned when two runtime table entries share
	// the same assembly, namespace and name.
	ErrDuplicateEntry = errors.New("duplicate runtime table entry")
)
