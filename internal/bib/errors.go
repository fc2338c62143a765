package bib

import "errors"

// Common errors returned by store and edge operations.
var (
	// ErrForeignEntity indicates an entity from a different store was passed
	// to an operation. Mixing stores is a programmer error and is never
	// recovered from.
	ErrForeignEntity = errors.New("entity belongs to a different store")

	// ErrSelfReference indicates a self-citation or a merge of an entity
	// into itself.
	ErrSelfReference = errors.New("entity cannot reference itself")

	// ErrDuplicate indicates an edge-state mismatch: removing an edge that
	// is not present. Adding an already-present edge is a no-op, not an
	// error.
	ErrDuplicate = errors.New("edge not present")

	// ErrNotFound indicates an operation addressed an entity that is not
	// (or no longer) in the store.
	ErrNotFound = errors.New("entity not found in store")
)
