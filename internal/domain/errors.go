package domain

import "errors"

// Core validation error kinds. Callers match with errors.Is; all of them are
// fatal for the build (no partial merge, the snapshot is left untouched).
var (
	// ErrMissingColumn: a required column is absent from the roster or snapshot.
	ErrMissingColumn = errors.New("missing required column")

	// ErrDuplicateName: two rows share the same normalized clinic name.
	// The name is the identity key, so the ambiguity must be resolved upstream.
	ErrDuplicateName = errors.New("duplicate clinic name")

	// ErrCorruptSnapshot: the persistent id_map violates its own invariants.
	// No automatic repair is attempted.
	ErrCorruptSnapshot = errors.New("corrupt id_map snapshot")
)
