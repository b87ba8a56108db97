package repository

import (
	"github.com/evermart/ordertables/internal/errors"
)

// Sentinel errors returned by the repositories.
var (
	// ErrRowNotFound indicates the normalized table has no row for the record.
	ErrRowNotFound = errors.NewStd("normalized row not found")

	// ErrMetaNotFound indicates the legacy store has no attributes for the
	// record; the underlying entity is missing or was never populated.
	ErrMetaNotFound = errors.NewStd("legacy attributes not found")
)

// dbError creates a properly categorized database error with context
func dbError(err error, operation string, context ...any) error {
	builder := errors.New(err).
		Component("repository").
		Category(errors.CategoryDatabase).
		Context("operation", operation)

	for i := 0; i < len(context)-1; i += 2 {
		if key, ok := context[i].(string); ok {
			builder = builder.Context(key, context[i+1])
		}
	}

	return builder.Build()
}
