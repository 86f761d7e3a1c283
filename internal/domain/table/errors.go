package table

import "errors"

// Sentinel kinds for table errors.
var (
	ErrColumnNotFound = errors.New("column not found")
	ErrNotScalar      = errors.New("expected exactly one row")
	ErrNotNumeric     = errors.New("value is not numeric")
)
