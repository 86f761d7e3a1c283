package pathway

import "errors"

// Sentinel kinds for target calculation errors.
var (
	// ErrAmbiguousBaseline means the baseline filter matched zero or several rows.
	ErrAmbiguousBaseline = errors.New("ambiguous or missing baseline")
	// ErrInvalidInput means the inputs cannot define a line, e.g. target year == baseline year.
	ErrInvalidInput = errors.New("invalid input")
)
