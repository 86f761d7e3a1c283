package openclimate

import "errors"

// Sentinel kinds for client errors. The lookups depend on the first three
// being distinguishable.
var (
	// ErrActorNotFound means the API has no such actor.
	ErrActorNotFound = errors.New("actor not found")
	// ErrPartTypeNotFound means the actor exists but has no parts of the requested type.
	ErrPartTypeNotFound = errors.New("part type not found")
	// ErrInvalidArgument means the actor/datasource combination is unknown.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnexpectedStatus means the API answered with a status the client does not handle.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrDecode means the response body could not be decoded.
	ErrDecode = errors.New("decode response failed")
)
