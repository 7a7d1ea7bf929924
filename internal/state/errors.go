package state

import "errors"

// ErrStateNotFound is returned when a named state does not exist in a store.
var ErrStateNotFound = errors.New("stream state not found")
