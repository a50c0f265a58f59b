package codex

import "errors"

// ErrUnknownEntityType is returned when a caller names an entity type the
// catalog has no table for.
var ErrUnknownEntityType = errors.New("unknown entity type")
