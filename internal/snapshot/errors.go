package snapshot

import "errors"

// ErrCapacityExceeded is raised by an add* operation when a table's
// configured Limits would be exceeded (spec §3.3, §4.2, §7). Tables are
// growable by default (Open Question 4 in spec §9, resolved in
// DESIGN.md): this error only fires when a host opts into a soft cap.
var ErrCapacityExceeded = errors.New("snapshot: capacity exceeded")

// ErrFrozen is returned by any add* operation called after Freeze.
var ErrFrozen = errors.New("snapshot: snapshot is frozen")

// ErrInvalidToken is returned when a node references a token range that
// does not exist yet in the token table.
var ErrInvalidToken = errors.New("snapshot: invalid token id")

// ErrInvalidChild is returned when a node's children reference an unknown
// NodeId.
var ErrInvalidChild = errors.New("snapshot: invalid child node id")

// ErrCrossUnitTokenRange is returned when first_token and last_token do not
// belong to the same unit (spec §4.2 invariant).
var ErrCrossUnitTokenRange = errors.New("snapshot: first_token and last_token span different units")
