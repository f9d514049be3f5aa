package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and adapters return these
// (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: entity does not exist in store
//   - ErrConflict: a uniqueness guard rejected the write
//   - ErrInvalidState: persisted data violates an invariant (e.g. a stage list
//     that is not a prefix of the pipeline)
//   - ErrUnavailable: remote service or store rejected or failed the call
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
