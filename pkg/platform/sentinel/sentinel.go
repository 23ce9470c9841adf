package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and external clients
// return these (optionally wrapped) so services can translate them into
// domain errors or business rejections.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in the store or upstream system
// - ErrConflict: write collided with an existing record
// - ErrUnavailable: backing service temporarily unreachable
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
