package twin

import "errors"

var (
	// ErrUnknownTwin is returned when an operation references a twin id
	// with no authoritative record and the operation is not a creation op.
	ErrUnknownTwin = errors.New("unknown twin")

	// ErrInvalidTarget is returned by Submit when the command target does
	// not reference an existing twin, or names a sensor the twin lacks.
	ErrInvalidTarget = errors.New("invalid command target")
)
