package simulation

import "errors"

var (
	// ErrNumericDefect reports a NaN or infinity headed for a persisted column
	ErrNumericDefect = errors.New("numeric defect")
	// ErrInvariantViolation reports generated data failing a table invariant
	ErrInvariantViolation = errors.New("invariant violation")
)
