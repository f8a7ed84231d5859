package broker

import "errors"

// ErrNilModel is returned when a nil model is passed to Insert or Update.
// It is detected before the repository is touched.
var ErrNilModel = errors.New("model must not be nil")

// NotFoundError reports that a referenced record does not exist.
// Entity carries the aggregate name ("Trader", "Equity") for caller-facing
// messaging.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return "no record found for " + e.Entity
}

// RangeError reports an input outside the contract of an operation, such as
// a non-positive identifier or an out-of-window timestamp passed to the raw
// operating-hours check. It is always detected before any repository access.
type RangeError struct {
	Field  string
	Reason string
}

func (e *RangeError) Error() string {
	return e.Field + " out of range: " + e.Reason
}
