// Package erruser provides errors whose Error() is a plain user-facing
// message; the technical cause stays behind Unwrap() for a Details line.
package erruser

import "errors"

// Err pairs a user-facing message with an optional cause. Error() returns
// only Msg, so the primary output line never leaks command names or exit
// codes; the CLI prints the cause separately via Unwrap.
type Err struct {
	Msg string
	Err error
}

// Error returns the user-facing message only.
func (e *Err) Error() string {
	if e == nil {
		return ""
	}
	return e.Msg
}

// Unwrap returns the underlying cause, if any. Safe on a nil receiver.
func (e *Err) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New returns an error carrying the given user-facing message. A non-nil
// err is kept as the cause; with a nil err the result is a plain error with
// no Unwrap.
func New(msg string, err error) error {
	if err == nil {
		return errors.New(msg)
	}
	return &Err{Msg: msg, Err: err}
}
