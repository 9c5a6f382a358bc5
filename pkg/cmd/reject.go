package cmd

import (
	"errors"
	"fmt"
)

// Rejection is returned by a command that declined to act on its input.
// It is not a failure: nothing went wrong, the request just did not qualify.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string { return "rejected: " + r.Reason }

// Reject builds a Rejection.
func Reject(format string, args ...any) error {
	return &Rejection{Reason: fmt.Sprintf(format, args...)}
}

// AsRejection reports whether err is, or wraps, a Rejection and returns its reason.
func AsRejection(err error) (string, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Reason, true
	}
	return "", false
}
