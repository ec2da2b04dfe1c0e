package submission

import (
	"errors"
	"strings"

	"alumni/internal/alumni"
)

// ErrDuplicateName means the pre-write name check (or the store) found the name taken.
var ErrDuplicateName = alumni.ErrDuplicateName

// ErrSubmissionFailed wraps transport and store failures during check or create.
var ErrSubmissionFailed = errors.New("failed to save alumni data")

// ErrInFlight is returned when a submission is already running for the form.
var ErrInFlight = errors.New("submission already in progress")

// ValidationError lists required fields left empty and fields holding a
// value outside their allowed set. No network call was made.
type ValidationError struct {
	Fields  []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Fields) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Fields, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid values for: "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}
