package errors

import (
	"errors"
	"fmt"
)

// SkippedRecordsError lists records a fetch left out because they could not be decoded.
// It comes back together with the records that did decode.
type SkippedRecordsError struct {
	Entity string
	Errs   []error
}

func (e *SkippedRecordsError) Error() string {
	return fmt.Sprintf("%d %s records skipped: %v", len(e.Errs), e.Entity, errors.Join(e.Errs...))
}

func (e *SkippedRecordsError) Unwrap() []error {
	return e.Errs
}

// Skipped returns the SkippedRecordsError in err's chain, or nil.
func Skipped(err error) *SkippedRecordsError {
	var skipped *SkippedRecordsError
	if errors.As(err, &skipped) {
		return skipped
	}
	return nil
}
