package repository

import "errors"

// ErrNotFound is returned when a record does not exist. Callers that
// treat missing records as a no-op check for it with errors.Is.
var ErrNotFound = errors.New("record not found")
