package services

import "errors"

// ErrValidation marks requests rejected before any state is mutated
// (missing URL, bad comparison set size). Endpoints map it to a 400.
var ErrValidation = errors.New("validation failed")

// ErrNotFound marks lookups of records the caller cannot see.
var ErrNotFound = errors.New("not found")
