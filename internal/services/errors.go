package services

import (
  "errors"
  "fmt"
)

// Request-level error taxonomy. Services wrap these with fmt.Errorf("...: %w")
// so handlers can map them to HTTP statuses with errors.Is. Duplicate-key
// conflicts from races are recovered inside the services and never escape.
var (
  ErrNotFound   = errors.New("not found")
  ErrValidation = errors.New("validation failed")
  ErrForbidden  = errors.New("forbidden")
)

func notFoundf(format string, args ...interface{}) error {
  return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

func validationf(format string, args ...interface{}) error {
  return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}
