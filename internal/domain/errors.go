package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrStore           = errors.New("store failure")
	ErrNetwork         = errors.New("network failure")
)

// InvalidArgumentError is a caller-correctable input fault. Its message is
// returned to the client verbatim.
type InvalidArgumentError struct {
	Field string
	Value string
	msg   string
}

func (e *InvalidArgumentError) Error() string { return e.msg }

func (e *InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

func InvalidLimit(v string) error {
	return &InvalidArgumentError{Field: "limit", Value: v, msg: "Invalid limit value: " + v}
}

func InvalidPage(v string) error {
	return &InvalidArgumentError{Field: "page", Value: v, msg: "Invalid page number: " + v}
}

// StoreError wraps a data-access failure. The cause is for diagnostics only.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }
