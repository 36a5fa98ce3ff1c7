//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package chart

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedInput = errors.New("malformed dataset payload")
	ErrNoSurface      = errors.New("display surface does not exist")
	ErrNotInitialized = errors.New("chart has not been initialized")
	ErrNoSuchPoint    = errors.New("no such point")
)

// MalformedInputError - the payload handed to AddDataset could not be used; the session was not touched
type MalformedInputError struct {
	Reason string
	Err    error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrMalformedInput, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedInput, e.Reason)
}

func (e *MalformedInputError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedInput}
	}
	return []error{ErrMalformedInput, e.Err}
}

func malformed(reason string, err error) error {
	return &MalformedInputError{Reason: reason, Err: err}
}

// PreconditionViolation - an operation was called on a session that cannot accept it
type PreconditionViolation struct {
	Op  string
	Err error
}

func (e *PreconditionViolation) Error() string {
	return fmt.Sprintf("%s(): %v", e.Op, e.Err)
}

func (e *PreconditionViolation) Unwrap() error {
	return e.Err
}
