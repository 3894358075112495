package models

import (
	"errors"
	"fmt"
)

var (
	ErrNetworkFailure = errors.New("network failure")
	ErrParseFailure   = errors.New("parse failure")
)

/*
LoadError describes why the collections payload could not be used. Kind is
one of ErrNetworkFailure or ErrParseFailure, so callers can use errors.Is.
*/
type LoadError struct {
	Kind   error
	Source string
	Cause  error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s loading collections from %s: %v", e.Kind, e.Source, e.Cause)
	}

	return fmt.Sprintf("%s loading collections from %s", e.Kind, e.Source)
}

func (e *LoadError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Cause}
}

func NewNetworkFailure(source string, cause error) *LoadError {
	return &LoadError{Kind: ErrNetworkFailure, Source: source, Cause: cause}
}

func NewParseFailure(source string, cause error) *LoadError {
	return &LoadError{Kind: ErrParseFailure, Source: source, Cause: cause}
}
