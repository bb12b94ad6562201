package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by a service matches exactly one of
// these through errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrPermission   = errors.New("permission denied")
	ErrConflict     = errors.New("already exists")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrStore        = errors.New("store failure")
)

// FieldError points at one offending input field. Index is the row of the
// collection the field belongs to, or -1 for top-level fields.
type FieldError struct {
	Field   string `json:"field"`
	Index   int    `json:"index"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

func (f FieldError) Path() string {
	if f.Index < 0 {
		return f.Field
	}
	if f.Name == "" {
		return fmt.Sprintf("%s[%d]", f.Field, f.Index)
	}
	return fmt.Sprintf("%s[%d].%s", f.Field, f.Index, f.Name)
}

type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Path()+": "+f.Message)
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Has reports whether the error carries a message for the given path,
// e.g. "ingredients[1].amount".
func (e *ValidationError) Has(path string) bool {
	for _, f := range e.Fields {
		if f.Path() == path {
			return true
		}
	}
	return false
}

func NewFieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Index: -1, Message: message}}}
}

func NewRowError(field string, index int, name, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Index: index, Name: name, Message: message}}}
}

type storeError struct {
	err error
}

func (e *storeError) Error() string        { return "store failure: " + e.err.Error() }
func (e *storeError) Unwrap() error        { return e.err }
func (e *storeError) Is(target error) bool { return target == ErrStore }

// StoreError marks err as a fatal failure of the backing store. Errors that
// already carry a kind are returned unchanged.
func StoreError(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range []error{ErrValidation, ErrPermission, ErrConflict, ErrNotFound, ErrUnauthorized, ErrStore} {
		if errors.Is(err, kind) {
			return err
		}
	}
	return &storeError{err: err}
}
