package domain

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors shared by the repository, service and presentation layers.
// Callers match them with errors.Is.
var (
	// ErrValidation marks input rejected before it reaches the data layer
	ErrValidation = errors.New("validation failed")

	// ErrPhoneInUse is returned by Save when the phone number is already taken
	ErrPhoneInUse = errors.New("phone number already in use")

	// ErrPoemExists is returned when a poem blocking the insert already exists
	ErrPoemExists = errors.New("poem already exists")

	// ErrNotFound is returned by single-row lookups that match nothing
	ErrNotFound = errors.New("not found")

	// ErrNoColumns is returned when a row fetch yields a result without columns
	ErrNoColumns = errors.New("result set has no columns")

	// ErrInvalidDatabaseName rejects database names outside the allowed pattern
	ErrInvalidDatabaseName = errors.New("invalid database name")

	// ErrDatabaseExists is returned when creating over an existing database file
	ErrDatabaseExists = errors.New("database already exists")

	// ErrDatabaseNotFound is returned when opening a database file that is missing
	ErrDatabaseNotFound = errors.New("database does not exist")
)

// ValidationError collects every failed field of a single input.
// Fields maps a field name to the human-readable requirement it violated.
type ValidationError struct {
	Fields map[string]string
}

// Add records a failed field
func (e *ValidationError) Add(field, requirement string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = requirement
}

// HasErrors reports whether any field failed
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Error lists the failed fields in a stable order
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is(err, ErrValidation) match
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// OrNil returns nil when no field failed, so callers can return it directly
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}
