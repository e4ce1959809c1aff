// Package domain defines the core types for poetrydesk.
//
// # Core Types
//
// Person is a poet or a critic, keyed by phone number within its role's
// table. Poem links a poet to a critic with an upload timestamp and a text.
// Table is the untyped tabular shape used for list views.
//
// # Validation
//
// Names and phone numbers are checked with regex rules that carry a
// human-readable requirement. Person.Validate and Poem.Validate return a
// *ValidationError listing every failed field.
//
// # Errors
//
// Sentinel errors (ErrPhoneInUse, ErrNotFound, ErrDatabaseNotFound, ...) are
// shared by all layers and matched with errors.Is.
//
// The package has no database or external service dependencies.
package domain
