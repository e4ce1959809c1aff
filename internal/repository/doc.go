// Package repository defines the data access interfaces for poetrydesk.
//
// # Interfaces
//
// Executor is the connection gateway contract: one statement per call, with
// the connection opened and closed inside the call. PersonStore and
// PoemStore are the entity repositories built on top of it.
//
// # SQLite Implementation
//
// The sqlite subpackage implements all three. Its Table type is a generic
// repository parameterized by a table name, a field to column mapping and
// row marshal/unmarshal functions, instantiated once for poets, once for
// critics and once for poems.
//
// # Testing
//
// The sqlite repositories are tested against temporary database files. The
// gateway's close-on-error contract is tested with go-sqlmock.
package repository
