// Package service implements business logic for poetrydesk.
//
// Provisioner creates or opens a project database file under the storage
// directory and returns a Store with the poets, critics and poems
// repositories wired to one gateway.
//
// PeopleService (one per role) and PoemService sit between the CLI or HTTP
// handlers and the repositories: they normalize and validate input, log
// mutations and publish change events on the EventBus. Importer bulk-loads
// a YAML dataset through the same services.
package service
