// Package handler implements the poetrydesk JSON API.
//
// Routes (see NewRouter):
//
//	GET    /api/poets            list, ?filter=KEYWORD&format=json|yaml|csv|text
//	POST   /api/poets            create
//	DELETE /api/poets            delete all
//	GET    /api/poets/{phone}    fetch one
//	PUT    /api/poets/{phone}    update names and date of birth
//	DELETE /api/poets/{phone}    delete one
//	(the same under /api/critics)
//	GET    /api/poems            list
//	POST   /api/poems            submit
//	DELETE /api/poems            delete all
//	POST   /api/import           YAML dataset upload
//	GET    /api/events           Server-Sent Events change stream
//
// Errors are returned as JSON {error, details, fields}: 400 for invalid
// input, 404 for unknown phone numbers, 409 for duplicates and 500
// otherwise.
package handler
