// Package api implements the HTTP handlers of the bucket list service:
// registration and login, and owner-scoped CRUD over bucket lists and
// their items.
//
// Request bodies are decoded into tagged structs and checked by a single
// validator (decodeAndValidate). Failures become 400 responses whose error
// is a map of field name to messages. Service and store errors are mapped
// to status codes in one place (MapErrorToStatusCode, handleMutationError,
// handleReadError) so handlers stay free of error plumbing.
package api
