// Package shared holds the request context keys and the JSON request and
// response helpers used by both the handlers and the middleware.
package shared
