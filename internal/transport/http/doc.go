// Package http contains the HTTP handlers of the analytics API. Each
// handler owns its routes, validates its payloads, and delegates to the
// service layer; pipeline state never outlives a request.
package http
