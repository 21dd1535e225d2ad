// Package api contains the HTTP handlers for the dispatch service.
// Handlers are thin: they decode and validate requests, call the
// service layer, and translate results and errors into JSON responses.
// Submissions return 202 Accepted because execution happens
// asynchronously; the submission response is the last direct word the
// caller gets, everything after is observable only via status reads.
package api
