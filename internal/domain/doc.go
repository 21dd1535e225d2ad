// Package domain defines the core work-item entities of the dispatch
// service: email notifications and generic background tasks, together
// with their lifecycle rules. All status transitions are enforced here
// so that callers (stores, workers) cannot produce an invalid history.
package domain
