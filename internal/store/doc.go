// Package store defines the persistence interfaces for work-item
// records and the common error values shared by all implementations.
// Concrete backends live under internal/platform.
package store
