// Package postgres provides PostgreSQL implementations of the store
// interfaces defined in internal/store. All stores accept a store.DBTX
// so they work with either a connection pool or a transaction.
package postgres
