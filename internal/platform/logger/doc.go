// Package logger provides structured logging setup for the application
// and helpers for carrying a logger through a context.Context.
package logger
