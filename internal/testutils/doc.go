// Package testutils provides in-memory store implementations, a fake
// mail sender, and logging helpers shared by the package tests.
package testutils
