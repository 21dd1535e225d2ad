// Package main implements the entry point for the dispatch API
// server, which accepts email notifications and background tasks over
// HTTP and executes them asynchronously through a worker pool.
package main

import (
	"log"
)

func main() {
	app, err := newApplication()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.run(); err != nil {
		log.Fatalf("Application exited with error: %v", err)
	}
}
