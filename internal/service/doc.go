// Package service implements the submission path of the dispatch
// service. Services validate a request, create the durable work-item
// record in its initial state, enqueue an opaque reference to it, and
// return immediately; execution happens out-of-band in the worker
// pool. Record creation always precedes enqueue so a worker can never
// observe a reference with no backing record.
package service
