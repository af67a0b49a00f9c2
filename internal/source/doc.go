// Package source provides the fetch capabilities a view.Controller can be
// built on: an HTTP client for the CV endpoint, a JSON file reader for
// offline use, and an in-memory fetcher. It also provides an opt-in circuit
// breaker middleware and a file watcher that produces refresh ticks.
package source
