// Package types defines the Go types shared by the loader, the analytics
// engine, the alert evaluator and the HTTP layer. These are the canonical
// in-memory representations of recruitment data, separate from the JSON
// label vocabulary of the input snapshot.
package types
