// Package errors provides the structured error model used across pipekit:
// machine-readable error codes, detail maps, and cause chaining.
package errors
