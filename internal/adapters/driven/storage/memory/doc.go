// Package memory provides in-process implementations of the driven ports.
// Nothing is persisted; they back tests and the "memory" store backend.
package memory
