// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Compare and AssembleReport are pure functions; Tracker owns the snapshot
// lifecycle and is the only service that performs I/O through the ports.
package services
