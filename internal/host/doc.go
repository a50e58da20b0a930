// Package host runs one script inside a fresh Lua runtime.
//
// Ownership boundary:
// - runtime instance lifecycle (one per Run, never reused)
// - argument injection and capability registration
// - trust confirmation before execution
// - networking subsystem bracket around the run
package host
