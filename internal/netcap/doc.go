// Package netcap is the native networking capability bridge exposed to
// scripts.
//
// Ownership boundary:
// - networking subsystem lifecycle (NotStarted -> Started -> Stopped)
// - socket handles and their Created -> Connected -> Closed lifecycle
// - conversion of OS failures into false/absent results plus diagnostics
//
// Contracts fixed by this package:
// - Send delivers the whole buffer; partial writes are continued and a
//   zero-byte write is reported as a failure.
// - Close on an already closed handle is a no-op that returns false.
// - MakeAddress accepts numeric IP literals only and rejects anything it
//   cannot convert instead of producing a zero address.
package netcap
