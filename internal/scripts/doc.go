// Package scripts owns script discovery for the voidtools host.
//
// Ownership boundary:
// - canonical suffix and managed scripts directory conventions
// - identifier resolution (locator)
// - managed directory listing (catalog)
package scripts
