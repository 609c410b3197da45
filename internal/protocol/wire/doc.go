// Package wire owns the relay wire contract and parsing primitives.
//
// Ownership boundary:
// - request-line reading and validation
// - fixed-width response frame encode/decode
package wire
