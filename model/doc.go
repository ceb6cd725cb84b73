// Package model defines the core record types used throughout linkweave.
//
// # Identity Types
//
//   - ID: Stable, corpus-wide document identifier (uint64)
//
// # Data Types
//
//   - Document: One extracted article with its raw outgoing link titles
//   - Redirect: A title alias pointing at another title
//
// Documents are immutable once produced by the upstream extraction stage.
// Packages pass them by value and never mutate the OutgoingTitles slice.
package model
