// Package titleindex maps document titles and redirect aliases to stable
// document identifiers.
//
// # Normalization
//
// Link text in extracted markup varies in spelling from the canonical title,
// so every lookup goes through Normalize, which applies a fixed policy:
//
//  1. drop a "#fragment" suffix
//  2. replace underscores with spaces
//  3. Unicode NFC composition
//  4. collapse whitespace runs to a single space and trim
//  5. drop one leading ':' (escaped namespace links)
//  6. uppercase the first rune
//
// The rest of the title is matched exactly. WithCaseInsensitive additionally
// applies full Unicode case folding to every key.
//
// # Collisions
//
// Documents are indexed in ascending ID order and the first writer wins, so
// the lowest ID claims a contested title regardless of input order. Aliases
// never displace a document title. Every collision is logged and reported.
package titleindex
