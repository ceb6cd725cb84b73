// Package assemble turns a traversal order into dataset shards.
//
// For every document in order the Assembler rewrites in-text links:
//
//	[label](Target Title)   markdown link
//	[[Target Title|label]]  wiki link
//	[[Target Title]]        wiki link, label = title
//
// A link becomes [label](doc:<id>) when its target resolves through the
// Title Index, the Resolved Graph holds the edge, and the ReferencePolicy
// allows the target. Any other internal link is replaced by its label, so
// the output never carries a dangling reference. External links
// (scheme://..., mailto:) are copied verbatim.
//
// Documents are appended to the current shard until the next one would
// exceed the token or document budget. A document that alone exceeds the
// token budget gets a shard of its own.
package assemble
