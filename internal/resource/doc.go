// Package resource enforces process-wide limits shared by concurrent runs.
//
//   - Run slots: a weighted semaphore bounding how many traversal runs
//     execute at once against one Resolved Graph.
//   - Shard I/O: a token bucket capping bytes per second written to the
//     blob store, so a dataset export does not saturate a shared disk or
//     network link.
//
// All methods are safe for concurrent use, and a nil *Controller is valid
// and imposes no limits.
package resource
