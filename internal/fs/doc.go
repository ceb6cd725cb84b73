// Package fs abstracts the filesystem for testability and fault injection.
//
// Production code uses [Default] ([OS]). Tests wrap it in a [FaultyFS]
// to make writes, syncs, closes or renames on selected paths fail:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("shard-00002", fs.Fault{FailAfterBytes: 128})
//
// The package has no context.Context parameters: local filesystem calls
// cannot be interrupted at the syscall level.
package fs
