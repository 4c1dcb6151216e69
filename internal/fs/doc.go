// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: Represents an open file with read/write/sync capabilities
//   - [FileSystem]: Abstracts filesystem operations (open, remove, rename, etc.)
//
// # Implementations
//
//   - [LocalFS]: Production implementation using standard os package
//   - [FaultyFS]: Test utility for fault injection (simulate I/O errors)
//
// The local disk driver reads and writes exclusively through a [FileSystem],
// so tests can turn any of its operations into a backend failure:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("reports/", fs.Fault{FailOnOpen: true})
//	d := disk.NewLocalDisk(root, disk.WithFileSystem(ffs))
//
// This package intentionally does NOT include context.Context parameters.
// Local filesystem calls are not interruptible at the syscall level.
package fs
