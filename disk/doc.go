// Package disk defines the capability sets storage drivers expose and the
// registry that maps disk names to drivers.
//
// Every driver implements [Disk]. Optional operations are separate one-method
// interfaces ([Copier], [Mover], [URLResolver], [MetadataReader], ...), so a
// driver's capability set is checked by the compiler:
//
//	var _ disk.Copier = (*LocalDisk)(nil)
//
// [Supports] and [Capabilities] answer the same question at runtime for code
// that dispatches by operation name.
//
// # Built-in Implementations
//
//   - LocalDisk: Local filesystem rooted at a directory
//   - MemoryDisk: In-memory disk for tests
//   - s3.Disk: Amazon S3 (aws-sdk-go-v2)
//   - minio.Disk: Any S3-compatible store (minio-go)
//   - gcs: Google Cloud Storage through its S3-interoperable API
//
// # Paths
//
// Disk paths always use forward slashes and are relative to the disk root.
// Leading slashes and dot segments are removed by [Clean], so a path can never
// address anything outside the root.
package disk
