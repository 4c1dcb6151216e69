// Package s3 provides an Amazon S3 implementation of the disk capability set.
//
// # Usage
//
//	d, err := s3.New(ctx, s3.Config{
//	    Bucket: "my-bucket",
//	    Region: "eu-central-1",
//	    Prefix: "uploads/",
//	})
//
//	reg := disk.NewRegistry(map[string]disk.Disk{"s3": d})
//
// # Features
//
//   - Multipart uploads through the SDK upload manager
//   - Server-side copy for copy, move and metadata replacement
//   - Presigned GET URLs for temporary access
//   - Batched, concurrent deletes for directory removal
//   - Configurable prefix for multi-tenant isolation
package s3
