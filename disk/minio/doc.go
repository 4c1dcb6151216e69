// Package minio provides a disk implementation for MinIO and other
// S3-compatible object stores reached through minio-go.
//
// # Usage
//
//	d, err := minio.New(minio.Config{
//	    Endpoint: "localhost:9000",
//	    Key:      "minioadmin",
//	    Secret:   "minioadmin",
//	    Bucket:   "uploads",
//	})
//
// Directories are emulated with zero-byte "dir/" marker objects.
package minio
