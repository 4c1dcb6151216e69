// Package gcs provides a Google Cloud Storage disk through the
// S3-interoperable XML API. Authentication uses HMAC keys created for a
// service account in the Cloud Storage interoperability settings.
package gcs

import (
	"errors"

	"github.com/hupe1980/easystore/disk/minio"
)

// DefaultEndpoint is the host of the Cloud Storage XML API.
const DefaultEndpoint = "storage.googleapis.com"

// Config holds the connection parameters of a GCS disk.
type Config struct {
	Bucket string
	// Key and Secret are the HMAC access id and secret.
	Key    string
	Secret string
	// Endpoint overrides DefaultEndpoint (emulators, private service connect).
	Endpoint string
	// Insecure disables TLS; only useful against local emulators.
	Insecure bool
	Prefix   string
	BaseURL  string
}

// New creates a disk backed by a GCS bucket.
func New(cfg Config) (*minio.Disk, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("gcs: bucket is required")
	}
	if cfg.Key == "" || cfg.Secret == "" {
		return nil, errors.New("gcs: hmac key and secret are required")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return minio.New(minio.Config{
		Endpoint: endpoint,
		Key:      cfg.Key,
		Secret:   cfg.Secret,
		Bucket:   cfg.Bucket,
		// GCS ignores the region, "auto" skips minio-go's bucket location lookup.
		Region:  "auto",
		UseSSL:  !cfg.Insecure,
		Prefix:  cfg.Prefix,
		BaseURL: cfg.BaseURL,
	})
}
