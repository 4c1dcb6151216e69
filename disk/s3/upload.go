package s3

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/easystore/disk"
)

// UploadConfig tunes the multipart uploader behind PutFileAs.
// Zero fields keep the SDK defaults.
type UploadConfig struct {
	// PartSize is the size of each uploaded part; bodies smaller than one part
	// go out as a single PutObject.
	PartSize int64
	// Concurrency is the number of parts in flight per upload.
	Concurrency int
	// LeavePartsOnError keeps the parts of a failed multipart upload instead
	// of aborting it.
	LeavePartsOnError bool
}

// DefaultUploadConfig uses 8 MiB parts, five at a time.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		PartSize:    8 << 20,
		Concurrency: 5,
	}
}

func newUploader(client Client, cfg UploadConfig) *manager.Uploader {
	return manager.NewUploader(client, func(u *manager.Uploader) {
		if cfg.PartSize > 0 {
			u.PartSize = cfg.PartSize
		}
		if cfg.Concurrency > 0 {
			u.Concurrency = cfg.Concurrency
		}
		u.LeavePartsOnError = cfg.LeavePartsOnError
	})
}

// PutFileAs streams body to dir/name. The body length need not be known, so
// uploads of any size go through the multipart uploader.
func (d *Disk) PutFileAs(ctx context.Context, dir string, body io.Reader, name string) (string, error) {
	stored := disk.Join(dir, name)
	contentType, r, err := disk.SniffContentType(body)
	if err != nil {
		return "", err
	}
	if _, err := d.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(d.key(stored)),
		Body:        r,
		ContentType: aws.String(contentType),
	}); err != nil {
		return "", err
	}
	return stored, nil
}
