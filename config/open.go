package config

import (
	"context"
	"fmt"

	"github.com/hupe1980/easystore/disk"
	"github.com/hupe1980/easystore/disk/gcs"
	"github.com/hupe1980/easystore/disk/minio"
	"github.com/hupe1980/easystore/disk/s3"
)

// Open validates c and creates every configured disk.
func (c *Config) Open(ctx context.Context) (*disk.Registry, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	disks := make(map[string]disk.Disk, len(c.Disks))
	for _, name := range c.DiskNames() {
		d, err := c.Disks[name].open(ctx)
		if err != nil {
			return nil, fmt.Errorf("open disk %q: %w", name, err)
		}
		disks[name] = d
	}
	return disk.NewRegistry(disks), nil
}

func (d DiskConfig) open(ctx context.Context) (disk.Disk, error) {
	switch d.Driver {
	case DriverLocal:
		return disk.NewLocalDisk(d.Root, disk.WithBaseURL(d.URL)), nil
	case DriverS3:
		return s3.New(ctx, s3.Config{
			Bucket:       d.Bucket,
			Region:       d.Region,
			Key:          d.Key,
			Secret:       d.Secret,
			Endpoint:     d.Endpoint,
			UsePathStyle: d.UsePathStyle,
			Prefix:       d.Prefix,
			BaseURL:      d.URL,
		})
	case DriverMinio:
		return minio.New(minio.Config{
			Endpoint: d.Endpoint,
			Key:      d.Key,
			Secret:   d.Secret,
			Bucket:   d.Bucket,
			Region:   d.Region,
			UseSSL:   d.Secure,
			Prefix:   d.Prefix,
			BaseURL:  d.URL,
		})
	case DriverGCS:
		return gcs.New(gcs.Config{
			Bucket:   d.Bucket,
			Key:      d.Key,
			Secret:   d.Secret,
			Endpoint: d.Endpoint,
			Prefix:   d.Prefix,
			BaseURL:  d.URL,
		})
	default:
		return nil, fmt.Errorf("unknown driver %q", d.Driver)
	}
}
