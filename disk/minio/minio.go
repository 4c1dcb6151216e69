package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/hupe1980/easystore/disk"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	_ disk.Disk                 = (*Disk)(nil)
	_ disk.Copier               = (*Disk)(nil)
	_ disk.Mover                = (*Disk)(nil)
	_ disk.URLResolver          = (*Disk)(nil)
	_ disk.TemporaryURLResolver = (*Disk)(nil)
	_ disk.MetadataReader       = (*Disk)(nil)
	_ disk.MetadataWriter       = (*Disk)(nil)
	_ disk.Prepender            = (*Disk)(nil)
	_ disk.Appender             = (*Disk)(nil)
	_ disk.DirectoryMaker       = (*Disk)(nil)
	_ disk.DirectoryDeleter     = (*Disk)(nil)
	_ disk.MimeTyper            = (*Disk)(nil)
)

// Disk implements the disk capability set for MinIO and S3-compatible storage.
type Disk struct {
	client  *minio.Client
	bucket  string
	prefix  string
	baseURL string
}

// Option configures a Disk.
type Option func(*Disk)

// WithPrefix prepends rootPrefix to all keys (e.g. "uploads/").
func WithPrefix(rootPrefix string) Option {
	return func(d *Disk) { d.prefix = strings.Trim(rootPrefix, "/") }
}

// WithBaseURL sets the public URL prefix returned by URL.
func WithBaseURL(baseURL string) Option {
	return func(d *Disk) { d.baseURL = baseURL }
}

// NewDisk creates a new MinIO disk.
func NewDisk(client *minio.Client, bucket string, optFns ...Option) *Disk {
	d := &Disk{client: client, bucket: bucket}
	for _, fn := range optFns {
		fn(d)
	}
	return d
}

// Config holds the connection parameters of a MinIO disk.
type Config struct {
	Endpoint string
	Key      string
	Secret   string
	Bucket   string
	Region   string
	UseSSL   bool
	Prefix   string
	BaseURL  string
}

// New creates a minio-go client for cfg and wraps it in a Disk.
func New(cfg Config) (*Disk, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("minio: endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("minio: bucket is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Key, cfg.Secret, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: %w", err)
	}
	return NewDisk(client, cfg.Bucket, WithPrefix(cfg.Prefix), WithBaseURL(cfg.BaseURL)), nil
}

// Client returns the underlying minio-go client.
func (d *Disk) Client() *minio.Client { return d.client }

// Bucket returns the bucket the disk writes to.
func (d *Disk) Bucket() string { return d.bucket }

func (d *Disk) key(name string) string {
	return path.Join(d.prefix, disk.Clean(name))
}

func (d *Disk) dirKey(dir string) string {
	k := d.key(dir)
	if k == "" {
		return ""
	}
	return k + "/"
}

func (d *Disk) rel(key string) string {
	if d.prefix == "" {
		return key
	}
	return strings.TrimPrefix(strings.TrimPrefix(key, d.prefix), "/")
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}

func (d *Disk) wrap(key string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("minio: %s: %w", key, disk.ErrNotFound)
	}
	return err
}

func (d *Disk) stat(ctx context.Context, key string) (minio.ObjectInfo, error) {
	info, err := d.client.StatObject(ctx, d.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return info, d.wrap(key, err)
	}
	return info, nil
}

func (d *Disk) Exists(ctx context.Context, p string) (bool, error) {
	_, err := d.stat(ctx, d.key(p))
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, disk.ErrNotFound) {
		return false, err
	}

	prefix := d.dirKey(p)
	if prefix == "" {
		return true, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	for obj := range d.client.ListObjects(ctx, d.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
		MaxKeys:   1,
	}) {
		if obj.Err != nil {
			return false, obj.Err
		}
		return true, nil
	}
	return false, nil
}

func (d *Disk) ReadStream(ctx context.Context, p string) (io.ReadCloser, error) {
	key := d.key(p)
	obj, err := d.client.GetObject(ctx, d.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, d.wrap(key, err)
	}
	// GetObject is lazy; Stat surfaces a missing key before the caller reads.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, d.wrap(key, err)
	}
	return obj, nil
}

func (d *Disk) Get(ctx context.Context, p string) ([]byte, error) {
	r, err := d.ReadStream(ctx, p)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}

func (d *Disk) Put(ctx context.Context, p string, content []byte) error {
	return d.put(ctx, d.key(p), bytes.NewReader(content), int64(len(content)))
}

func (d *Disk) put(ctx context.Context, key string, body io.Reader, size int64) error {
	contentType, r, err := disk.SniffContentType(body)
	if err != nil {
		return err
	}
	_, err = d.client.PutObject(ctx, d.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (d *Disk) PutFileAs(ctx context.Context, dir string, body io.Reader, name string) (string, error) {
	stored := disk.Join(dir, name)
	if err := d.put(ctx, d.key(stored), body, -1); err != nil {
		return "", err
	}
	return stored, nil
}

func (d *Disk) Delete(ctx context.Context, p string) error {
	key := d.key(p)
	err := d.client.RemoveObject(ctx, d.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil // Already gone
		}
		return err
	}
	return nil
}

// Files lists the objects directly below dir.
func (d *Disk) Files(ctx context.Context, dir string) ([]string, error) {
	var names []string
	for obj := range d.client.ListObjects(ctx, d.bucket, minio.ListObjectsOptions{
		Prefix:    d.dirKey(dir),
		Recursive: false,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		// Common prefixes and directory markers end in a slash.
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		names = append(names, d.rel(obj.Key))
	}

	sort.Strings(names)
	return names, nil
}

func (d *Disk) Copy(ctx context.Context, src, dst string) error {
	srcKey := d.key(src)
	_, err := d.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: d.bucket, Object: d.key(dst)},
		minio.CopySrcOptions{Bucket: d.bucket, Object: srcKey},
	)
	if err != nil {
		return d.wrap(srcKey, err)
	}
	return nil
}

func (d *Disk) Move(ctx context.Context, from, to string) error {
	if err := d.Copy(ctx, from, to); err != nil {
		return err
	}
	return d.Delete(ctx, from)
}

// URL returns the configured base URL joined with the key, or the
// path-style URL of the object on the client endpoint.
func (d *Disk) URL(_ context.Context, p string) (string, error) {
	key := d.key(p)
	if d.baseURL != "" {
		return url.JoinPath(d.baseURL, key)
	}
	return d.client.EndpointURL().JoinPath(d.bucket, key).String(), nil
}

func (d *Disk) TemporaryURL(ctx context.Context, p string, ttl time.Duration) (string, error) {
	u, err := d.client.PresignedGetObject(ctx, d.bucket, d.key(p), ttl, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (d *Disk) Metadata(ctx context.Context, p string) (*disk.Metadata, error) {
	info, err := d.stat(ctx, d.key(p))
	if err != nil {
		return nil, err
	}
	return &disk.Metadata{
		Path:         disk.Clean(p),
		Size:         info.Size,
		LastModified: info.LastModified,
		MimeType:     info.ContentType,
		ETag:         info.ETag,
		Attributes:   info.UserMetadata,
	}, nil
}

// SetMetadata replaces the user metadata of p with an in-place copy.
func (d *Disk) SetMetadata(ctx context.Context, p string, attrs map[string]string) error {
	key := d.key(p)
	info, err := d.stat(ctx, key)
	if err != nil {
		return err
	}
	meta := make(map[string]string, len(attrs)+1)
	for k, v := range attrs {
		meta[k] = v
	}
	if info.ContentType != "" {
		meta["Content-Type"] = info.ContentType
	}
	_, err = d.client.CopyObject(ctx,
		minio.CopyDestOptions{
			Bucket:          d.bucket,
			Object:          key,
			ReplaceMetadata: true,
			UserMetadata:    meta,
		},
		minio.CopySrcOptions{Bucket: d.bucket, Object: key},
	)
	return d.wrap(key, err)
}

func (d *Disk) MimeType(ctx context.Context, p string) (string, error) {
	info, err := d.stat(ctx, d.key(p))
	if err != nil {
		return "", err
	}
	return info.ContentType, nil
}

func (d *Disk) Prepend(ctx context.Context, p, data string) error {
	return d.join(ctx, p, data, true)
}

func (d *Disk) Append(ctx context.Context, p, data string) error {
	return d.join(ctx, p, data, false)
}

func (d *Disk) join(ctx context.Context, p, data string, prepend bool) error {
	existing, err := d.Get(ctx, p)
	existed := err == nil
	if err != nil && !errors.Is(err, disk.ErrNotFound) {
		return err
	}
	return d.Put(ctx, p, disk.JoinContent(existing, existed, data, prepend))
}

func (d *Disk) MakeDirectory(ctx context.Context, p string) error {
	prefix := d.dirKey(p)
	if prefix == "" {
		return nil
	}
	_, err := d.client.PutObject(ctx, d.bucket, prefix, bytes.NewReader(nil), 0, minio.PutObjectOptions{})
	return err
}

// DeleteDirectory removes every object below p.
func (d *Disk) DeleteDirectory(ctx context.Context, p string) error {
	if disk.Clean(p) == "" {
		return disk.ErrRootDirectory
	}

	objects := d.client.ListObjects(ctx, d.bucket, minio.ListObjectsOptions{
		Prefix:    d.dirKey(p),
		Recursive: true,
	})

	var errs []error
	for rerr := range d.client.RemoveObjects(ctx, d.bucket, objects, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("minio: delete %s: %w", rerr.ObjectName, rerr.Err))
	}
	return errors.Join(errs...)
}
