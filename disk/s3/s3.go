package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/hupe1980/easystore/disk"
	"golang.org/x/sync/errgroup"
)

// ErrNoPresigner is returned by TemporaryURL when the disk cannot sign URLs.
var ErrNoPresigner = errors.New("s3: no presigner configured")

// deleteBatchSize is the DeleteObjects per-request limit.
const deleteBatchSize = 1000

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

// Disk implements the disk capability set for S3.
type Disk struct {
	client    Client
	presigner Presigner
	uploader  *manager.Uploader
	bucket    string
	prefix    string
	region    string
	baseURL   string
}

// Option configures a Disk.
type Option func(*options)

type options struct {
	prefix    string
	region    string
	baseURL   string
	presigner Presigner
	upload    UploadConfig
}

// WithPrefix prepends rootPrefix to all keys (e.g. "uploads/").
func WithPrefix(rootPrefix string) Option {
	return func(o *options) { o.prefix = rootPrefix }
}

// WithRegion sets the region used to build public URLs.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithBaseURL sets the public URL prefix (CDN or custom domain) returned by URL.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithPresigner enables TemporaryURL.
func WithPresigner(p Presigner) Option {
	return func(o *options) { o.presigner = p }
}

// WithUploadConfig overrides DefaultUploadConfig.
func WithUploadConfig(cfg UploadConfig) Option {
	return func(o *options) { o.upload = cfg }
}

// NewDisk creates a new S3 disk on top of an existing client.
func NewDisk(client Client, bucket string, optFns ...Option) *Disk {
	o := options{upload: DefaultUploadConfig()}
	for _, fn := range optFns {
		fn(&o)
	}
	return &Disk{
		client:    client,
		presigner: o.presigner,
		uploader:  newUploader(client, o.upload),
		bucket:    bucket,
		prefix:    strings.Trim(o.prefix, "/"),
		region:    o.region,
		baseURL:   o.baseURL,
	}
}

// Config holds the connection parameters of an S3 disk.
type Config struct {
	Bucket string
	Region string
	// Key and Secret are static credentials. When empty the default AWS
	// credential chain is used.
	Key    string
	Secret string
	// Endpoint overrides the S3 endpoint (LocalStack, R2, ...).
	Endpoint     string
	UsePathStyle bool
	Prefix       string
	BaseURL      string
}

// New loads the AWS configuration and creates a disk for cfg.Bucket.
func New(ctx context.Context, cfg Config, optFns ...Option) (*Disk, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Key != "" || cfg.Secret != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	opts := []Option{
		WithPrefix(cfg.Prefix),
		WithRegion(awsCfg.Region),
		WithBaseURL(cfg.BaseURL),
		WithPresigner(s3.NewPresignClient(client)),
	}
	return NewDisk(client, cfg.Bucket, append(opts, optFns...)...), nil
}

func (d *Disk) key(name string) string {
	return path.Join(d.prefix, disk.Clean(name))
}

// dirKey returns the listing prefix for a directory ("" for the root).
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
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchKey"
	}
	return false
}

func notFound(key string) error {
	return fmt.Errorf("s3: %s: %w", key, disk.ErrNotFound)
}

// copySource builds the URL-encoded "bucket/key" value CopyObject expects.
func copySource(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return bucket + "/" + strings.Join(segments, "/")
}

func (d *Disk) head(ctx context.Context, key string) (*s3.HeadObjectOutput, error) {
	out, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, notFound(key)
		}
		return nil, err
	}
	return out, nil
}

// Exists reports whether an object or a directory (any key below path/) exists.
func (d *Disk) Exists(ctx context.Context, p string) (bool, error) {
	_, err := d.head(ctx, d.key(p))
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
	out, err := d.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(d.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, err
	}
	return len(out.Contents) > 0, nil
}

func (d *Disk) ReadStream(ctx context.Context, p string) (io.ReadCloser, error) {
	key := d.key(p)
	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, notFound(key)
		}
		return nil, err
	}
	return out.Body, nil
}

func (d *Disk) Get(ctx context.Context, p string) ([]byte, error) {
	body, err := d.ReadStream(ctx, p)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()
	return io.ReadAll(body)
}

func (d *Disk) Put(ctx context.Context, p string, content []byte) error {
	return d.putBytes(ctx, d.key(p), content)
}

func (d *Disk) putBytes(ctx context.Context, key string, content []byte) error {
	contentType, body, err := disk.SniffContentType(bytes.NewReader(content))
	if err != nil {
		return err
	}
	_, err = d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(d.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(int64(len(content))),
		ContentType:   aws.String(contentType),
	})
	return err
}

func (d *Disk) Delete(ctx context.Context, p string) error {
	_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.key(p)),
	})
	return err
}

// Files lists the objects directly below dir.
func (d *Disk) Files(ctx context.Context, dir string) ([]string, error) {
	prefix := d.dirKey(dir)
	var files []string

	paginator := s3.NewListObjectsV2Paginator(d.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(d.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			// Skip the zero-byte directory marker itself.
			if key == prefix || strings.HasSuffix(key, "/") {
				continue
			}
			files = append(files, d.rel(key))
		}
	}
	return files, nil
}

func (d *Disk) listAll(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(d.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(d.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

func (d *Disk) Copy(ctx context.Context, src, dst string) error {
	srcKey := d.key(src)
	_, err := d.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(d.bucket),
		Key:        aws.String(d.key(dst)),
		CopySource: aws.String(copySource(d.bucket, srcKey)),
	})
	if err != nil && isNotFound(err) {
		return notFound(srcKey)
	}
	return err
}

func (d *Disk) Move(ctx context.Context, from, to string) error {
	if err := d.Copy(ctx, from, to); err != nil {
		return err
	}
	return d.Delete(ctx, from)
}

// URL returns the public URL of p: the configured base URL, or the
// virtual-hosted S3 endpoint of the bucket.
func (d *Disk) URL(_ context.Context, p string) (string, error) {
	key := d.key(p)
	if d.baseURL != "" {
		return url.JoinPath(d.baseURL, key)
	}
	host := d.bucket + ".s3.amazonaws.com"
	if d.region != "" {
		host = fmt.Sprintf("%s.s3.%s.amazonaws.com", d.bucket, d.region)
	}
	u := url.URL{Scheme: "https", Host: host, Path: "/" + key}
	return u.String(), nil
}

func (d *Disk) TemporaryURL(ctx context.Context, p string, ttl time.Duration) (string, error) {
	if d.presigner == nil {
		return "", ErrNoPresigner
	}
	req, err := d.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.key(p)),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (d *Disk) Metadata(ctx context.Context, p string) (*disk.Metadata, error) {
	out, err := d.head(ctx, d.key(p))
	if err != nil {
		return nil, err
	}
	return &disk.Metadata{
		Path:         disk.Clean(p),
		Size:         aws.ToInt64(out.ContentLength),
		LastModified: aws.ToTime(out.LastModified),
		MimeType:     aws.ToString(out.ContentType),
		ETag:         strings.Trim(aws.ToString(out.ETag), `"`),
		Attributes:   out.Metadata,
	}, nil
}

// SetMetadata replaces the user metadata of p with an in-place copy.
func (d *Disk) SetMetadata(ctx context.Context, p string, attrs map[string]string) error {
	key := d.key(p)
	head, err := d.head(ctx, key)
	if err != nil {
		return err
	}
	_, err = d.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:            aws.String(d.bucket),
		Key:               aws.String(key),
		CopySource:        aws.String(copySource(d.bucket, key)),
		MetadataDirective: types.MetadataDirectiveReplace,
		Metadata:          attrs,
		ContentType:       head.ContentType,
	})
	return err
}

func (d *Disk) MimeType(ctx context.Context, p string) (string, error) {
	out, err := d.head(ctx, d.key(p))
	if err != nil {
		return "", err
	}
	return aws.ToString(out.ContentType), nil
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
	return d.putBytes(ctx, d.key(p), disk.JoinContent(existing, existed, data, prepend))
}

// MakeDirectory writes a zero-byte "dir/" marker object.
func (d *Disk) MakeDirectory(ctx context.Context, p string) error {
	prefix := d.dirKey(p)
	if prefix == "" {
		return nil
	}
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(d.bucket),
		Key:           aws.String(prefix),
		Body:          bytes.NewReader(nil),
		ContentLength: aws.Int64(0),
	})
	return err
}

// DeleteDirectory removes every object below p in batches of 1000 keys.
func (d *Disk) DeleteDirectory(ctx context.Context, p string) error {
	if disk.Clean(p) == "" {
		return disk.ErrRootDirectory
	}
	keys, err := d.listAll(ctx, d.dirKey(p))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for start := 0; start < len(keys); start += deleteBatchSize {
		batch := keys[start:min(start+deleteBatchSize, len(keys))]
		g.Go(func() error {
			objects := make([]types.ObjectIdentifier, len(batch))
			for i, k := range batch {
				objects[i] = types.ObjectIdentifier{Key: aws.String(k)}
			}
			out, err := d.client.DeleteObjects(gctx, &s3.DeleteObjectsInput{
				Bucket: aws.String(d.bucket),
				Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
			})
			if err != nil {
				return err
			}
			if len(out.Errors) > 0 {
				e := out.Errors[0]
				return fmt.Errorf("s3: delete %s: %s", aws.ToString(e.Key), aws.ToString(e.Message))
			}
			return nil
		})
	}
	return g.Wait()
}
