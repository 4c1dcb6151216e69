package easystore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/hupe1980/easystore/disk"
)

// File is an upload source: the file name the client sent and its content.
type File struct {
	Name string
	Body io.Reader
}

// Download is an open file ready to be streamed to a client.
// The caller must close Body.
type Download struct {
	// Name is the base name to offer the client.
	Name string
	// Path is the path on the disk.
	Path string
	// MimeType is detected on a best effort basis and may be
	// "application/octet-stream".
	MimeType string
	Body     io.ReadCloser
}

// Upload stores f in dir under its client file name. When that name is
// taken, a numeric suffix is added before the extension, starting at 1 and
// counting up until a free name is found: report.pdf, report_1.pdf,
// report_2.pdf and so on.
//
// It returns the stored path, or "" when the failure policy swallowed an error.
func (d *Dispatcher) Upload(ctx context.Context, f File, dir string) (string, error) {
	name := d.defaultDisk
	dk, err := d.ResolveDisk(name)
	if err != nil {
		return "", err
	}

	base := path.Base(disk.Clean(f.Name))
	if base == "." || base == "" {
		return "", d.fail(ctx, &OperationError{
			Disk:  name,
			Op:    disk.OpPutFileAs,
			cause: &ArgumentError{Op: disk.OpPutFileAs, Reason: fmt.Sprintf("invalid client file name %q", f.Name)},
		})
	}

	target, ok, err := d.uniqueName(ctx, name, dk, dir, base)
	if err != nil || !ok {
		return "", err
	}
	res, err := d.call(ctx, name, dk, disk.OpPutFileAs, []any{dir, f.Body, target})
	return as[string](ctx, d, name, disk.OpPutFileAs, res, err)
}

// uniqueName returns the first free variant of base in dir. ok is false when
// an existence check failed and the policy swallowed the error.
func (d *Dispatcher) uniqueName(ctx context.Context, name string, dk disk.Disk, dir, base string) (string, bool, error) {
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	candidate := base
	for n := 1; ; n++ {
		res, err := d.call(ctx, name, dk, disk.OpExists, []any{disk.Join(dir, candidate)})
		if err != nil {
			return "", false, err
		}
		exists, ok := res.(bool)
		if !ok {
			return "", false, nil
		}
		if !exists {
			return candidate, true, nil
		}
		candidate = fmt.Sprintf("%s_%d%s", stem, n, ext)
	}
}

// UploadAs stores f in dir under name, replacing any existing file.
func (d *Dispatcher) UploadAs(ctx context.Context, f File, dir, name string) (string, error) {
	return invokeAs[string](ctx, d, disk.OpPutFileAs, dir, f.Body, name)
}

// Download opens p for streaming. A missing file is reported as a
// *NotFoundError whatever the failure policy says; the existence check runs
// before any transfer starts.
func (d *Dispatcher) Download(ctx context.Context, p string) (*Download, error) {
	name := d.defaultDisk
	dk, err := d.ResolveDisk(name)
	if err != nil {
		return nil, err
	}

	res, err := d.call(ctx, name, dk, disk.OpExists, []any{p})
	if err != nil {
		return nil, err
	}
	exists, ok := res.(bool)
	if !ok {
		return nil, nil
	}
	if !exists {
		return nil, &NotFoundError{Disk: name, Path: p}
	}

	res, err = d.call(ctx, name, dk, disk.OpReadStream, []any{p})
	body, err := as[io.ReadCloser](ctx, d, name, disk.OpReadStream, res, err)
	if err != nil || body == nil {
		return nil, err
	}

	mimeType := "application/octet-stream"
	if mt, ok := dk.(disk.MimeTyper); ok {
		if v, err := mt.MimeType(ctx, p); err == nil && v != "" {
			mimeType = v
		}
	}

	return &Download{
		Name:     path.Base(disk.Clean(p)),
		Path:     disk.Clean(p),
		MimeType: mimeType,
		Body:     body,
	}, nil
}

// URL returns the public URL of p.
func (d *Dispatcher) URL(ctx context.Context, p string) (string, error) {
	return invokeAs[string](ctx, d, disk.OpURL, p)
}

// TemporaryURL returns a URL to p that expires after ttl.
func (d *Dispatcher) TemporaryURL(ctx context.Context, p string, ttl time.Duration) (string, error) {
	return invokeAs[string](ctx, d, disk.OpTemporaryURL, p, ttl)
}

// Delete removes p. Deleting a missing file succeeds.
func (d *Dispatcher) Delete(ctx context.Context, p string) (bool, error) {
	return invokeAs[bool](ctx, d, disk.OpDelete, p)
}

// Exists reports whether p exists.
func (d *Dispatcher) Exists(ctx context.Context, p string) (bool, error) {
	return invokeAs[bool](ctx, d, disk.OpExists, p)
}

// Metadata returns size, modification time, MIME type and attributes of p.
func (d *Dispatcher) Metadata(ctx context.Context, p string) (*disk.Metadata, error) {
	return invokeAs[*disk.Metadata](ctx, d, disk.OpGetMetadata, p)
}

// SetMetadata replaces the user attributes of p.
func (d *Dispatcher) SetMetadata(ctx context.Context, p string, attrs map[string]string) (bool, error) {
	return invokeAs[bool](ctx, d, disk.OpSetMetadata, p, attrs)
}

// Files lists the files directly inside dir.
func (d *Dispatcher) Files(ctx context.Context, dir string) ([]string, error) {
	return invokeAs[[]string](ctx, d, disk.OpFiles, dir)
}

func (d *Dispatcher) Copy(ctx context.Context, src, dst string) (bool, error) {
	return invokeAs[bool](ctx, d, disk.OpCopy, src, dst)
}

func (d *Dispatcher) Move(ctx context.Context, from, to string) (bool, error) {
	return invokeAs[bool](ctx, d, disk.OpMove, from, to)
}

func (d *Dispatcher) MimeType(ctx context.Context, p string) (string, error) {
	return invokeAs[string](ctx, d, disk.OpMimeType, p)
}

// Prepend writes data before the content of p, separated by a newline.
func (d *Dispatcher) Prepend(ctx context.Context, p, data string) (bool, error) {
	return invokeAs[bool](ctx, d, disk.OpPrepend, p, data)
}

// Append writes data after the content of p, separated by a newline.
func (d *Dispatcher) Append(ctx context.Context, p, data string) (bool, error) {
	return invokeAs[bool](ctx, d, disk.OpAppend, p, data)
}

func (d *Dispatcher) MakeDirectory(ctx context.Context, p string) (bool, error) {
	return invokeAs[bool](ctx, d, disk.OpMakeDirectory, p)
}

func (d *Dispatcher) DeleteDirectory(ctx context.Context, p string) (bool, error) {
	return invokeAs[bool](ctx, d, disk.OpDeleteDirectory, p)
}

// Path returns the absolute host path of p. Only local disks support it.
func (d *Dispatcher) Path(ctx context.Context, p string) (string, error) {
	return invokeAs[string](ctx, d, disk.OpPath, p)
}

func (d *Dispatcher) Get(ctx context.Context, p string) ([]byte, error) {
	return invokeAs[[]byte](ctx, d, disk.OpGet, p)
}

func (d *Dispatcher) Put(ctx context.Context, p string, content []byte) (bool, error) {
	return invokeAs[bool](ctx, d, disk.OpPut, p, content)
}
