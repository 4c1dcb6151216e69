package disk

import (
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/hupe1980/easystore/internal/fs"
)

var (
	// ErrNoBaseURL is returned by URL when the disk has no public base URL.
	ErrNoBaseURL = errors.New("disk has no base url configured")

	// ErrRootDirectory is returned when an operation would remove the disk root.
	ErrRootDirectory = errors.New("refusing to operate on the disk root")

	// ErrIsDirectory is returned when a file operation targets a directory.
	ErrIsDirectory = errors.New("is a directory")

	// ErrNotDirectory is returned when a directory operation targets a file.
	ErrNotDirectory = errors.New("not a directory")
)

const (
	filePerm = 0o644
	dirPerm  = 0o755
)

var (
	_ Disk             = (*LocalDisk)(nil)
	_ Copier           = (*LocalDisk)(nil)
	_ Mover            = (*LocalDisk)(nil)
	_ URLResolver      = (*LocalDisk)(nil)
	_ MetadataReader   = (*LocalDisk)(nil)
	_ Prepender        = (*LocalDisk)(nil)
	_ Appender         = (*LocalDisk)(nil)
	_ DirectoryMaker   = (*LocalDisk)(nil)
	_ DirectoryDeleter = (*LocalDisk)(nil)
	_ PathResolver     = (*LocalDisk)(nil)
	_ MimeTyper        = (*LocalDisk)(nil)
)

// LocalDisk implements Disk using the local file system.
type LocalDisk struct {
	root    string
	fs      fs.FileSystem
	baseURL string
}

// LocalOption configures a LocalDisk.
type LocalOption func(*LocalDisk)

// WithFileSystem replaces the file system used by the disk (fs.Default otherwise).
func WithFileSystem(fsys fs.FileSystem) LocalOption {
	return func(d *LocalDisk) {
		if fsys != nil {
			d.fs = fsys
		}
	}
}

// WithBaseURL sets the public URL prefix returned by URL.
func WithBaseURL(baseURL string) LocalOption {
	return func(d *LocalDisk) {
		d.baseURL = baseURL
	}
}

// NewLocalDisk creates a new LocalDisk rooted at the given directory.
func NewLocalDisk(root string, optFns ...LocalOption) *LocalDisk {
	d := &LocalDisk{root: root, fs: fs.Default}
	for _, fn := range optFns {
		fn(d)
	}
	return d
}

// Root returns the directory the disk is rooted at.
func (d *LocalDisk) Root() string { return d.root }

func (d *LocalDisk) full(p string) string {
	return filepath.Join(d.root, filepath.FromSlash(Clean(p)))
}

func (d *LocalDisk) Exists(_ context.Context, path string) (bool, error) {
	_, err := d.fs.Stat(d.full(path))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (d *LocalDisk) Get(_ context.Context, path string) ([]byte, error) {
	return d.read(d.full(path))
}

func (d *LocalDisk) read(name string) ([]byte, error) {
	f, err := d.fs.OpenFile(name, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

func (d *LocalDisk) ReadStream(_ context.Context, path string) (io.ReadCloser, error) {
	name := d.full(path)
	info, err := d.fs.Stat(name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: name, Err: ErrIsDirectory}
	}
	return d.fs.OpenFile(name, os.O_RDONLY, 0)
}

func (d *LocalDisk) Put(_ context.Context, path string, content []byte) error {
	return d.write(d.full(path), func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	})
}

func (d *LocalDisk) PutFileAs(_ context.Context, dir string, body io.Reader, name string) (string, error) {
	key := Join(dir, name)
	err := d.write(d.full(key), func(w io.Writer) error {
		_, err := io.Copy(w, body)
		return err
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// write creates parent directories and replaces name with whatever fill writes.
func (d *LocalDisk) write(name string, fill func(io.Writer) error) error {
	if err := d.fs.MkdirAll(filepath.Dir(name), dirPerm); err != nil {
		return err
	}
	f, err := d.fs.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (d *LocalDisk) Delete(_ context.Context, path string) error {
	err := d.fs.Remove(d.full(path))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (d *LocalDisk) Files(_ context.Context, dir string) ([]string, error) {
	entries, err := d.fs.ReadDir(d.full(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, Join(dir, e.Name()))
	}
	return files, nil
}

// Copy copies src to dst. A directory source fails before dst is touched and
// copying a file onto itself leaves it unchanged.
func (d *LocalDisk) Copy(_ context.Context, src, dst string) error {
	from, to := d.full(src), d.full(dst)
	info, err := d.fs.Stat(from)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &os.PathError{Op: "copy", Path: from, Err: ErrIsDirectory}
	}
	if from == to {
		return nil
	}

	in, err := d.fs.OpenFile(from, os.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	return d.write(to, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}

func (d *LocalDisk) Move(_ context.Context, from, to string) error {
	src := d.full(from)
	if _, err := d.fs.Stat(src); err != nil {
		return err
	}
	dst := d.full(to)
	if err := d.fs.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return err
	}
	return d.fs.Rename(src, dst)
}

func (d *LocalDisk) URL(_ context.Context, path string) (string, error) {
	if d.baseURL == "" {
		return "", ErrNoBaseURL
	}
	return url.JoinPath(d.baseURL, Clean(path))
}

func (d *LocalDisk) Metadata(_ context.Context, path string) (*Metadata, error) {
	name := d.full(path)
	info, err := d.fs.Stat(name)
	if err != nil {
		return nil, err
	}
	md := &Metadata{
		Path:         Clean(path),
		Size:         info.Size(),
		LastModified: info.ModTime(),
	}
	if info.IsDir() {
		md.MimeType = "inode/directory"
		return md, nil
	}
	if md.MimeType, err = d.detect(name); err != nil {
		return nil, err
	}
	return md, nil
}

func (d *LocalDisk) MimeType(_ context.Context, path string) (string, error) {
	return d.detect(d.full(path))
}

func (d *LocalDisk) detect(name string) (string, error) {
	f, err := d.fs.OpenFile(name, os.O_RDONLY, 0)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}
	return mt.String(), nil
}

func (d *LocalDisk) Prepend(_ context.Context, path, data string) error {
	return d.join(path, data, true)
}

func (d *LocalDisk) Append(_ context.Context, path, data string) error {
	return d.join(path, data, false)
}

func (d *LocalDisk) join(path, data string, prepend bool) error {
	name := d.full(path)
	existing, err := d.read(name)
	existed := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	content := JoinContent(existing, existed, data, prepend)
	return d.write(name, func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	})
}

func (d *LocalDisk) MakeDirectory(_ context.Context, path string) error {
	return d.fs.MkdirAll(d.full(path), dirPerm)
}

func (d *LocalDisk) DeleteDirectory(_ context.Context, path string) error {
	if Clean(path) == "" {
		return ErrRootDirectory
	}
	name := d.full(path)
	info, err := d.fs.Stat(name)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "deleteDirectory", Path: name, Err: ErrNotDirectory}
	}
	return d.fs.RemoveAll(name)
}

func (d *LocalDisk) Path(path string) (string, error) {
	return d.full(path), nil
}
