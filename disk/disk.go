package disk

import (
	"context"
	"io"
	"os"
	"time"
)

// ErrNotFound is returned when a file does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Disk is the capability set every storage driver provides.
type Disk interface {
	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) (bool, error)
	// Get returns the full content of the file at path.
	Get(ctx context.Context, path string) ([]byte, error)
	// ReadStream opens the file at path for reading. Callers close it.
	ReadStream(ctx context.Context, path string) (io.ReadCloser, error)
	// Put writes content to path, replacing any existing file.
	Put(ctx context.Context, path string, content []byte) error
	// PutFileAs stores body as dir/name and returns the stored path.
	PutFileAs(ctx context.Context, dir string, body io.Reader, name string) (string, error)
	// Delete removes the file at path. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error
	// Files lists the files directly inside dir, relative to the disk root.
	Files(ctx context.Context, dir string) ([]string, error)
}

// Copier copies a file within a disk.
type Copier interface {
	Copy(ctx context.Context, src, dst string) error
}

// Mover moves (renames) a file within a disk.
type Mover interface {
	Move(ctx context.Context, from, to string) error
}

// URLResolver returns the public URL of a file.
type URLResolver interface {
	URL(ctx context.Context, path string) (string, error)
}

// TemporaryURLResolver returns a URL that grants access to a file for ttl.
type TemporaryURLResolver interface {
	TemporaryURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}

// MetadataReader reads file metadata.
type MetadataReader interface {
	Metadata(ctx context.Context, path string) (*Metadata, error)
}

// MetadataWriter replaces the user attributes of a file.
type MetadataWriter interface {
	SetMetadata(ctx context.Context, path string, attrs map[string]string) error
}

// Prepender writes data in front of the existing content of a file.
type Prepender interface {
	Prepend(ctx context.Context, path, data string) error
}

// Appender writes data after the existing content of a file.
type Appender interface {
	Append(ctx context.Context, path, data string) error
}

// DirectoryMaker creates a directory and its parents.
type DirectoryMaker interface {
	MakeDirectory(ctx context.Context, path string) error
}

// DirectoryDeleter removes a directory and everything below it.
type DirectoryDeleter interface {
	DeleteDirectory(ctx context.Context, path string) error
}

// PathResolver maps a disk path to a path on the host filesystem.
// Only disks backed by the local filesystem implement it.
type PathResolver interface {
	Path(path string) (string, error)
}

// MimeTyper reports the MIME type of a file.
type MimeTyper interface {
	MimeType(ctx context.Context, path string) (string, error)
}

// Metadata describes a stored file.
type Metadata struct {
	Path         string
	Size         int64
	LastModified time.Time
	MimeType     string
	ETag         string
	// Attributes holds user-defined metadata (x-amz-meta-* on object stores).
	Attributes map[string]string
}

// Separator joins new data to existing content on Append and Prepend.
const Separator = "\n"

// JoinContent returns the content of a file after appending (or prepending)
// data. existed reports whether the file was present before the write.
func JoinContent(existing []byte, existed bool, data string, prepend bool) []byte {
	if !existed {
		return []byte(data)
	}
	out := make([]byte, 0, len(existing)+len(Separator)+len(data))
	if prepend {
		out = append(out, data...)
		out = append(out, Separator...)
		return append(out, existing...)
	}
	out = append(out, existing...)
	out = append(out, Separator...)
	return append(out, data...)
}
