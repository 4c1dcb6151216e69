package disk

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

var (
	_ Disk             = (*MemoryDisk)(nil)
	_ Copier           = (*MemoryDisk)(nil)
	_ Mover            = (*MemoryDisk)(nil)
	_ MetadataReader   = (*MemoryDisk)(nil)
	_ MetadataWriter   = (*MemoryDisk)(nil)
	_ Prepender        = (*MemoryDisk)(nil)
	_ Appender         = (*MemoryDisk)(nil)
	_ DirectoryMaker   = (*MemoryDisk)(nil)
	_ DirectoryDeleter = (*MemoryDisk)(nil)
	_ MimeTyper        = (*MemoryDisk)(nil)
)

// MemoryDisk is an in-memory Disk implementation for testing.
// It stores files in memory without any filesystem dependency.
// Thread-safe for concurrent reads and writes.
type MemoryDisk struct {
	mu    sync.RWMutex
	files map[string]*memoryFile
	dirs  map[string]struct{}
	now   func() time.Time
}

type memoryFile struct {
	data     []byte
	modified time.Time
	attrs    map[string]string
}

// NewMemoryDisk creates a new in-memory disk.
func NewMemoryDisk() *MemoryDisk {
	return &MemoryDisk{
		files: make(map[string]*memoryFile),
		dirs:  make(map[string]struct{}),
		now:   time.Now,
	}
}

func notFound(op, path string) error {
	return fmt.Errorf("%s %s: %w", op, path, ErrNotFound)
}

func (m *MemoryDisk) Exists(_ context.Context, path string) (bool, error) {
	key := Clean(path)
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.files[key]; ok {
		return true, nil
	}
	return m.isDir(key), nil
}

// isDir requires m.mu to be held.
func (m *MemoryDisk) isDir(key string) bool {
	if key == "" {
		return true
	}
	if _, ok := m.dirs[key]; ok {
		return true
	}
	prefix := key + "/"
	for name := range m.files {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func (m *MemoryDisk) Get(_ context.Context, path string) ([]byte, error) {
	key := Clean(path)
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[key]
	if !ok {
		return nil, notFound("get", key)
	}
	// Return a copy to prevent external mutation
	return bytes.Clone(f.data), nil
}

func (m *MemoryDisk) ReadStream(ctx context.Context, path string) (io.ReadCloser, error) {
	data, err := m.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MemoryDisk) Put(_ context.Context, path string, content []byte) error {
	m.store(Clean(path), bytes.Clone(content), nil)
	return nil
}

func (m *MemoryDisk) store(key string, data []byte, attrs map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = &memoryFile{data: data, modified: m.now(), attrs: attrs}
}

func (m *MemoryDisk) PutFileAs(_ context.Context, dir string, body io.Reader, name string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	key := Join(dir, name)
	m.store(key, data, nil)
	return key, nil
}

func (m *MemoryDisk) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.files, Clean(path))
	return nil
}

func (m *MemoryDisk) Files(_ context.Context, dir string) ([]string, error) {
	prefix := Clean(dir)
	if prefix != "" {
		prefix += "/"
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var names []string
	for name := range m.files {
		rest, ok := strings.CutPrefix(name, prefix)
		if ok && rest != "" && !strings.Contains(rest, "/") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *MemoryDisk) Copy(_ context.Context, src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[Clean(src)]
	if !ok {
		return notFound("copy", Clean(src))
	}
	m.files[Clean(dst)] = &memoryFile{
		data:     bytes.Clone(f.data),
		modified: m.now(),
		attrs:    maps.Clone(f.attrs),
	}
	return nil
}

func (m *MemoryDisk) Move(_ context.Context, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[Clean(from)]
	if !ok {
		return notFound("move", Clean(from))
	}
	delete(m.files, Clean(from))
	m.files[Clean(to)] = f
	return nil
}

func (m *MemoryDisk) Metadata(_ context.Context, path string) (*Metadata, error) {
	key := Clean(path)
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[key]
	if !ok {
		return nil, notFound("metadata", key)
	}
	return &Metadata{
		Path:         key,
		Size:         int64(len(f.data)),
		LastModified: f.modified,
		MimeType:     mimetype.Detect(f.data).String(),
		Attributes:   maps.Clone(f.attrs),
	}, nil
}

func (m *MemoryDisk) SetMetadata(_ context.Context, path string, attrs map[string]string) error {
	key := Clean(path)
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[key]
	if !ok {
		return notFound("set metadata", key)
	}
	f.attrs = maps.Clone(attrs)
	return nil
}

func (m *MemoryDisk) MimeType(_ context.Context, path string) (string, error) {
	key := Clean(path)
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[key]
	if !ok {
		return "", notFound("mime type", key)
	}
	return mimetype.Detect(f.data).String(), nil
}

func (m *MemoryDisk) Prepend(_ context.Context, path, data string) error {
	m.join(Clean(path), data, true)
	return nil
}

func (m *MemoryDisk) Append(_ context.Context, path, data string) error {
	m.join(Clean(path), data, false)
	return nil
}

func (m *MemoryDisk) join(key, data string, prepend bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[key]
	if !ok {
		m.files[key] = &memoryFile{data: []byte(data), modified: m.now()}
		return
	}
	f.data = JoinContent(f.data, true, data, prepend)
	f.modified = m.now()
}

func (m *MemoryDisk) MakeDirectory(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Register every parent so Exists reports them like a real filesystem.
	for key := Clean(path); key != "" && key != "."; {
		m.dirs[key] = struct{}{}
		i := strings.LastIndex(key, "/")
		if i < 0 {
			break
		}
		key = key[:i]
	}
	return nil
}

func (m *MemoryDisk) DeleteDirectory(_ context.Context, path string) error {
	key := Clean(path)
	if key == "" {
		return ErrRootDirectory
	}
	prefix := key + "/"

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[key]; ok {
		return fmt.Errorf("deleteDirectory %s: %w", key, ErrNotDirectory)
	}
	for name := range m.files {
		if strings.HasPrefix(name, prefix) {
			delete(m.files, name)
		}
	}
	for name := range m.dirs {
		if name == key || strings.HasPrefix(name, prefix) {
			delete(m.dirs, name)
		}
	}
	return nil
}
