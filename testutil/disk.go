package testutil

import (
	"context"
	"io"
	"sync"

	"github.com/hupe1980/easystore/disk"
)

// FaultyDisk is a MemoryDisk that counts driver calls per operation and
// returns injected errors instead of running them.
type FaultyDisk struct {
	*disk.MemoryDisk

	mu     sync.Mutex
	calls  map[disk.Op]int
	faults map[disk.Op]error
}

// NewFaultyDisk creates an empty FaultyDisk with no faults.
func NewFaultyDisk() *FaultyDisk {
	return &FaultyDisk{
		MemoryDisk: disk.NewMemoryDisk(),
		calls:      make(map[disk.Op]int),
		faults:     make(map[disk.Op]error),
	}
}

// Fail makes every later call of op return err.
func (f *FaultyDisk) Fail(op disk.Op, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults[op] = err
}

// Heal removes the fault registered for op.
func (f *FaultyDisk) Heal(op disk.Op) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.faults, op)
}

// Calls returns how often op reached the disk.
func (f *FaultyDisk) Calls(op disk.Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// TotalCalls returns how often any operation reached the disk.
func (f *FaultyDisk) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FaultyDisk) hit(op disk.Op) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.faults[op]
}

func (f *FaultyDisk) Exists(ctx context.Context, p string) (bool, error) {
	if err := f.hit(disk.OpExists); err != nil {
		return false, err
	}
	return f.MemoryDisk.Exists(ctx, p)
}

func (f *FaultyDisk) Get(ctx context.Context, p string) ([]byte, error) {
	if err := f.hit(disk.OpGet); err != nil {
		return nil, err
	}
	return f.MemoryDisk.Get(ctx, p)
}

func (f *FaultyDisk) ReadStream(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := f.hit(disk.OpReadStream); err != nil {
		return nil, err
	}
	return f.MemoryDisk.ReadStream(ctx, p)
}

func (f *FaultyDisk) Put(ctx context.Context, p string, content []byte) error {
	if err := f.hit(disk.OpPut); err != nil {
		return err
	}
	return f.MemoryDisk.Put(ctx, p, content)
}

func (f *FaultyDisk) PutFileAs(ctx context.Context, dir string, body io.Reader, name string) (string, error) {
	if err := f.hit(disk.OpPutFileAs); err != nil {
		return "", err
	}
	return f.MemoryDisk.PutFileAs(ctx, dir, body, name)
}

func (f *FaultyDisk) Delete(ctx context.Context, p string) error {
	if err := f.hit(disk.OpDelete); err != nil {
		return err
	}
	return f.MemoryDisk.Delete(ctx, p)
}

func (f *FaultyDisk) Files(ctx context.Context, dir string) ([]string, error) {
	if err := f.hit(disk.OpFiles); err != nil {
		return nil, err
	}
	return f.MemoryDisk.Files(ctx, dir)
}

func (f *FaultyDisk) Copy(ctx context.Context, src, dst string) error {
	if err := f.hit(disk.OpCopy); err != nil {
		return err
	}
	return f.MemoryDisk.Copy(ctx, src, dst)
}

func (f *FaultyDisk) Move(ctx context.Context, from, to string) error {
	if err := f.hit(disk.OpMove); err != nil {
		return err
	}
	return f.MemoryDisk.Move(ctx, from, to)
}

func (f *FaultyDisk) Metadata(ctx context.Context, p string) (*disk.Metadata, error) {
	if err := f.hit(disk.OpGetMetadata); err != nil {
		return nil, err
	}
	return f.MemoryDisk.Metadata(ctx, p)
}

func (f *FaultyDisk) SetMetadata(ctx context.Context, p string, attrs map[string]string) error {
	if err := f.hit(disk.OpSetMetadata); err != nil {
		return err
	}
	return f.MemoryDisk.SetMetadata(ctx, p, attrs)
}

func (f *FaultyDisk) MimeType(ctx context.Context, p string) (string, error) {
	if err := f.hit(disk.OpMimeType); err != nil {
		return "", err
	}
	return f.MemoryDisk.MimeType(ctx, p)
}

func (f *FaultyDisk) Prepend(ctx context.Context, p, data string) error {
	if err := f.hit(disk.OpPrepend); err != nil {
		return err
	}
	return f.MemoryDisk.Prepend(ctx, p, data)
}

func (f *FaultyDisk) Append(ctx context.Context, p, data string) error {
	if err := f.hit(disk.OpAppend); err != nil {
		return err
	}
	return f.MemoryDisk.Append(ctx, p, data)
}

func (f *FaultyDisk) MakeDirectory(ctx context.Context, p string) error {
	if err := f.hit(disk.OpMakeDirectory); err != nil {
		return err
	}
	return f.MemoryDisk.MakeDirectory(ctx, p)
}

func (f *FaultyDisk) DeleteDirectory(ctx context.Context, p string) error {
	if err := f.hit(disk.OpDeleteDirectory); err != nil {
		return err
	}
	return f.MemoryDisk.DeleteDirectory(ctx, p)
}

type coreDisk struct {
	disk.Disk
}

// CoreOnly returns a view of d that exposes only the disk.Disk methods.
func CoreOnly(d disk.Disk) disk.Disk {
	return coreDisk{Disk: d}
}
