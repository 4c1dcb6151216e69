package disk

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

// ErrUnknownDisk is returned when a disk name has no registry entry.
var ErrUnknownDisk = errors.New("unknown disk")

// Registry maps disk names to drivers. It is built once at startup and never
// modified afterwards, so it is safe for concurrent use.
type Registry struct {
	disks map[string]Disk
}

// NewRegistry creates a registry from the given disks. The map is copied.
func NewRegistry(disks map[string]Disk) *Registry {
	m := make(map[string]Disk, len(disks))
	for name, d := range disks {
		if d != nil {
			m[name] = d
		}
	}
	return &Registry{disks: m}
}

// Get returns the disk registered under name.
func (r *Registry) Get(name string) (Disk, error) {
	if r != nil {
		if d, ok := r.disks[name]; ok {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDisk, name)
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.disks[name]
	return ok
}

// Names returns the registered disk names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.disks))
	for name := range r.disks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every disk that holds resources.
func (r *Registry) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, name := range r.Names() {
		if c, ok := r.disks[name].(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close disk %q: %w", name, err))
			}
		}
	}
	return errors.Join(errs...)
}
