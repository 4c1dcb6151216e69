package disk

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closingDisk struct {
	*MemoryDisk
	closed bool
	err    error
}

func (c *closingDisk) Close() error {
	c.closed = true
	return c.err
}

func TestRegistry_Get(t *testing.T) {
	local := NewLocalDisk(t.TempDir())
	mem := NewMemoryDisk()
	input := map[string]Disk{"local": local, "memory": mem}
	r := NewRegistry(input)

	for name, want := range input {
		got, err := r.Get(name)
		require.NoError(t, err)
		assert.Same(t, want, got)
	}

	_, err := r.Get("s3")
	require.ErrorIs(t, err, ErrUnknownDisk)
	assert.Contains(t, err.Error(), `"s3"`)

	// Mutating the input map must not leak into the registry.
	delete(input, "local")
	assert.True(t, r.Has("local"))
	assert.Equal(t, []string{"local", "memory"}, r.Names())
}

func TestRegistry_Nil(t *testing.T) {
	var r *Registry
	_, err := r.Get("local")
	require.ErrorIs(t, err, ErrUnknownDisk)
	assert.False(t, r.Has("local"))
	assert.Nil(t, r.Names())
	assert.NoError(t, r.Close())
}

func TestRegistry_Close(t *testing.T) {
	ok := &closingDisk{MemoryDisk: NewMemoryDisk()}
	bad := &closingDisk{MemoryDisk: NewMemoryDisk(), err: errors.New("close failed")}
	r := NewRegistry(map[string]Disk{"a": ok, "b": bad})

	err := r.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `close disk "b"`)
	assert.True(t, ok.closed)
	assert.True(t, bad.closed)
}
