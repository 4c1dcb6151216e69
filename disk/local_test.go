package disk

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/easystore/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDisk_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	d := NewLocalDisk(tmpDir)
	ctx := context.Background()

	// 1. Store a file
	stored, err := d.PutFileAs(ctx, "docs", strings.NewReader("hello world"), "a.txt")
	require.NoError(t, err)
	require.Equal(t, "docs/a.txt", stored)

	_, err = os.Stat(filepath.Join(tmpDir, "docs", "a.txt"))
	require.NoError(t, err)

	ok, err := d.Exists(ctx, "docs/a.txt")
	require.NoError(t, err)
	require.True(t, ok)

	// Directories exist too.
	ok, err = d.Exists(ctx, "docs")
	require.NoError(t, err)
	require.True(t, ok)

	// 2. Read back
	data, err := d.Get(ctx, "docs/a.txt")
	require.NoError(t, err)
	require.Equal(t, "hello world", string(data))

	rc, err := d.ReadStream(ctx, "docs/a.txt")
	require.NoError(t, err)
	streamed, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "hello world", string(streamed))

	// 3. List (non-recursive)
	require.NoError(t, d.Put(ctx, "docs/b.txt", []byte("b")))
	require.NoError(t, d.Put(ctx, "docs/nested/c.txt", []byte("c")))
	files, err := d.Files(ctx, "docs")
	require.NoError(t, err)
	require.Equal(t, []string{"docs/a.txt", "docs/b.txt"}, files)

	// 4. Delete, twice
	require.NoError(t, d.Delete(ctx, "docs/a.txt"))
	require.NoError(t, d.Delete(ctx, "docs/a.txt"))
	ok, err = d.Exists(ctx, "docs/a.txt")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = d.Get(ctx, "docs/a.txt")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalDisk_CopyMove(t *testing.T) {
	d := NewLocalDisk(t.TempDir())
	ctx := context.Background()

	t.Run("copy missing source fails", func(t *testing.T) {
		err := d.Copy(ctx, "a.txt", "b.txt")
		require.ErrorIs(t, err, ErrNotFound)
	})

	require.NoError(t, d.Put(ctx, "a.txt", []byte("payload")))

	t.Run("copy", func(t *testing.T) {
		require.NoError(t, d.Copy(ctx, "a.txt", "copies/b.txt"))
		data, err := d.Get(ctx, "copies/b.txt")
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
	})

	t.Run("move", func(t *testing.T) {
		require.NoError(t, d.Move(ctx, "a.txt", "moved/a.txt"))
		ok, err := d.Exists(ctx, "a.txt")
		require.NoError(t, err)
		assert.False(t, ok)
		data, err := d.Get(ctx, "moved/a.txt")
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
	})

	t.Run("move missing source fails", func(t *testing.T) {
		require.ErrorIs(t, d.Move(ctx, "nope.txt", "x.txt"), ErrNotFound)
	})
}

func TestLocalDisk_CopyOntoItself(t *testing.T) {
	d := NewLocalDisk(t.TempDir())
	ctx := context.Background()
	require.NoError(t, d.Put(ctx, "a.txt", []byte("precious")))

	for _, dst := range []string{"a.txt", "./a.txt", "/a.txt", `sub\..\a.txt`} {
		require.NoError(t, d.Copy(ctx, "a.txt", dst))

		data, err := d.Get(ctx, "a.txt")
		require.NoError(t, err)
		assert.Equal(t, "precious", string(data), "copy to %q", dst)
	}
}

func TestLocalDisk_CopyDirectorySource(t *testing.T) {
	root := t.TempDir()
	d := NewLocalDisk(root)
	ctx := context.Background()
	require.NoError(t, d.MakeDirectory(ctx, "dir"))

	err := d.Copy(ctx, "dir", "out/copy.txt")
	require.ErrorIs(t, err, ErrIsDirectory)

	_, err = os.Stat(filepath.Join(root, "out"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalDisk_ExistsIsStable(t *testing.T) {
	d := NewLocalDisk(t.TempDir())
	ctx := context.Background()
	require.NoError(t, d.Put(ctx, "present.txt", []byte("x")))

	for _, p := range []string{"present.txt", "absent.txt"} {
		first, err := d.Exists(ctx, p)
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			again, err := d.Exists(ctx, p)
			require.NoError(t, err)
			assert.Equal(t, first, again, "%s check %d", p, i)
		}
	}
}

func TestLocalDisk_AppendPrepend(t *testing.T) {
	d := NewLocalDisk(t.TempDir())
	ctx := context.Background()

	require.NoError(t, d.Append(ctx, "log.txt", "first"))
	require.NoError(t, d.Append(ctx, "log.txt", "second"))
	require.NoError(t, d.Prepend(ctx, "log.txt", "zeroth"))

	data, err := d.Get(ctx, "log.txt")
	require.NoError(t, err)
	assert.Equal(t, "zeroth\nfirst\nsecond", string(data))
}

func TestLocalDisk_Metadata(t *testing.T) {
	d := NewLocalDisk(t.TempDir())
	ctx := context.Background()

	require.NoError(t, d.Put(ctx, "notes/readme.txt", []byte("plain text")))

	md, err := d.Metadata(ctx, "/notes/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, "notes/readme.txt", md.Path)
	assert.Equal(t, int64(10), md.Size)
	assert.False(t, md.LastModified.IsZero())
	assert.True(t, strings.HasPrefix(md.MimeType, "text/plain"))

	mt, err := d.MimeType(ctx, "notes/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, md.MimeType, mt)

	_, err = d.Metadata(ctx, "missing.txt")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalDisk_Directories(t *testing.T) {
	root := t.TempDir()
	d := NewLocalDisk(root)
	ctx := context.Background()

	require.NoError(t, d.MakeDirectory(ctx, "a/b/c"))
	info, err := os.Stat(filepath.Join(root, "a", "b", "c"))
	require.NoError(t, err)
	require.True(t, info.IsDir())

	require.NoError(t, d.Put(ctx, "a/b/c/file.txt", []byte("x")))
	require.NoError(t, d.DeleteDirectory(ctx, "a"))
	_, err = os.Stat(filepath.Join(root, "a"))
	require.True(t, os.IsNotExist(err))

	require.ErrorIs(t, d.DeleteDirectory(ctx, "/"), ErrRootDirectory)

	t.Run("file is not a directory", func(t *testing.T) {
		require.NoError(t, d.Put(ctx, "plain.txt", []byte("keep")))
		require.ErrorIs(t, d.DeleteDirectory(ctx, "plain.txt"), ErrNotDirectory)

		data, err := d.Get(ctx, "plain.txt")
		require.NoError(t, err)
		assert.Equal(t, "keep", string(data))
	})

	t.Run("missing directory", func(t *testing.T) {
		require.NoError(t, d.DeleteDirectory(ctx, "never/created"))
	})
}

func TestLocalDisk_URLAndPath(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	_, err := NewLocalDisk(root).URL(ctx, "a.txt")
	require.ErrorIs(t, err, ErrNoBaseURL)

	d := NewLocalDisk(root, WithBaseURL("https://cdn.example.com/storage"))
	u, err := d.URL(ctx, "/images/my photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/storage/images/my%20photo.jpg", u)

	p, err := d.Path("../outside.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "outside.txt"), p)
}

func TestLocalDisk_FaultInjection(t *testing.T) {
	boom := errors.New("disk on fire")
	ffs := fs.NewFaultyFS(nil)
	d := NewLocalDisk(t.TempDir(), WithFileSystem(ffs))
	ctx := context.Background()

	require.NoError(t, d.Put(ctx, "ok.txt", []byte("fine")))

	ffs.AddRule("broken", fs.Fault{FailOnOpen: true, FailOnStat: true, Err: boom})

	_, err := d.Exists(ctx, "broken.txt")
	require.ErrorIs(t, err, boom)

	err = d.Put(ctx, "broken.txt", []byte("x"))
	require.ErrorIs(t, err, boom)

	err = d.Copy(ctx, "ok.txt", "broken-copy.txt")
	require.ErrorIs(t, err, boom)

	ffs.AddRule("unsynced", fs.Fault{FailOnSync: true, Err: boom})
	_, err = d.PutFileAs(ctx, "up", strings.NewReader("x"), "unsynced.txt")
	require.ErrorIs(t, err, boom)
}
