package minio

import (
	"context"
	"testing"
	"time"

	"github.com/hupe1980/easystore/disk"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Bucket: "b"})
	assert.Error(t, err)

	_, err = New(Config{Endpoint: "localhost:9000"})
	assert.Error(t, err)

	d, err := New(Config{Endpoint: "localhost:9000", Bucket: "uploads", Prefix: "/tenant-a/"})
	require.NoError(t, err)
	assert.Equal(t, "uploads", d.Bucket())
	assert.Equal(t, "tenant-a/docs/a.txt", d.key("docs/a.txt"))
	assert.Equal(t, "docs/a.txt", d.rel("tenant-a/docs/a.txt"))
	assert.Equal(t, "tenant-a/docs/", d.dirKey("docs"))
	assert.Equal(t, "tenant-a/", d.dirKey(""))
}

func TestDisk_URL(t *testing.T) {
	client, err := minio.New("localhost:9000", &minio.Options{
		Creds: credentials.NewStaticV4("minioadmin", "minioadmin", ""),
	})
	require.NoError(t, err)
	ctx := context.Background()

	u, err := NewDisk(client, "uploads").URL(ctx, "img/a.png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/uploads/img/a.png", u)

	u, err = NewDisk(client, "uploads", WithBaseURL("https://cdn.example.com")).URL(ctx, "img/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/img/a.png", u)
}

func TestDisk_DeleteRoot(t *testing.T) {
	d, err := New(Config{Endpoint: "localhost:9000", Bucket: "uploads"})
	require.NoError(t, err)
	assert.ErrorIs(t, d.DeleteDirectory(context.Background(), ""), disk.ErrRootDirectory)
}

// TestMinioDisk_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioDisk_Integration(t *testing.T) {
	endpoint := "localhost:9000"
	accessKey := "minioadmin"
	secretKey := "minioadmin"
	bucket := "test-easystore"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	_, err = client.ListBuckets(ctx)
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		err = client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
		require.NoError(t, err)
	}

	d := NewDisk(client, bucket, WithPrefix("test-prefix/"))
	t.Cleanup(func() { _ = d.DeleteDirectory(context.Background(), "docs") })

	// Put and Get
	data := []byte("hello minio world")
	require.NoError(t, d.Put(ctx, "docs/test.txt", data))

	got, err := d.Get(ctx, "docs/test.txt")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	ok, err := d.Exists(ctx, "docs")
	require.NoError(t, err)
	assert.True(t, ok)

	// Metadata round trip
	require.NoError(t, d.SetMetadata(ctx, "docs/test.txt", map[string]string{"Owner": "alice"}))
	md, err := d.Metadata(ctx, "docs/test.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), md.Size)
	assert.Equal(t, "text/plain; charset=utf-8", md.MimeType)

	// Copy, Move, Files
	require.NoError(t, d.Copy(ctx, "docs/test.txt", "docs/copy.txt"))
	require.NoError(t, d.Move(ctx, "docs/copy.txt", "docs/moved.txt"))

	files, err := d.Files(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/moved.txt", "docs/test.txt"}, files)

	u, err := d.TemporaryURL(ctx, "docs/test.txt", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, u, "X-Amz-Signature")

	// Delete
	require.NoError(t, d.Delete(ctx, "docs/test.txt"))
	_, err = d.Get(ctx, "docs/test.txt")
	assert.ErrorIs(t, err, disk.ErrNotFound)
}
