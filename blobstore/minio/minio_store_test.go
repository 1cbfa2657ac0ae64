package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/hupe1980/cqt/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	s := NewStore(nil, "bucket", "images/")
	assert.Equal(t, "images/a.png", s.key("a.png"))
	assert.Equal(t, "images", s.key(""))
	assert.Equal(t, "a/b.png", s.rel("images/a/b.png"))

	bare := NewStore(nil, "bucket", "")
	assert.Equal(t, "a.png", bare.key("a.png"))
	assert.Equal(t, "a.png", bare.rel("a.png"))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NotFound"}))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
	assert.False(t, isNotFound(errors.New("boom")))
}

func TestDial(t *testing.T) {
	s, err := Dial(Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"}, "bucket", "p/")
	require.NoError(t, err)
	assert.Equal(t, "bucket", s.bucket)
	assert.Equal(t, "p/x", s.key("x"))
}

// TestStore_Integration requires a running MinIO instance at MINIO_ENDPOINT.
func TestStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_ENDPOINT not set")
	}

	store, err := Dial(Config{
		Endpoint:  endpoint,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	}, "test-cqt", fmt.Sprintf("run-%d/", time.Now().UnixNano()))
	require.NoError(t, err)

	ctx := context.Background()
	exists, err := store.client.BucketExists(ctx, store.bucket)
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}
	if !exists {
		require.NoError(t, store.client.MakeBucket(ctx, store.bucket, minio.MakeBucketOptions{}))
	}

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "test.txt", data))

	got, err := blobstore.ReadAll(ctx, store, "test.txt")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	b, err := store.Open(ctx, "test.txt")
	require.NoError(t, err)
	rc, err := b.ReadRange(ctx, 6, 5)
	require.NoError(t, err)
	part, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(part))
	require.NoError(t, rc.Close())
	require.NoError(t, b.Close())

	err = blobstore.WriteTo(ctx, store, "stream.txt", func(w io.Writer) error {
		_, err := io.WriteString(w, "streamed data")
		return err
	})
	require.NoError(t, err)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"stream.txt", "test.txt"}, names)

	require.NoError(t, store.Delete(ctx, "test.txt"))
	require.NoError(t, store.Delete(ctx, "stream.txt"))
	_, err = store.Open(ctx, "test.txt")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
