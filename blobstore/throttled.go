package blobstore

import (
	"context"
	"io"

	"github.com/hupe1980/cqt/resource"
)

// ThrottledStore wraps a BlobStore and charges every byte read or written
// against a resource.Controller IO budget.
type ThrottledStore struct {
	inner BlobStore
	rc    *resource.Controller
}

// NewThrottledStore returns inner unchanged when rc has no IO limit.
func NewThrottledStore(inner BlobStore, rc *resource.Controller) BlobStore {
	if rc == nil || rc.Config().IOLimitBytesPerSec <= 0 {
		return inner
	}
	return &ThrottledStore{inner: inner, rc: rc}
}

func (s *ThrottledStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &throttledBlob{inner: b, rc: s.rc}, nil
}

func (s *ThrottledStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	w, err := s.inner.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return &throttledWriter{
		WritableBlob: w,
		limited:      resource.NewRateLimitedWriter(ctx, w, s.rc),
	}, nil
}

func (s *ThrottledStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.rc.AcquireIO(ctx, len(data)); err != nil {
		return err
	}
	return s.inner.Put(ctx, name, data)
}

func (s *ThrottledStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

func (s *ThrottledStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// throttledBlob deliberately hides Mappable so View goes through ReadRange
// and pays for the bytes.
type throttledBlob struct {
	inner Blob
	rc    *resource.Controller
}

func (b *throttledBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	n, err := b.inner.ReadAt(ctx, p, off)
	if n > 0 {
		if werr := b.rc.AcquireIO(ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}

func (b *throttledBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	rc, err := b.inner.ReadRange(ctx, off, length)
	if err != nil {
		return nil, err
	}
	return struct {
		io.Reader
		io.Closer
	}{resource.NewRateLimitedReader(ctx, rc, b.rc), rc}, nil
}

func (b *throttledBlob) Size() int64  { return b.inner.Size() }
func (b *throttledBlob) Close() error { return b.inner.Close() }

type throttledWriter struct {
	WritableBlob
	limited io.Writer
}

func (w *throttledWriter) Write(p []byte) (int, error) {
	return w.limited.Write(p)
}

func (w *throttledWriter) Abort() error {
	if a, ok := w.WritableBlob.(interface{ Abort() error }); ok {
		return a.Abort()
	}
	return nil
}
