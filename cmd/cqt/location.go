package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hupe1980/cqt/blobstore"
	minioblob "github.com/hupe1980/cqt/blobstore/minio"
	s3blob "github.com/hupe1980/cqt/blobstore/s3"
	"github.com/hupe1980/cqt/resource"
)

type scheme string

const (
	schemeLocal scheme = ""
	schemeS3    scheme = "s3"
	schemeMinIO scheme = "minio"
)

// location addresses one blob.
type location struct {
	scheme scheme
	bucket string
	key    string
}

func parseLocation(s string) (location, error) {
	for _, sc := range []scheme{schemeS3, schemeMinIO} {
		prefix := string(sc) + "://"
		if !strings.HasPrefix(s, prefix) {
			continue
		}
		bucket, key, _ := strings.Cut(strings.TrimPrefix(s, prefix), "/")
		if bucket == "" {
			return location{}, fmt.Errorf("%s: missing bucket", s)
		}
		return location{scheme: sc, bucket: bucket, key: key}, nil
	}
	if s == "" {
		return location{}, fmt.Errorf("empty location")
	}
	return location{key: s}, nil
}

func (l location) String() string {
	if l.scheme == schemeLocal {
		return l.key
	}
	return string(l.scheme) + "://" + l.bucket + "/" + l.key
}

// base returns the last element of the key without its extension.
func (l location) base() string {
	var b string
	if l.scheme == schemeLocal {
		b = filepath.Base(l.key)
	} else {
		b = path.Base(l.key)
	}
	return strings.TrimSuffix(b, path.Ext(b))
}

// join places name inside the directory l.
func (l location) join(name string) location {
	if l.scheme == schemeLocal {
		l.key = filepath.Join(l.key, name)
	} else {
		l.key = path.Join(l.key, name)
	}
	return l
}

// stores opens one BlobStore per scheme and bucket and shares it across jobs.
type stores struct {
	mu    sync.Mutex
	open  map[string]blobstore.BlobStore
	rc    *resource.Controller
	minio minioblob.Config
	local blobstore.BlobStore
}

func newStores(cfg *config, rc *resource.Controller) *stores {
	return &stores{
		open: make(map[string]blobstore.BlobStore),
		rc:   rc,
		minio: minioblob.Config{
			Endpoint:  cfg.minioAddr,
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Secure:    cfg.minioSecure,
		},
		local: blobstore.NewThrottledStore(blobstore.NewLocalStore(""), rc),
	}
}

func (s *stores) get(ctx context.Context, l location) (blobstore.BlobStore, error) {
	if l.scheme == schemeLocal {
		return s.local, nil
	}

	id := string(l.scheme) + "://" + l.bucket
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.open[id]; ok {
		return st, nil
	}

	var (
		st  blobstore.BlobStore
		err error
	)
	switch l.scheme {
	case schemeS3:
		st, err = s3blob.New(ctx, l.bucket)
	case schemeMinIO:
		st, err = minioblob.Dial(s.minio, l.bucket, "")
	default:
		err = fmt.Errorf("unknown scheme %q", l.scheme)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	st = blobstore.NewThrottledStore(st, s.rc)
	s.open[id] = st
	return st, nil
}

func (s *stores) read(ctx context.Context, l location) ([]byte, error) {
	st, err := s.get(ctx, l)
	if err != nil {
		return nil, err
	}
	return blobstore.ReadAll(ctx, st, l.key)
}

func (s *stores) view(ctx context.Context, l location, fn func([]byte) error) error {
	st, err := s.get(ctx, l)
	if err != nil {
		return err
	}
	return blobstore.View(ctx, st, l.key, fn)
}

func (s *stores) write(ctx context.Context, l location, data []byte) error {
	st, err := s.get(ctx, l)
	if err != nil {
		return err
	}
	return st.Put(ctx, l.key, data)
}
