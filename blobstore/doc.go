// Package blobstore provides the storage abstraction the cqt command reads
// source images from and writes quantized results to.
//
// BlobStore is the interface for reading and writing named blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local file system, reads via mmap, atomic writes via rename
//   - MemoryStore: process memory, for tests and pipelines
//   - ThrottledStore: wraps any store with a resource.Controller IO budget
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// # Helpers
//
// View and ReadAll load a whole blob, zero-copy when the blob is Mappable.
// WriteTo streams an encoder into a new blob and aborts it on failure:
//
//	err := blobstore.WriteTo(ctx, store, "out.png", func(w io.Writer) error {
//	    return imageio.Encode(w, indexed, imageio.PNG)
//	})
package blobstore
