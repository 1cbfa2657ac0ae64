// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("images/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	err = blobstore.View(ctx, store, "photo.jpg", func(data []byte) error {
//	    buf, _, err := imageio.DecodeBytes(data)
//	    ...
//	})
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Multipart uploads for large outputs
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
