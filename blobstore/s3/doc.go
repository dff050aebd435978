// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("profiles/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	err = profile.Export(ctx, store, "genomes.json.zst", registry)
//
// Credentials come from the default AWS chain (environment, shared config,
// instance role). WithEndpoint targets S3-compatible servers and switches to
// path-style addressing.
package s3
