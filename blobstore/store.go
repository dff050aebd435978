package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// ErrInvalidLocation is returned by ParseLocation for malformed URIs.
var ErrInvalidLocation = errors.New("invalid blob location")

// BlobStore stores named, immutable blobs.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Put writes a blob atomically, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names of all blobs with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
}

// ReadAll opens name and reads it completely.
func ReadAll(ctx context.Context, s BlobStore, name string) ([]byte, error) {
	b, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	buf := make([]byte, b.Size())
	if len(buf) == 0 {
		return buf, nil
	}
	n, err := b.ReadAt(ctx, buf, 0)
	if err != nil && !(errors.Is(err, io.EOF) && n == len(buf)) {
		return nil, err
	}
	if n != len(buf) {
		return nil, io.ErrUnexpectedEOF
	}
	return buf, nil
}

// Scheme identifies the backend of a Location.
type Scheme string

const (
	SchemeLocal Scheme = ""
	SchemeS3    Scheme = "s3"
	SchemeMinio Scheme = "minio"
)

// Location addresses one blob. For local files Bucket is the directory and
// Key the file name.
type Location struct {
	Scheme Scheme
	Bucket string
	Key    string
}

// String implements fmt.Stringer.
func (l Location) String() string {
	if l.Scheme == SchemeLocal {
		return filepath.Join(l.Bucket, l.Key)
	}
	return string(l.Scheme) + "://" + l.Bucket + "/" + l.Key
}

// ParseLocation parses a local path or an s3:// or minio:// URI.
func ParseLocation(uri string) (Location, error) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		if uri == "" {
			return Location{}, fmt.Errorf("%w: empty path", ErrInvalidLocation)
		}
		return Location{Scheme: SchemeLocal, Bucket: filepath.Dir(uri), Key: filepath.Base(uri)}, nil
	}

	switch s := Scheme(strings.ToLower(scheme)); s {
	case SchemeS3, SchemeMinio:
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
			return Location{}, fmt.Errorf("%w: %s needs a bucket and an object key", ErrInvalidLocation, uri)
		}
		return Location{Scheme: s, Bucket: bucket, Key: key}, nil
	default:
		return Location{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLocation, scheme)
	}
}
