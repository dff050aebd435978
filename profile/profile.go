package profile

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/hupe1980/kmersim"
	"github.com/hupe1980/kmersim/blobstore"
	"github.com/hupe1980/kmersim/codec"
)

type options struct {
	codec       codec.Codec
	compression *codec.Compression
}

// Option configures Save and Load.
type Option func(*options)

// WithCodec sets the codec. Defaults to codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithCompression overrides the compression. Without it, Save and Load use
// none and the name based functions derive it from the extension.
func WithCompression(c codec.Compression) Option {
	return func(o *options) {
		o.compression = &c
	}
}

func applyOptions(path string, optFns []Option) (codec.Codec, codec.Compression) {
	o := options{codec: codec.Default}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.compression != nil {
		return o.codec, *o.compression
	}
	return o.codec, codec.CompressionFromPath(path)
}

// Encode serializes p.
func Encode(p kmersim.Profile, optFns ...Option) ([]byte, error) {
	c, comp := applyOptions("", optFns)
	return encode(p, c, comp)
}

func encode(p kmersim.Profile, c codec.Codec, comp codec.Compression) ([]byte, error) {
	data, err := c.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	return codec.Compress(data, comp)
}

// Decode parses a profile produced by Encode. The version is checked when the
// profile is applied, not here.
func Decode(data []byte, optFns ...Option) (kmersim.Profile, error) {
	c, comp := applyOptions("", optFns)
	return decode(data, c, comp)
}

func decode(data []byte, c codec.Codec, comp codec.Compression) (kmersim.Profile, error) {
	raw, err := codec.Decompress(data, comp)
	if err != nil {
		return kmersim.Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	var p kmersim.Profile
	if err := c.Unmarshal(raw, &p); err != nil {
		return kmersim.Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return p, nil
}

// Save writes p to w.
func Save(w io.Writer, p kmersim.Profile, optFns ...Option) error {
	data, err := Encode(p, optFns...)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Load reads a profile from r.
func Load(r io.Reader, optFns ...Option) (kmersim.Profile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return kmersim.Profile{}, err
	}
	return Decode(data, optFns...)
}

// Put stores p in s under name. The compression follows the extension of
// name unless WithCompression is given.
func Put(ctx context.Context, s blobstore.BlobStore, name string, p kmersim.Profile, optFns ...Option) error {
	c, comp := applyOptions(name, optFns)
	data, err := encode(p, c, comp)
	if err != nil {
		return err
	}
	return s.Put(ctx, name, data)
}

// Get reads the profile stored in s under name.
func Get(ctx context.Context, s blobstore.BlobStore, name string, optFns ...Option) (kmersim.Profile, error) {
	c, comp := applyOptions(name, optFns)
	data, err := blobstore.ReadAll(ctx, s, name)
	if err != nil {
		return kmersim.Profile{}, err
	}
	return decode(data, c, comp)
}

// SaveFile writes p to path, replacing any existing file atomically.
func SaveFile(path string, p kmersim.Profile, optFns ...Option) error {
	return Put(context.Background(), blobstore.NewLocalStore(filepath.Dir(path)), filepath.Base(path), p, optFns...)
}

// LoadFile reads the profile stored at path.
func LoadFile(path string, optFns ...Option) (kmersim.Profile, error) {
	return Get(context.Background(), blobstore.NewLocalStore(filepath.Dir(path)), filepath.Base(path), optFns...)
}

// Export stores the configuration of r in s under name.
func Export(ctx context.Context, s blobstore.BlobStore, name string, r *kmersim.Registry, optFns ...Option) error {
	return Put(ctx, s, name, r.Profile(), optFns...)
}

// Import loads the profile stored under name and applies it to r.
func Import(ctx context.Context, s blobstore.BlobStore, name string, r *kmersim.Registry, optFns ...Option) error {
	p, err := Get(ctx, s, name, optFns...)
	if err != nil {
		return err
	}
	if err := r.ApplyProfile(p); err != nil {
		return fmt.Errorf("apply profile %s: %w", name, err)
	}
	return nil
}
