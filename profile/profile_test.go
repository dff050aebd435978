package profile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmersim"
	"github.com/hupe1980/kmersim/blobstore"
	"github.com/hupe1980/kmersim/codec"
	"github.com/hupe1980/kmersim/metric"
	"github.com/hupe1980/kmersim/sample"
	"github.com/hupe1980/kmersim/testutil"
)

func calibrated(t *testing.T) *kmersim.Registry {
	t.Helper()
	pts := testutil.NewRNG(3).Family(8, 3, 150, 0.1)

	r := kmersim.New()
	require.NoError(t, r.Register(metric.Euclidean|metric.Jaccard|metric.D2Star, kmersim.Product2))
	require.NoError(t, r.Register(metric.Markov|metric.Jaccard, kmersim.SquareFirstProduct))
	require.NoError(t, r.Calibrate(context.Background(), sample.Pairs(pts, 20, 1)))
	require.NoError(t, r.SetBounds(metric.Markov, -90, -2))
	return r
}

func TestSaveLoad(t *testing.T) {
	p := calibrated(t).Profile()

	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
		var buf bytes.Buffer
		require.NoError(t, Save(&buf, p, WithCodec(c)))
		assert.Contains(t, buf.String(), `"square_first_product"`)

		got, err := Load(&buf, WithCodec(c))
		require.NoError(t, err)
		assert.Equal(t, p, got, c.Name())
	}
}

func TestEncode_Compressed(t *testing.T) {
	p := calibrated(t).Profile()

	for _, comp := range []codec.Compression{codec.CompressionLZ4, codec.CompressionZSTD} {
		data, err := Encode(p, WithCompression(comp))
		require.NoError(t, err)

		got, err := Decode(data, WithCompression(comp))
		require.NoError(t, err)
		assert.Equal(t, p, got, comp.String())

		_, err = Decode(data)
		assert.Error(t, err, "plain decode of %s data", comp)
	}
}

func TestFile_RoundTrip(t *testing.T) {
	src := calibrated(t)
	dir := t.TempDir()

	for _, name := range []string{"profile.json", "profile.json.zst", "profile.json.lz4"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, SaveFile(path, src.Profile()))

			p, err := LoadFile(path)
			require.NoError(t, err)
			dst := kmersim.New()
			require.NoError(t, dst.ApplyProfile(p))
			assert.Equal(t, src.Descriptors(), dst.Descriptors())
			assert.Equal(t, src.Compositions(), dst.Compositions())
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "no temp files left behind")

	plain, err := os.ReadFile(filepath.Join(dir, "profile.json"))
	require.NoError(t, err)
	assert.Equal(t, byte('{'), plain[0])
}

func TestSaveFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	require.NoError(t, SaveFile(path, kmersim.Profile{Version: 1}))
	require.NoError(t, SaveFile(path, calibrated(t).Profile()))

	p, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, p.Compositions, 2)
}

func TestExportImport_Store(t *testing.T) {
	src := calibrated(t)
	store := blobstore.NewMemoryStore()
	ctx := context.Background()

	for _, name := range []string{"runs/a.json", "runs/a.json.zst", "runs/a.json.lz4"} {
		require.NoError(t, Export(ctx, store, name, src))

		dst := kmersim.New()
		require.NoError(t, Import(ctx, store, name, dst))
		assert.Equal(t, src.Descriptors(), dst.Descriptors(), name)
		assert.Equal(t, src.Compositions(), dst.Compositions(), name)
	}

	names, err := store.List(ctx, "runs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"runs/a.json", "runs/a.json.lz4", "runs/a.json.zst"}, names)

	// the extension picks the codec: the zstd blob is not plain JSON
	raw, err := blobstore.ReadAll(ctx, store, "runs/a.json.zst")
	require.NoError(t, err)
	_, err = Decode(raw)
	assert.Error(t, err)
}

func TestImport_Errors(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	store := blobstore.NewLocalStore(dir)

	err := Import(ctx, store, "missing.json", kmersim.New())
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, SaveFile(filepath.Join(dir, "bad.json"), kmersim.Profile{Version: 2}))
	err = Import(ctx, store, "bad.json", kmersim.New())
	assert.ErrorIs(t, err, kmersim.ErrProfileVersion)

	err = Import(ctx, blobstore.NewMemoryStore(), "missing.json", kmersim.New())
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	garbage := filepath.Join(dir, "garbage.json.zst")
	require.NoError(t, os.WriteFile(garbage, []byte("not a block"), 0o644))
	_, err = LoadFile(garbage)
	assert.ErrorIs(t, err, codec.ErrCorrupt)
}
