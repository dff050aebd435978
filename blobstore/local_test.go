package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalBlobStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)

	ctx := context.Background()

	// 1. Put a blob
	blobName := "profile.json"
	data := []byte(`{"version":1,"compositions":[],"bounds":[]}`)
	require.NoError(t, store.Put(ctx, blobName, data))

	_, err := os.Stat(filepath.Join(tmpDir, blobName))
	require.NoError(t, err)

	// 2. Open and ReadAt
	blob, err := store.Open(ctx, blobName)
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 7)
	n, err := blob.ReadAt(ctx, buf, 2)
	require.NoError(t, err)
	require.Equal(t, 7, n)
	require.Equal(t, "version", string(buf))

	_, err = blob.ReadAt(ctx, buf, int64(len(data)))
	require.ErrorIs(t, err, io.EOF)

	// 3. Nested names and List
	require.NoError(t, store.Put(ctx, "runs/a.json.zst", []byte("x")))
	require.NoError(t, store.Put(ctx, "runs/b.json.lz4", []byte("y")))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{blobName, "runs/a.json.zst", "runs/b.json.lz4"}, names)

	names, err = store.List(ctx, "runs/")
	require.NoError(t, err)
	require.Equal(t, []string{"runs/a.json.zst", "runs/b.json.lz4"}, names)

	// 4. Delete
	require.NoError(t, store.Delete(ctx, blobName))
	require.NoError(t, store.Delete(ctx, blobName), "deleting twice is fine")

	_, err = store.Open(ctx, blobName)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalBlobStore_PutReplaces(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "p.json", []byte("first version")))
	require.NoError(t, store.Put(ctx, "p.json", []byte("second")))

	data, err := ReadAll(ctx, store, "p.json")
	require.NoError(t, err)
	require.Equal(t, "second", string(data))

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
}

func TestLocalBlobStore_MissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "absent"))

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestLocalBlobStore_CanceledRead(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	require.NoError(t, store.Put(context.Background(), "p", []byte("abc")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ReadAll(ctx, store, "p")
	require.ErrorIs(t, err, context.Canceled)
}
