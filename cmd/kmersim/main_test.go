package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmersim/blobstore"
	miniostore "github.com/hupe1980/kmersim/blobstore/minio"
	"github.com/hupe1980/kmersim/metric"
	"github.com/hupe1980/kmersim/profile"
	"github.com/hupe1980/kmersim/testutil"
)

func writeFASTA(t *testing.T, n int) string {
	t.Helper()
	rng := testutil.NewRNG(17)
	base := rng.Sequence(300)

	var b strings.Builder
	for i := range n {
		fmt.Fprintf(&b, ">s%d\n%s\n", i, rng.Mutate(base, 0.05*float64(i+1)))
	}
	path := filepath.Join(t.TempDir(), "in.fa")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMetricsCommand(t *testing.T) {
	out, err := run(t, "metrics")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(metric.Catalogue())+1)
	assert.Contains(t, lines[0], "POLARITY")
	assert.Contains(t, out, "align")
	assert.Contains(t, out, "n2rrc")
}

func TestCalibrateAndScore(t *testing.T) {
	fasta := writeFASTA(t, 6)
	prof := filepath.Join(t.TempDir(), "profile.json.zst")

	out, err := run(t, "calibrate", "--fasta", fasta, "--out", prof, "--k", "3",
		"--metrics", "euclidean,jaccard,markov", "--samples", "10", "--finalize")
	require.NoError(t, err)
	assert.Contains(t, out, "euclidean")
	assert.Contains(t, out, "true")

	p, err := profile.LoadFile(prof)
	require.NoError(t, err)
	require.Len(t, p.Bounds, 3)
	for _, b := range p.Bounds {
		assert.True(t, b.Finalized, b.Metric)
		assert.LessOrEqual(t, b.Min, b.Max, b.Metric)
	}

	out, err = run(t, "score", "--fasta", fasta, "--k", "3", "--profile", prof, "--raw")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1+15)
	// descriptors follow bit order
	assert.Equal(t, "a\tb\teuclidean\tmarkov\tjaccard\teuclidean_raw\tmarkov_raw\tjaccard_raw", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "s0\ts1\t"))
	for _, line := range lines[1:] {
		assert.Len(t, strings.Split(line, "\t"), 8)
	}
}

func TestScore_Query(t *testing.T) {
	fasta := writeFASTA(t, 5)

	out, err := run(t, "score", "--fasta", fasta, "--k", "2", "--metrics", "pearson", "--query", "s3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	for _, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, "s3\t"), line)
	}

	_, err = run(t, "score", "--fasta", fasta, "--query", "nope")
	assert.ErrorIs(t, err, ErrUnknownQuery)
}

func TestCommand_Errors(t *testing.T) {
	fasta := writeFASTA(t, 3)

	_, err := run(t, "score", "--fasta", fasta, "--metrics", "cosine")
	assert.ErrorIs(t, err, metric.ErrUnknownMetric)

	_, err = run(t, "score", "--fasta", fasta, "--k", "0")
	assert.ErrorIs(t, err, ErrInvalidK)

	_, err = run(t, "calibrate")
	assert.Error(t, err, "--fasta is required")

	_, err = run(t, "score", "--fasta", fasta, "--log-level", "loud")
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}

func TestProfileLocations(t *testing.T) {
	t.Setenv("KMERSIM_MINIO_ENDPOINT", "")
	fasta := writeFASTA(t, 3)

	_, err := run(t, "calibrate", "--fasta", fasta, "--out", "minio://profiles/p.json")
	assert.ErrorIs(t, err, ErrNoMinioEndpoint)

	_, err = run(t, "score", "--fasta", fasta, "--profile", "gs://profiles/p.json")
	assert.ErrorIs(t, err, blobstore.ErrInvalidLocation)

	// local directories are created on demand
	nested := filepath.Join(t.TempDir(), "runs", "2024", "p.json.lz4")
	_, err = run(t, "calibrate", "--fasta", fasta, "--out", nested)
	require.NoError(t, err)
	_, err = run(t, "score", "--fasta", fasta, "--profile", nested)
	require.NoError(t, err)

	_, err = run(t, "score", "--fasta", fasta, "--profile", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestOpenStore(t *testing.T) {
	a := &app{cfg: DefaultConfig()}
	ctx := context.Background()

	store, name, err := a.openStore(ctx, filepath.Join("out", "p.json"))
	require.NoError(t, err)
	assert.IsType(t, &blobstore.LocalStore{}, store)
	assert.Equal(t, "p.json", name)

	a.cfg.MinioEndpoint = "localhost:9000"
	store, name, err = a.openStore(ctx, "minio://profiles/runs/p.json.zst")
	require.NoError(t, err)
	assert.IsType(t, &miniostore.Store{}, store)
	assert.Equal(t, "runs/p.json.zst", name)
}
