package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hupe1980/kmersim"
	"github.com/hupe1980/kmersim/blobstore"
	miniostore "github.com/hupe1980/kmersim/blobstore/minio"
	s3store "github.com/hupe1980/kmersim/blobstore/s3"
	"github.com/hupe1980/kmersim/metric"
	"github.com/hupe1980/kmersim/point"
	"github.com/hupe1980/kmersim/promcollector"
	"github.com/hupe1980/kmersim/resource"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// app carries the resolved configuration and shared dependencies through the
// command tree.
type app struct {
	cfg       Config
	envFile   string
	logger    *kmersim.Logger
	collector kmersim.MetricsCollector
	stdout    io.Writer
	stderr    io.Writer
	server    *http.Server
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	def := DefaultConfig()

	cmd := &cobra.Command{
		Use:     "kmersim",
		Short:   "Calibrated k-mer similarity scores between sequences",
		Long:    "kmersim computes an ensemble of k-mer frequency metrics between FASTA sequences,\ncalibrates each metric on a sample of pairs and rescales it to [0,1].",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.shutdown(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file with KMERSIM_* variables")
	pf.String("log-level", def.LogLevel, "log level (debug, info, warn, error)")
	pf.String("log-format", def.LogFormat, "log format (text, json)")
	pf.Int("k", def.K, "k-mer size")
	pf.StringSlice("metrics", def.Metrics, "comma separated metric names, or all")
	pf.String("composition", def.Composition, "composition kind declared for the metrics")
	pf.Int("samples", def.Samples, "number of calibration pairs (0 uses every pair)")
	pf.Int64("seed", def.Seed, "seed of the calibration sample")
	pf.Int("workers", def.Workers, "evaluation workers (0 uses GOMAXPROCS)")
	pf.Uint64("pseudocount", def.Pseudocount, "pseudocount added to every k-mer bin")
	pf.Int64("memory-limit", def.MemoryLimit, "cache memory limit in bytes (0 is unlimited)")
	pf.Float64("alignments-per-sec", def.AlignmentsPerSec, "alignment rate limit (0 is unlimited)")
	pf.String("metrics-addr", def.MetricsAddr, "serve Prometheus metrics on this address")

	cmd.AddCommand(
		newMetricsCmd(a),
		newCalibrateCmd(a),
		newScoreCmd(a),
	)
	return cmd
}

// init loads the configuration, applies flag overrides and builds the logger.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := LoadConfig(a.envFile)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	a.logger, err = newLogger(a.stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	a.collector = kmersim.NoopMetricsCollector{}
	if cfg.MetricsAddr != "" {
		if err := a.serveMetrics(cfg.MetricsAddr); err != nil {
			return err
		}
	}
	return nil
}

// applyFlags overrides cfg with every flag set on the command line.
func applyFlags(cmd *cobra.Command, cfg *Config) error {
	fs := cmd.Flags()
	var err error
	set := func(name string, apply func() error) {
		if err == nil && fs.Changed(name) {
			err = apply()
		}
	}

	set("log-level", func() (e error) { cfg.LogLevel, e = fs.GetString("log-level"); return })
	set("log-format", func() (e error) { cfg.LogFormat, e = fs.GetString("log-format"); return })
	set("k", func() (e error) { cfg.K, e = fs.GetInt("k"); return })
	set("metrics", func() (e error) { cfg.Metrics, e = fs.GetStringSlice("metrics"); return })
	set("composition", func() (e error) { cfg.Composition, e = fs.GetString("composition"); return })
	set("samples", func() (e error) { cfg.Samples, e = fs.GetInt("samples"); return })
	set("seed", func() (e error) { cfg.Seed, e = fs.GetInt64("seed"); return })
	set("workers", func() (e error) { cfg.Workers, e = fs.GetInt("workers"); return })
	set("pseudocount", func() (e error) { cfg.Pseudocount, e = fs.GetUint64("pseudocount"); return })
	set("memory-limit", func() (e error) { cfg.MemoryLimit, e = fs.GetInt64("memory-limit"); return })
	set("alignments-per-sec", func() (e error) { cfg.AlignmentsPerSec, e = fs.GetFloat64("alignments-per-sec"); return })
	set("metrics-addr", func() (e error) { cfg.MetricsAddr, e = fs.GetString("metrics-addr"); return })
	return err
}

func newLogger(w io.Writer, level, format string) (*kmersim.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return kmersim.NewLogger(slog.NewJSONHandler(w, opts)), nil
	}
	return kmersim.NewLogger(slog.NewTextHandler(w, opts)), nil
}

// serveMetrics exposes a Prometheus registry on addr for the lifetime of the
// command.
func (a *app) serveMetrics(addr string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.collector = promcollector.New(reg)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	a.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "error", err)
		}
	}()
	a.logger.Info("serving metrics", "addr", ln.Addr().String())
	return nil
}

func (a *app) shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return a.server.Shutdown(ctx)
}

// newRegistry builds a registry. With register set, the configured metrics
// are registered; otherwise a profile is expected to supply them.
func (a *app) newRegistry(register bool) (*kmersim.Registry, error) {
	ids, err := metric.ParseNames(a.cfg.Metrics)
	if err != nil {
		return nil, err
	}
	kind, err := kmersim.ParseCompositionKind(a.cfg.Composition)
	if err != nil {
		return nil, err
	}

	workers := a.cfg.EffectiveWorkers()
	rc := resource.NewController(resource.Config{
		MemoryLimitBytes: a.cfg.MemoryLimit,
		MaxWorkers:       int64(workers),
		AlignmentsPerSec: a.cfg.AlignmentsPerSec,
	})

	a.logger.Debug("resource limits", "memory_limit", rc.MemoryLimit(), "workers", rc.MaxWorkers())

	r := kmersim.New(
		kmersim.WithLogger(a.logger),
		kmersim.WithMetricsCollector(a.collector),
		kmersim.WithWorkers(workers),
		kmersim.WithResourceController(rc),
	)
	if !register {
		return r, nil
	}
	if err := r.Register(ids, kind); err != nil {
		return nil, err
	}
	return r, nil
}

// openStore resolves a profile location to a store and the blob name in it.
func (a *app) openStore(ctx context.Context, uri string) (blobstore.BlobStore, string, error) {
	loc, err := blobstore.ParseLocation(uri)
	if err != nil {
		return nil, "", err
	}

	switch loc.Scheme {
	case blobstore.SchemeS3:
		var opts []s3store.Option
		if a.cfg.S3Region != "" {
			opts = append(opts, s3store.WithRegion(a.cfg.S3Region))
		}
		if a.cfg.S3Endpoint != "" {
			opts = append(opts, s3store.WithEndpoint(a.cfg.S3Endpoint))
		}
		store, err := s3store.New(ctx, loc.Bucket, opts...)
		if err != nil {
			return nil, "", err
		}
		return store, loc.Key, nil
	case blobstore.SchemeMinio:
		if a.cfg.MinioEndpoint == "" {
			return nil, "", ErrNoMinioEndpoint
		}
		client, err := miniostore.Dial(a.cfg.MinioEndpoint, a.cfg.MinioAccessKey, a.cfg.MinioSecretKey, a.cfg.MinioSecure)
		if err != nil {
			return nil, "", fmt.Errorf("minio client: %w", err)
		}
		return miniostore.NewStore(client, loc.Bucket, ""), loc.Key, nil
	default:
		return blobstore.NewLocalStore(loc.Bucket), loc.Key, nil
	}
}

// loadPoints reads a FASTA file and counts k-mers for every record.
func (a *app) loadPoints(path string) ([]record, []*point.Kmer, error) {
	recs, err := readFASTAFile(path)
	if err != nil {
		return nil, nil, err
	}
	pts := make([]*point.Kmer, len(recs))
	for i, rec := range recs {
		p, err := point.FromSequence(uint64(i), rec.Seq, a.cfg.K, point.WithPseudocount(a.cfg.Pseudocount))
		if err != nil {
			return nil, nil, fmt.Errorf("record %s: %w", rec.Name, err)
		}
		pts[i] = p
	}
	a.logger.Debug("points loaded", "path", path, "records", len(recs), "k", a.cfg.K)
	return recs, pts, nil
}

func execute(ctx context.Context, args []string) int {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
