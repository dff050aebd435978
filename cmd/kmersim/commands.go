package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/kmersim"
	"github.com/hupe1980/kmersim/metric"
	"github.com/hupe1980/kmersim/point"
	"github.com/hupe1980/kmersim/profile"
	"github.com/hupe1980/kmersim/sample"
)

// ErrUnknownQuery is returned when --query names no record.
var ErrUnknownQuery = errors.New("query record not found")

func newMetricsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List the metric catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "BIT\tID\tNAME\tPOLARITY\tSYMMETRIC")
			for _, info := range metric.Catalogue() {
				polarity := "dissimilarity"
				if info.Similarity {
					polarity = "similarity"
				}
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%t\n", info.ID.Bit(), uint64(info.ID), info.Name, polarity, info.Symmetric)
			}
			return tw.Flush()
		},
	}
}

func newCalibrateCmd(a *app) *cobra.Command {
	var (
		fasta    string
		out      string
		finalize bool
	)

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Calibrate metric bounds on a FASTA file and write a profile",
		Long: "calibrate samples pairs of records, records the observed range of every\n" +
			"metric and writes a profile. --out is a local path or an s3://bucket/key or\n" +
			"minio://bucket/key URI; the compression follows its extension (.zst, .lz4 or none).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, name, err := a.openStore(cmd.Context(), out)
			if err != nil {
				return err
			}
			_, pts, err := a.loadPoints(fasta)
			if err != nil {
				return err
			}
			r, err := a.newRegistry(true)
			if err != nil {
				return err
			}
			defer r.Close()

			if err := a.calibrate(cmd, r, pts); err != nil {
				return err
			}
			if finalize {
				r.FinalizeAll()
			}
			if err := profile.Export(cmd.Context(), store, name, r); err != nil {
				return err
			}
			a.logger.Info("profile written", "location", out)
			return writeBounds(a.stdout, r)
		},
	}

	f := cmd.Flags()
	f.StringVar(&fasta, "fasta", "", "FASTA input (- for stdin)")
	f.StringVar(&out, "out", "profile.json", "profile output path or s3:// / minio:// URI")
	f.BoolVar(&finalize, "finalize", false, "freeze the calibrated bounds in the profile")
	_ = cmd.MarkFlagRequired("fasta")
	return cmd
}

func newScoreCmd(a *app) *cobra.Command {
	var (
		fasta   string
		prof    string
		query   string
		withRaw bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Print normalized metric scores for pairs of FASTA records",
		Long: "score prints one tab separated line per pair. Bounds come from --profile,\n" +
			"or from calibrating on the input itself.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recs, pts, err := a.loadPoints(fasta)
			if err != nil {
				return err
			}

			r, err := a.newRegistry(prof == "")
			if err != nil {
				return err
			}
			defer r.Close()

			if prof != "" {
				store, name, err := a.openStore(cmd.Context(), prof)
				if err != nil {
					return err
				}
				if err := profile.Import(cmd.Context(), store, name, r); err != nil {
					return err
				}
			} else if err := a.calibrate(cmd, r, pts); err != nil {
				return err
			}

			pairs := sample.All(pts)
			if query != "" {
				qi := -1
				for i, rec := range recs {
					if rec.Name == query {
						qi = i
						break
					}
				}
				if qi < 0 {
					return fmt.Errorf("%w: %s", ErrUnknownQuery, query)
				}
				pairs = sample.Against(pts[qi], pts)
			}

			raw, err := r.ComputeBatch(cmd.Context(), pairs)
			if err != nil {
				return err
			}
			return writeScores(a.stdout, r, recs, pairs, raw, withRaw)
		},
	}

	f := cmd.Flags()
	f.StringVar(&fasta, "fasta", "", "FASTA input (- for stdin)")
	f.StringVar(&prof, "profile", "", "profile written by calibrate (path or s3:// / minio:// URI)")
	f.StringVar(&query, "query", "", "score only this record against the others")
	f.BoolVar(&withRaw, "raw", false, "also print raw values")
	_ = cmd.MarkFlagRequired("fasta")
	return cmd
}

// calibrate runs calibration on the configured sample of pairs.
func (a *app) calibrate(cmd *cobra.Command, r *kmersim.Registry, pts []*point.Kmer) error {
	pairs := sample.All(pts)
	if a.cfg.Samples > 0 {
		pairs = sample.Pairs(pts, a.cfg.Samples, a.cfg.Seed)
	}
	start := time.Now()
	if err := r.Calibrate(cmd.Context(), pairs); err != nil {
		return fmt.Errorf("calibrate: %w", err)
	}
	a.logger.Debug("sample calibrated", "pairs", len(pairs), "duration", time.Since(start))
	return nil
}

func writeBounds(w io.Writer, r *kmersim.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tMIN\tMAX\tFINALIZED")
	for _, d := range r.Descriptors() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", d.Name, formatFloat(d.Min), formatFloat(d.Max), d.Finalized)
	}
	return tw.Flush()
}

func writeScores(w io.Writer, r *kmersim.Registry, recs []record, pairs []point.Pair, raw [][]float64, withRaw bool) error {
	descs := r.Descriptors()

	header := []string{"a", "b"}
	for _, d := range descs {
		header = append(header, d.Name)
	}
	if withRaw {
		for _, d := range descs {
			header = append(header, d.Name+"_raw")
		}
	}
	if _, err := fmt.Fprintln(w, strings.Join(header, "\t")); err != nil {
		return err
	}

	row := make([]string, 0, len(header))
	for i, p := range pairs {
		norm, err := r.Normalize(raw[i])
		if err != nil {
			return err
		}
		row = append(row[:0], recs[p.A.ID()].Name, recs[p.B.ID()].Name)
		for _, v := range norm {
			row = append(row, formatFloat(v))
		}
		if withRaw {
			for _, v := range raw[i] {
				row = append(row, formatFloat(v))
			}
		}
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
