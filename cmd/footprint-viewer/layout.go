package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/footprint-viewer/internal/duckdb"
	"github.com/inodb/footprint-viewer/internal/footprint"
	"github.com/inodb/footprint-viewer/internal/genome"
	"github.com/inodb/footprint-viewer/internal/output"
	"github.com/inodb/footprint-viewer/internal/region"
)

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Assemble transcript rows and footprint tracks for a region",
		Long: `Extract transcript components from a GFF3 file, pack transcripts into rows,
and build one footprint heatmap per score track over the region.

Score tracks are parquet, CSV or TSV files in wide (chrom, pos, r2..rN) or
long (chrom, pos, radius, score) form. With one track the color scale uses
that track's maximum; with several tracks the scale is shared.`,
		Example: `  footprint-viewer layout --gff TAIR10.gff3 --region Chr1:3000-5000 --track leaf=leaf.parquet
  footprint-viewer layout --gff TAIR10.gff3.gz --region Chr1:3000-5000 \
    --track leaf=leaf.tsv --track root=root.tsv --highlight 4000-4200 -o out/`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{
				"gff":        "gff",
				"tracks":     "track",
				"radius.min": "radius-min",
				"radius.max": "radius-max",
				"workers":    "workers",
				"cache_dir":  "cache-dir",
				"no_cache":   "no-cache",
				"database":   "database",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			regionStr, _ := cmd.Flags().GetString("region")
			highlightStr, _ := cmd.Flags().GetString("highlight")
			outputDir, _ := cmd.Flags().GetString("output-dir")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runLayout(ctx, cmd.OutOrStdout(), regionStr, highlightStr, outputDir)
		},
	}

	cmd.Flags().String("gff", "", "GFF3 annotation file (plain or gzipped)")
	cmd.Flags().StringP("region", "r", "", "region to show, e.g. Chr1:3000-5000 (required)")
	cmd.Flags().StringArrayP("track", "t", nil, "score track as name=path (repeatable)")
	cmd.Flags().Int("radius-min", footprint.DefaultRadii.Min, "smallest footprint radius")
	cmd.Flags().Int("radius-max", footprint.DefaultRadii.Max, "largest footprint radius")
	cmd.Flags().String("highlight", "", "regions to highlight, e.g. 4000-4200,4800-5000")
	cmd.Flags().StringP("output-dir", "o", "", "directory for tab-delimited output (default: summary on stdout)")
	cmd.Flags().Int("workers", 0, "parallel track loads (default: number of CPUs)")
	cmd.Flags().String("cache-dir", "", "annotation record cache (default: ~/.footprint-viewer/cache)")
	cmd.Flags().Bool("no-cache", false, "always parse the GFF3 file")
	cmd.Flags().String("database", "", "DuckDB database file (default: in-memory)")
	_ = cmd.MarkFlagRequired("region")

	return cmd
}

// bindFlags binds viper keys to command flags.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, flag := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}

func runLayout(ctx context.Context, stdout io.Writer, regionStr, highlightStr, outputDir string) error {
	w, err := genome.ParseRegion(regionStr)
	if err != nil {
		return err
	}
	highlights, err := genome.ParseHighlights(highlightStr)
	if err != nil {
		return err
	}

	gffPath := viper.GetString("gff")
	if gffPath == "" {
		return fmt.Errorf("no GFF3 file given (use --gff or set gff in the config)")
	}

	radii := footprint.RadiusRange{Min: viper.GetInt("radius.min"), Max: viper.GetInt("radius.max")}
	if radii.Count() == 0 {
		return fmt.Errorf("invalid radius range %d-%d", radii.Min, radii.Max)
	}

	store, err := duckdb.Open(viper.GetString("database"))
	if err != nil {
		return err
	}
	defer store.Close()
	store.SetLogger(logger)

	files, err := trackSources(store, viper.GetStringSlice("tracks"))
	if err != nil {
		return err
	}
	sources := make([]footprint.Source, len(files))
	for i, f := range files {
		sources[i] = f
	}

	opts := region.Options{Workers: viper.GetInt("workers"), Logger: logger}
	if !viper.GetBool("no_cache") {
		dir := viper.GetString("cache_dir")
		if dir == "" {
			dir = filepath.Join(DefaultDataDir(), "cache")
		}
		rc := duckdb.NewRecordCache(dir)
		rc.SetLogger(logger)
		opts.Records = rc
	}

	logger.Info("assembling region",
		zap.Stringer("region", w),
		zap.String("gff", gffPath),
		zap.Int("tracks", len(sources)))

	fig, err := region.Build(ctx, region.Request{
		Window:     w,
		GFFPath:    gffPath,
		Tracks:     sources,
		Radii:      radii,
		Highlights: highlights,
	}, opts)
	if err != nil {
		return err
	}

	if outputDir == "" {
		return output.WriteSummary(stdout, fig)
	}
	return writeFigure(outputDir, fig)
}

// trackSources turns "name=path" flag values into score sources. A value
// without a name is named after its file.
func trackSources(store *duckdb.Store, values []string) ([]*duckdb.FileSource, error) {
	seen := make(map[string]bool)
	sources := make([]*duckdb.FileSource, 0, len(values))
	for _, v := range values {
		name, path, ok := strings.Cut(v, "=")
		if !ok {
			path = v
			name = trackName(path)
		}
		if name == "" || path == "" {
			return nil, fmt.Errorf("invalid track %q: expected name=path", v)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate track name %q", name)
		}
		seen[name] = true
		sources = append(sources, store.Source(name, path))
	}
	return sources, nil
}

// trackName derives a track name from a score file path.
func trackName(path string) string {
	name := filepath.Base(path)
	for _, ext := range []string{".gz", ".parquet", ".pq", ".tsv", ".csv", ".txt"} {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

// writeFigure writes the figure as tab-delimited files plus a YAML summary.
func writeFigure(dir string, fig *region.Figure) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	rowOf := fig.RowOf()
	err := writeFile(filepath.Join(dir, "features.tsv"), func(out io.Writer) error {
		fw := output.NewFeatureWriter(out, nil)
		if err := fw.WriteHeader(); err != nil {
			return err
		}
		for _, f := range fig.AbsoluteFeatures() {
			row, ok := rowOf[f.Transcript]
			if !ok {
				row = -1
			}
			if err := fw.Write(fig.Window.Chrom, f, row); err != nil {
				return err
			}
		}
		return fw.Flush()
	})
	if err != nil {
		return err
	}

	err = writeFile(filepath.Join(dir, "rows.tsv"), func(out io.Writer) error {
		rw := output.NewRowWriter(out, fig.Window)
		if err := rw.WriteHeader(); err != nil {
			return err
		}
		for i, r := range fig.Rows {
			if err := rw.Write(i, r); err != nil {
				return err
			}
		}
		return rw.Flush()
	})
	if err != nil {
		return err
	}

	for _, t := range fig.Tracks {
		name := strings.ReplaceAll(t.Name, string(filepath.Separator), "_") + ".matrix.tsv"
		err := writeFile(filepath.Join(dir, name), func(out io.Writer) error {
			mw := output.NewMatrixWriter(out, t.Matrix)
			if err := mw.WriteHeader(); err != nil {
				return err
			}
			if err := mw.Write(); err != nil {
				return err
			}
			return mw.Flush()
		})
		if err != nil {
			return err
		}
	}

	if err := writeFile(filepath.Join(dir, "summary.yaml"), func(out io.Writer) error {
		return output.WriteSummary(out, fig)
	}); err != nil {
		return err
	}

	logger.Info("wrote figure data", zap.String("dir", dir), zap.Int("tracks", len(fig.Tracks)))
	return nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
