package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/inodb/footprint-viewer/internal/duckdb"
	"github.com/inodb/footprint-viewer/internal/footprint"
	"github.com/inodb/footprint-viewer/internal/genome"
)

type trackStats struct {
	Name    string               `yaml:"name"`
	Path    string               `yaml:"path"`
	Format  string               `yaml:"format"`
	Records int                  `yaml:"records"`
	Ceiling float64              `yaml:"ceiling"`
	Stats   footprint.Statistics `yaml:"stats"`
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize footprint scores of tracks over a region",
		Example: `  footprint-viewer stats --region Chr1:3000-5000 --track leaf=leaf.parquet
  footprint-viewer stats -r Chr1:3000-5000 -t leaf.tsv -t root.tsv`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{
				"tracks":     "track",
				"radius.min": "radius-min",
				"radius.max": "radius-max",
				"database":   "database",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			regionStr, _ := cmd.Flags().GetString("region")
			return runStats(cmd.Context(), cmd.OutOrStdout(), regionStr)
		},
	}

	cmd.Flags().StringP("region", "r", "", "region to summarize, e.g. Chr1:3000-5000 (required)")
	cmd.Flags().StringArrayP("track", "t", nil, "score track as name=path (repeatable)")
	cmd.Flags().Int("radius-min", footprint.DefaultRadii.Min, "smallest footprint radius")
	cmd.Flags().Int("radius-max", footprint.DefaultRadii.Max, "largest footprint radius")
	cmd.Flags().String("database", "", "DuckDB database file (default: in-memory)")
	_ = cmd.MarkFlagRequired("region")

	return cmd
}

func runStats(ctx context.Context, stdout io.Writer, regionStr string) error {
	w, err := genome.ParseRegion(regionStr)
	if err != nil {
		return err
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

	sources, err := trackSources(store, viper.GetStringSlice("tracks"))
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no tracks given (use --track)")
	}

	var out []trackStats
	for _, fs := range sources {
		cols, err := store.Columns(ctx, fs.Path())
		if err != nil {
			return err
		}
		format := "long"
		if footprint.IsWideColumns(cols) {
			format = "wide"
		}

		table, err := fs.Load(ctx, w)
		if err != nil {
			return fmt.Errorf("load track %s: %w", fs.Name(), err)
		}
		m := footprint.Build(table, w, radii)
		out = append(out, trackStats{
			Name:    fs.Name(),
			Path:    fs.Path(),
			Format:  format,
			Records: table.Len(),
			Ceiling: footprint.Ceiling(m),
			Stats:   footprint.Stats(m),
		})
	}

	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	return enc.Close()
}
