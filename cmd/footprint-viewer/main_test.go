package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/inodb/footprint-viewer/internal/duckdb"
)

const testGFF = "##gff-version 3\n" +
	"Chr1\tTAIR10\tmRNA\t50\t250\t.\t+\t.\tID=t1;Name=GeneA\n" +
	"Chr1\tTAIR10\tfive_prime_UTR\t90\t120\t.\t+\t.\tParent=t1\n" +
	"Chr1\tTAIR10\tCDS\t150\t180\t.\t+\t0\tID=c1;Parent=t1\n" +
	"Chr1\tTAIR10\tmRNA\t160\t400\t.\t-\t.\tID=t2;Name=GeneB\n" +
	"Chr1\tTAIR10\tCDS\t170\t300\t.\t-\t0\tParent=t2\n"

const testScores = "chrom,pos,radius,score\n" +
	"Chr1,150,2,3.2\n" +
	"Chr1,151,3,1.0\n"

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the CLI with a fresh viper and config file.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	cfgFile, verbose = "", false
	t.Cleanup(viper.Reset)

	cfg := writeTemp(t, t.TempDir(), "config.yaml", "workers: 1\n")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", cfg))
	err := cmd.Execute()
	return out.String(), err
}

func TestLayout_Summary(t *testing.T) {
	dir := t.TempDir()
	gff := writeTemp(t, dir, "genes.gff3", testGFF)
	scores := writeTemp(t, dir, "root.csv", testScores)

	out, err := execute(t, "layout", "--gff", gff, "--region", "Chr1:100-200",
		"--track", "root="+scores, "--highlight", "120-140", "--no-cache")
	require.NoError(t, err)

	var summary struct {
		Region   string     `yaml:"region"`
		Rows     [][]string `yaml:"rows"`
		Ceiling  float64    `yaml:"color_ceiling"`
		Features []struct {
			Label string `yaml:"label"`
			Start int64  `yaml:"start"`
			Row   int    `yaml:"row"`
		} `yaml:"features"`
		Tracks []struct {
			Name string `yaml:"name"`
		} `yaml:"tracks"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "Chr1:100-200", summary.Region)
	assert.Equal(t, [][]string{{"GeneA"}, {"GeneB"}}, summary.Rows)
	require.Len(t, summary.Features, 3)
	assert.Equal(t, "GeneA-5UTR", summary.Features[0].Label)
	assert.Equal(t, int64(100), summary.Features[0].Start)
	assert.Equal(t, 1, summary.Features[2].Row)
	assert.Equal(t, 3.2, summary.Ceiling)
	require.Len(t, summary.Tracks, 1)
	assert.Equal(t, "root", summary.Tracks[0].Name)
}

func TestLayout_OutputDir(t *testing.T) {
	dir := t.TempDir()
	gff := writeTemp(t, dir, "genes.gff3", testGFF)
	leaf := writeTemp(t, dir, "leaf.csv", "chrom,pos,radius,score\nChr1,150,2,0\n")
	root := writeTemp(t, dir, "root.csv", testScores)
	outDir := filepath.Join(dir, "out")

	_, err := execute(t, "layout", "--gff", gff, "-r", "Chr1:100-200",
		"-t", leaf, "-t", "root="+root, "--cache-dir", filepath.Join(dir, "cache"), "-o", outDir)
	require.NoError(t, err)

	for _, name := range []string{"features.tsv", "rows.tsv", "leaf.matrix.tsv", "root.matrix.tsv", "summary.yaml"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}

	features, err := os.ReadFile(filepath.Join(outDir, "features.tsv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(features)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "Chr1\t100\t120\t+\tGeneA\t5UTR\t"))
	assert.True(t, strings.HasPrefix(lines[3], "Chr1\t170\t200\t-\tGeneB\tCDS\t"))

	rows, err := os.ReadFile(filepath.Join(outDir, "rows.tsv"))
	require.NoError(t, err)
	assert.Contains(t, string(rows), "1\tGeneB\tChr1\t170\t200")

	// The first run populated the record cache.
	src, err := duckdb.StatFile(gff)
	require.NoError(t, err)
	assert.True(t, duckdb.NewRecordCache(filepath.Join(dir, "cache")).Valid(src, "Chr1"))
}

func TestLayout_Errors(t *testing.T) {
	dir := t.TempDir()
	gff := writeTemp(t, dir, "genes.gff3", testGFF)

	_, err := execute(t, "layout", "--gff", gff, "--region", "Chr1:200-100", "--no-cache")
	assert.Error(t, err)

	_, err = execute(t, "layout", "--region", "Chr1:100-200", "--no-cache")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no GFF3 file")

	_, err = execute(t, "layout", "--gff", gff, "--region", "Chr1:100-200", "--no-cache",
		"-t", "a="+gff, "-t", "a="+gff)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate track")
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	scores := writeTemp(t, dir, "root.csv", testScores)

	out, err := execute(t, "stats", "-r", "Chr1:100-200", "-t", scores)
	require.NoError(t, err)

	var stats []trackStats
	require.NoError(t, yaml.Unmarshal([]byte(out), &stats))
	require.Len(t, stats, 1)
	assert.Equal(t, "root", stats[0].Name)
	assert.Equal(t, "long", stats[0].Format)
	assert.Equal(t, 2, stats[0].Records)
	assert.Equal(t, 3.2, stats[0].Ceiling)
	assert.Equal(t, 2, stats[0].Stats.NonZeroPoints)
}

func TestConfigSetGet(t *testing.T) {
	out, err := execute(t, "config", "get", "workers")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	out, err = execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "workers: 1")

	_, err = execute(t, "config", "get", "missing")
	assert.Error(t, err)
}

func TestConfigSet(t *testing.T) {
	viper.Reset()
	cfgFile, verbose = "", false
	t.Cleanup(viper.Reset)

	cfg := writeTemp(t, t.TempDir(), "config.yaml", "workers: 1\n")
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "set", "radius.max", "80", "--config", cfg})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Set radius.max = 80")

	data, err := os.ReadFile(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "max: 80")
}

func TestConfigSet_TypedValues(t *testing.T) {
	viper.Reset()
	cfgFile, verbose = "", false
	t.Cleanup(viper.Reset)

	cfg := writeTemp(t, t.TempDir(), "config.yaml", "workers: 1\n")
	run := func(args ...string) error {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append(args, "--config", cfg))
		return cmd.Execute()
	}

	require.NoError(t, run("config", "set", "tracks", "leaf=leaf.tsv, root=root.tsv"))
	require.NoError(t, run("config", "set", "no_cache", "yes"))

	data, err := os.ReadFile(cfg)
	require.NoError(t, err)
	var saved struct {
		Tracks  []string `yaml:"tracks"`
		NoCache bool     `yaml:"no_cache"`
	}
	require.NoError(t, yaml.Unmarshal(data, &saved))
	assert.Equal(t, []string{"leaf=leaf.tsv", "root=root.tsv"}, saved.Tracks)
	assert.True(t, saved.NoCache)

	err = run("config", "set", "workers", "many")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers must be an integer")

	err = run("config", "set", "radius", "80")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")
}

func TestParseConfigValue(t *testing.T) {
	v, err := parseConfigValue("radius.min", "5")
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	v, err = parseConfigValue("gff", "genes.gff3")
	require.NoError(t, err)
	assert.Equal(t, "genes.gff3", v)

	v, err = parseConfigValue("no_cache", "off")
	require.NoError(t, err)
	assert.Equal(t, false, v)

	_, err = parseConfigValue("no_cache", "maybe")
	assert.Error(t, err)
}

func TestConfigKeysAndPath(t *testing.T) {
	out, err := execute(t, "config", "keys")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(configKeys))
	assert.True(t, strings.HasPrefix(lines[0], "cache_dir"))
	assert.Contains(t, out, "largest footprint radius")

	out, err = execute(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", filepath.Base(strings.TrimSpace(out)))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "footprint-viewer version dev (none) built unknown\n", out)
}

func TestTrackName(t *testing.T) {
	assert.Equal(t, "leaf", trackName("/data/leaf.tsv.gz"))
	assert.Equal(t, "root", trackName("root.parquet"))
	assert.Equal(t, "inflorescence.v2", trackName("inflorescence.v2.csv"))
}
