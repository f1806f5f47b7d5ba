package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/sortbench/internal/bench"
	"github.com/verte-zerg/sortbench/internal/export"
	"github.com/verte-zerg/sortbench/internal/generator"
	"github.com/verte-zerg/sortbench/internal/model"
	"github.com/verte-zerg/sortbench/internal/seqfile"
	"github.com/verte-zerg/sortbench/internal/sorting"
	"github.com/verte-zerg/sortbench/internal/stats"
	"github.com/verte-zerg/sortbench/internal/store"
)

const defaultDatasetSize = 20

var (
	exportFormat string
	exportRun    string
	exportOut    string
	exportTrials bool

	datasetShape    string
	datasetSize     int
	datasetSeed     int64
	datasetDisorder float64
	datasetMin      int
	datasetMax      int
	datasetOut      string

	sortAlgo     string
	sortInput    string
	sortCounters bool
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a stored run as JSON, YAML or CSV",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", string(export.JSON), "output format (json, yaml, csv)")
	cmd.Flags().StringVar(&exportRun, "run", "", "run ID (default: latest)")
	cmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&exportTrials, "trials", false, "include individual trials")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	return withStore(func(st *store.Store) error {
		report, err := stats.BuildReport(cmd.Context(), st, model.ReportConfig{RunID: strings.TrimSpace(exportRun)})
		if err != nil {
			return reportLoadError(err)
		}
		doc := export.NewDocument(report.Run, report.Summaries, report.Trials, report.Skipped, exportTrials)
		if exportOut == "" {
			return export.Write(cmd.OutOrStdout(), format, doc)
		}
		var buf bytes.Buffer
		if err := export.Write(&buf, format, doc); err != nil {
			return err
		}
		if err := writeFileAtomic(exportOut, buf.Bytes()); err != nil {
			return err
		}
		logErrf("Wrote %s\n", exportOut)
		return nil
	})
}

func newDatasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Generate a benchmark dataset",
		Args:  cobra.NoArgs,
		RunE:  runDatasetCmd,
	}
	cmd.Flags().StringVar(&datasetShape, "shape", model.Random.String(), "dataset shape")
	cmd.Flags().IntVar(&datasetSize, "size", defaultDatasetSize, "number of elements")
	cmd.Flags().Int64Var(&datasetSeed, "seed", defaults.Seed, "dataset seed")
	cmd.Flags().Float64Var(&datasetDisorder, "disorder", model.DefaultDisorderRatio, "fraction of disturbed elements in partially_sorted (0-1)")
	cmd.Flags().IntVar(&datasetMin, "min", 0, "smallest generated value (with --max; default 1)")
	cmd.Flags().IntVar(&datasetMax, "max", 0, "largest generated value (with --min; default size*10)")
	cmd.Flags().StringVarP(&datasetOut, "out", "o", "", "output file (default: stdout)")
	return cmd
}

func runDatasetCmd(cmd *cobra.Command, _ []string) error {
	if datasetSize < 0 {
		return fmt.Errorf("--size must be >= 0")
	}
	if !generator.ValidRatio(datasetDisorder) {
		return fmt.Errorf("--disorder must be between 0 and 1")
	}
	shapes, err := parseShapes([]string{datasetShape}, datasetDisorder)
	if err != nil {
		return err
	}
	gen := generator.New(datasetSeed)
	var data []int
	if datasetMin != 0 || datasetMax != 0 {
		if err := generator.CheckRange(datasetMin, datasetMax); err != nil {
			return fmt.Errorf("--min/--max: %w", err)
		}
		data, err = gen.GenerateRange(shapes[0], datasetSize, datasetMin, datasetMax)
	} else {
		data, err = gen.Generate(shapes[0], datasetSize)
	}
	if err != nil {
		return err
	}
	if datasetOut == "" {
		return seqfile.WriteSequence(cmd.OutOrStdout(), data)
	}
	if err := seqfile.WriteFile(datasetOut, data); err != nil {
		return err
	}
	logErrf("Wrote %d values to %s\n", len(data), datasetOut)
	return nil
}

func newSortCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Sort a sequence of integers with one algorithm",
		Args:  cobra.NoArgs,
		RunE:  runSortCmd,
	}
	cmd.Flags().StringVar(&sortAlgo, "algo", sorting.Merge.Key(), "algorithm")
	cmd.Flags().StringVarP(&sortInput, "input", "i", "-", "input file, or - for stdin")
	cmd.Flags().BoolVar(&sortCounters, "counters", false, "print operation counts to stderr")
	return cmd
}

func runSortCmd(cmd *cobra.Command, _ []string) error {
	alg, err := sorting.ParseAlgorithm(sortAlgo)
	if err != nil {
		return err
	}
	var input []int
	if sortInput == "-" {
		input, err = seqfile.ReadSequence(cmd.InOrStdin())
	} else {
		input, err = seqfile.LoadSequence(sortInput)
	}
	if err != nil {
		return err
	}
	output, counters := sorting.SortCounted(alg, input)
	if err := bench.Verify(input, output); err != nil {
		return fmt.Errorf("%s: %w", alg, err)
	}
	if err := seqfile.WriteSequence(cmd.OutOrStdout(), output); err != nil {
		return err
	}
	if sortCounters {
		logErrln(formatCounters(alg, len(input), counters))
	}
	return nil
}

func formatCounters(alg sorting.Algorithm, n int, c sorting.Counters) string {
	return fmt.Sprintf("%s n=%d comparisons=%d swaps=%d shifts=%d writes=%d",
		alg, n, c.Comparisons, c.Swaps, c.Shifts, c.Writes)
}

func parseShapes(ids []string, disorder float64) ([]model.Shape, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("--shapes must not be empty")
	}
	shapes := make([]model.Shape, 0, len(ids))
	for _, id := range ids {
		shape, err := model.ParseShape(id)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(shapeIDs(), ", "))
		}
		if shape.Kind == model.PartiallySorted {
			shape.DisorderRatio = disorder
		}
		shapes = append(shapes, shape)
	}
	return shapes, nil
}

func parseAlgorithms(names []string) ([]sorting.Algorithm, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("--algos must not be empty")
	}
	out := make([]sorting.Algorithm, 0, len(names))
	for _, name := range names {
		alg, err := sorting.ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		out = append(out, alg)
	}
	return out, nil
}

func appendMissing(algorithms, extra []sorting.Algorithm) []sorting.Algorithm {
	for _, alg := range extra {
		if !slices.Contains(algorithms, alg) {
			algorithms = append(algorithms, alg)
		}
	}
	return algorithms
}

func shapeIDs() []string {
	shapes := model.AllShapes()
	ids := make([]string, len(shapes))
	for i, s := range shapes {
		ids[i] = s.String()
	}
	return ids
}

func algorithmKeys() []string {
	algs := sorting.Algorithms()
	keys := make([]string, len(algs))
	for i, a := range algs {
		keys[i] = a.Key()
	}
	return keys
}

func tomlInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func tomlStrings(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Quote(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "export-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
