// Package main provides the CLI entrypoint for sortbench.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/sortbench/internal/bench"
	"github.com/verte-zerg/sortbench/internal/config"
	"github.com/verte-zerg/sortbench/internal/generator"
	"github.com/verte-zerg/sortbench/internal/model"
	"github.com/verte-zerg/sortbench/internal/resultsui"
	"github.com/verte-zerg/sortbench/internal/sorting"
	"github.com/verte-zerg/sortbench/internal/stats"
	"github.com/verte-zerg/sortbench/internal/store"
	"github.com/verte-zerg/sortbench/internal/telemetry"
)

const defaultPlotHeight = 10

// defaults seeds the run flags so they always match the engine's defaults.
var defaults = bench.DefaultConfig()

var (
	dbPath string

	runSizes          []int
	runReps           int
	runSeed           int64
	runShapes         []string
	runAlgos          []string
	runSkipQuadratic  bool
	runSkipThreshold  int
	runDisorder       float64
	runMinValue       int
	runMaxValue       int
	runNoStore        bool
	runMetricsFile    string
	runPlot           bool
	runVerbose        bool
	selfcheckAlgos    []string
	selfcheckVariants bool

	reportRun   string
	reportShape string
	reportSize  int
	reportPlot  bool

	runsLast int

	browseRun string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sortbench",
		Short:         "Benchmark classic sorting algorithms",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runBenchCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "results database path (default: XDG data dir)")

	rootCmd.Flags().IntSliceVar(&runSizes, "sizes", defaults.Sizes, "dataset sizes")
	rootCmd.Flags().IntVar(&runReps, "reps", defaults.Repetitions, "repetitions per algorithm, shape and size")
	rootCmd.Flags().Int64Var(&runSeed, "seed", defaults.Seed, "dataset seed")
	rootCmd.Flags().StringSliceVar(&runShapes, "shapes", shapeIDs(), "dataset shapes")
	rootCmd.Flags().StringSliceVar(&runAlgos, "algos", algorithmKeys(), "algorithms to run")
	rootCmd.Flags().BoolVar(&runSkipQuadratic, "skip-quadratic", defaults.SkipLargeQuadratic, "skip O(n^2) algorithms above --skip-threshold")
	rootCmd.Flags().IntVar(&runSkipThreshold, "skip-threshold", defaults.SkipThreshold, "largest size quadratic algorithms run at")
	rootCmd.Flags().Float64Var(&runDisorder, "disorder", model.DefaultDisorderRatio, "fraction of disturbed elements in partially_sorted (0-1)")
	rootCmd.Flags().IntVar(&runMinValue, "min", 0, "smallest generated value (with --max; default 1)")
	rootCmd.Flags().IntVar(&runMaxValue, "max", 0, "largest generated value (with --min; default size*10)")
	rootCmd.Flags().BoolVar(&runNoStore, "no-store", false, "do not persist results")
	rootCmd.Flags().StringVar(&runMetricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")
	rootCmd.Flags().BoolVar(&runPlot, "plot", false, "print scaling plots per shape")
	rootCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "log every trial")

	rootCmd.AddCommand(newSelfcheckCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newRunsCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newDatasetCmd())
	rootCmd.AddCommand(newSortCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runBenchCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	suite := fileCfg.Suite
	applyIntSliceConfig(cmd, "sizes", &runSizes, suite.Sizes)
	applyIntConfig(cmd, "reps", &runReps, suite.Repetitions)
	applyInt64Config(cmd, "seed", &runSeed, suite.Seed)
	applyStringSliceConfig(cmd, "shapes", &runShapes, suite.Shapes)
	applyStringSliceConfig(cmd, "algos", &runAlgos, suite.Algorithms)
	applyBoolConfig(cmd, "skip-quadratic", &runSkipQuadratic, suite.SkipLargeQuadratic)
	applyIntConfig(cmd, "skip-threshold", &runSkipThreshold, suite.SkipThreshold)
	applyFloatConfig(cmd, "disorder", &runDisorder, suite.DisorderRatio)
	applyIntConfig(cmd, "min", &runMinValue, suite.MinValue)
	applyIntConfig(cmd, "max", &runMaxValue, suite.MaxValue)
	applyStringConfig(cmd, "db", &dbPath, fileCfg.Output.DB)
	applyStringConfig(cmd, "metrics-file", &runMetricsFile, fileCfg.Output.MetricsFile)

	cfg, err := buildSuiteConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := bench.NewRunner(cfg)
	runner.SetLogger(newLogger(os.Stderr, runVerbose))
	result, runErr := runner.RunSuite(ctx)
	interrupted := runErr != nil && ctx.Err() != nil
	if runErr != nil && !interrupted {
		return runErr
	}
	if interrupted {
		logErrf("interrupted after %d trials; keeping partial results\n", len(result.Trials))
	}

	report := stats.NewReport(result.Run, result.Trials, result.Skipped)
	if err := printReport(cmd.OutOrStdout(), report, runPlot); err != nil {
		return err
	}

	if !runNoStore {
		if err := storeResult(resolveDBPath(), result); err != nil {
			return err
		}
		logErrf("Saved run %s\n", result.Run.ID)
	}

	if runMetricsFile != "" {
		if err := writeMetrics(runMetricsFile, report); err != nil {
			return err
		}
	}

	if runErr != nil {
		return runErr
	}
	if result.Failures > 0 {
		return fmt.Errorf("%w: %d trials produced incorrect output", bench.ErrVerification, result.Failures)
	}
	return nil
}

func buildSuiteConfig() (bench.Config, error) {
	if !generator.ValidRatio(runDisorder) {
		return bench.Config{}, fmt.Errorf("--disorder must be between 0 and 1")
	}
	shapes, err := parseShapes(runShapes, runDisorder)
	if err != nil {
		return bench.Config{}, err
	}
	algorithms, err := parseAlgorithms(runAlgos)
	if err != nil {
		return bench.Config{}, err
	}
	cfg := bench.Config{
		Sizes:              append([]int(nil), runSizes...),
		Repetitions:        runReps,
		Seed:               runSeed,
		SkipLargeQuadratic: runSkipQuadratic,
		SkipThreshold:      runSkipThreshold,
		Shapes:             shapes,
		Algorithms:         algorithms,
		MinValue:           runMinValue,
		MaxValue:           runMaxValue,
	}
	if err := cfg.Validate(); err != nil {
		return bench.Config{}, err
	}
	return cfg, nil
}

func storeResult(path string, result bench.Result) error {
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if err := st.InsertRun(context.Background(), result.Run, result.Trials, result.Skipped); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

func writeMetrics(path string, report stats.Report) error {
	sink, err := telemetry.NewSink()
	if err != nil {
		return err
	}
	sink.Record(report.Run, report.Summaries, report.Failures())
	return sink.WriteTextfile(path)
}

func printReport(w io.Writer, report stats.Report, plot bool) error {
	if err := stats.RenderSummaryTable(w, report.Summaries); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(report.Summaries) == 0 {
		return nil
	}
	if err := stats.RenderWinners(w, report.Summaries); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(report.Skipped) > 0 {
		if err := stats.RenderSkipped(w, report.Skipped); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if !plot {
		return nil
	}
	for _, shape := range report.Shapes() {
		if err := stats.RenderScaling(w, report.Summaries, shape, 0, defaultPlotHeight, false); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newSelfcheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selfcheck",
		Short: "Verify every algorithm on a fixed reference sequence",
		Args:  cobra.NoArgs,
		RunE:  runSelfcheckCmd,
	}
	cmd.Flags().StringSliceVar(&selfcheckAlgos, "algos", algorithmKeys(), "algorithms to check")
	cmd.Flags().BoolVar(&selfcheckVariants, "variants", false, "also check the alternative implementations")
	return cmd
}

func runSelfcheckCmd(cmd *cobra.Command, _ []string) error {
	algorithms, err := parseAlgorithms(selfcheckAlgos)
	if err != nil {
		return err
	}
	if selfcheckVariants {
		algorithms = appendMissing(algorithms, sorting.Variants())
	}
	if err := bench.SelfCheck(algorithms); err != nil {
		return err
	}
	for _, alg := range algorithms {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "ok  %s\n", alg); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show results of a stored run",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	cmd.Flags().StringVar(&reportRun, "run", "", "run ID (default: latest)")
	cmd.Flags().StringVar(&reportShape, "shape", "", "shape filter")
	cmd.Flags().IntVar(&reportSize, "size", 0, "size filter")
	cmd.Flags().BoolVar(&reportPlot, "plot", false, "print scaling plots per shape")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := reportConfig(reportRun, reportShape, reportSize)
	if err != nil {
		return err
	}
	return withStore(func(st *store.Store) error {
		report, err := stats.BuildReport(cmd.Context(), st, cfg)
		if err != nil {
			return reportLoadError(err)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Run %s (seed %d, %d repetitions)\n\n", report.Run.ID, report.Run.Seed, report.Run.Repetitions); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return printReport(cmd.OutOrStdout(), report, reportPlot)
	})
}

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs",
		Args:  cobra.NoArgs,
		RunE:  runRunsCmd,
	}
	cmd.Flags().IntVar(&runsLast, "last", 0, "limit to last N runs")
	return cmd
}

func runRunsCmd(cmd *cobra.Command, _ []string) error {
	if runsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	return withStore(func(st *store.Store) error {
		runs, err := st.ListRuns(cmd.Context(), runsLast)
		if err != nil {
			return err
		}
		return stats.RenderRuns(cmd.OutOrStdout(), runs)
	})
}

func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse stored results in a TUI",
		Args:  cobra.NoArgs,
		RunE:  runBrowseCmd,
	}
	cmd.Flags().StringVar(&browseRun, "run", "", "run ID (default: latest)")
	return cmd
}

func runBrowseCmd(_ *cobra.Command, _ []string) error {
	return withStore(func(st *store.Store) error {
		load := func(ctx context.Context, cfg model.ReportConfig) (stats.Report, error) {
			report, err := stats.BuildReport(ctx, st, cfg)
			if err != nil {
				return stats.Report{}, reportLoadError(err)
			}
			return report, nil
		}
		m := resultsui.NewModel(load, model.ReportConfig{RunID: browseRun})
		program := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run results TUI: %w", err)
		}
		return nil
	})
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func withStore(fn func(st *store.Store) error) error {
	st, err := store.Open(resolveDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	return fn(st)
}

// resolveDBPath applies the config file's output.db when --db is unset.
func resolveDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if fileCfg, err := config.LoadConfig(config.DefaultConfigPath()); err == nil && fileCfg.Output.DB != nil && *fileCfg.Output.DB != "" {
		return *fileCfg.Output.DB
	}
	return config.DefaultDBPath()
}

func reportConfig(runID, shape string, size int) (model.ReportConfig, error) {
	if size < 0 {
		return model.ReportConfig{}, fmt.Errorf("--size must be >= 0")
	}
	cfg := model.ReportConfig{RunID: strings.TrimSpace(runID), Size: size}
	if strings.TrimSpace(shape) != "" {
		parsed, err := model.ParseShape(shape)
		if err != nil {
			return model.ReportConfig{}, err
		}
		cfg.Shape = parsed.String()
	}
	return cfg, nil
}

func reportLoadError(err error) error {
	if errors.Is(err, store.ErrRunNotFound) {
		return fmt.Errorf("%w\nRun a benchmark first: sortbench --sizes 100,1000", err)
	}
	return err
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntSliceConfig(cmd *cobra.Command, name string, target, value *[]int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = append([]int(nil), (*value)...)
}

func applyStringSliceConfig(cmd *cobra.Command, name string, target, value *[]string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = append([]string(nil), (*value)...)
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# sortbench configuration
# Uncomment a value to enable it. CLI flags override config values.

[suite]
# sizes = %s                 # Dataset sizes
# repetitions = %d                       # Repetitions per algorithm, shape and size
# seed = %d                             # Dataset seed
# shapes = %s
# algorithms = %s
# skip-large-quadratic = true            # Skip O(n^2) algorithms above skip-threshold
# skip-threshold = %d                 # Largest size quadratic algorithms run at
# disorder-ratio = %.2f                  # Disturbed fraction of partially_sorted (0-1)
# min-value = 1                          # Smallest generated value (set with max-value)
# max-value = 1000                       # Largest generated value (set with min-value)

[output]
# db = "/path/to/sortbench.db"           # Results database
# metrics-file = "/path/to/sortbench.prom" # Prometheus textfile metrics
`,
		tomlInts(defaults.Sizes),
		defaults.Repetitions,
		defaults.Seed,
		tomlStrings(shapeIDs()),
		tomlStrings(algorithmKeys()),
		defaults.SkipThreshold,
		model.DefaultDisorderRatio,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
