// Package export serializes benchmark results as JSON, YAML or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/sortbench/internal/model"
)

// ErrUnknownFormat is returned for an unsupported export format.
var ErrUnknownFormat = errors.New("unknown export format")

// Format selects an encoding.
type Format string

// Supported formats.
const (
	JSON Format = "json"
	YAML Format = "yaml"
	CSV  Format = "csv"
)

// ParseFormat resolves a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case JSON, YAML, CSV:
		return f, nil
	case "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: %q (want json, yaml or csv)", ErrUnknownFormat, name)
}

// Document is the exported view of one run. Times are in seconds.
type Document struct {
	Run       Run       `json:"run" yaml:"run"`
	Summaries []Summary `json:"summaries" yaml:"summaries"`
	Trials    []Trial   `json:"trials,omitempty" yaml:"trials,omitempty"`
	Skipped   []Skipped `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Run is the exported run header.
type Run struct {
	ID          string    `json:"id" yaml:"id"`
	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	EndedAt     time.Time `json:"ended_at" yaml:"ended_at"`
	Seed        int64     `json:"seed" yaml:"seed"`
	Repetitions int       `json:"repetitions" yaml:"repetitions"`
	Sizes       []int     `json:"sizes" yaml:"sizes"`
	GoVersion   string    `json:"go_version,omitempty" yaml:"go_version,omitempty"`
	Failures    int       `json:"failures" yaml:"failures"`
}

// Summary is one aggregated (algorithm, shape, size) group.
type Summary struct {
	Algorithm string  `json:"algorithm" yaml:"algorithm"`
	Shape     string  `json:"shape" yaml:"shape"`
	Size      int     `json:"size" yaml:"size"`
	Mean      float64 `json:"mean_seconds" yaml:"mean_seconds"`
	StdDev    float64 `json:"stddev_seconds" yaml:"stddev_seconds"`
	Min       float64 `json:"min_seconds" yaml:"min_seconds"`
	Max       float64 `json:"max_seconds" yaml:"max_seconds"`
	Samples   int     `json:"samples" yaml:"samples"`
}

// Trial is one raw measurement.
type Trial struct {
	Algorithm  string    `json:"algorithm" yaml:"algorithm"`
	Shape      string    `json:"shape" yaml:"shape"`
	Size       int       `json:"size" yaml:"size"`
	Repetition int       `json:"repetition" yaml:"repetition"`
	Elapsed    float64   `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	Correct    bool      `json:"correct" yaml:"correct"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
}

// Skipped is an algorithm and size that were not run.
type Skipped struct {
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	Size      int    `json:"size" yaml:"size"`
}

// NewDocument converts engine records to their exported form. Trials are
// omitted when includeTrials is false.
func NewDocument(run model.Run, summaries []model.SummaryRecord, trials []model.TrialRecord, skipped []model.SkippedCell, includeTrials bool) Document {
	doc := Document{
		Run: Run{
			ID:          run.ID,
			StartedAt:   run.StartedAt.UTC(),
			EndedAt:     run.EndedAt.UTC(),
			Seed:        run.Seed,
			Repetitions: run.Repetitions,
			Sizes:       run.Sizes,
			GoVersion:   run.GoVersion,
			Failures:    run.Failures,
		},
		Summaries: make([]Summary, 0, len(summaries)),
	}
	for _, s := range summaries {
		doc.Summaries = append(doc.Summaries, Summary{
			Algorithm: s.Algorithm,
			Shape:     s.Shape,
			Size:      s.Size,
			Mean:      s.Mean.Seconds(),
			StdDev:    s.StdDev.Seconds(),
			Min:       s.Min.Seconds(),
			Max:       s.Max.Seconds(),
			Samples:   s.Samples,
		})
	}
	if includeTrials {
		for _, t := range trials {
			doc.Trials = append(doc.Trials, Trial{
				Algorithm:  t.Algorithm,
				Shape:      t.Shape,
				Size:       t.Size,
				Repetition: t.Repetition,
				Elapsed:    t.Elapsed.Seconds(),
				Correct:    t.Correct,
				Timestamp:  t.Timestamp.UTC(),
			})
		}
	}
	for _, c := range skipped {
		doc.Skipped = append(doc.Skipped, Skipped{Algorithm: c.Algorithm, Size: c.Size})
	}
	return doc
}

// Write encodes doc in the given format. CSV carries the trials when the
// document has them and the summaries otherwise.
func Write(w io.Writer, format Format, doc Document) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return nil
	case CSV:
		if len(doc.Trials) > 0 {
			return writeTrialsCSV(w, doc.Run.ID, doc.Trials)
		}
		return writeSummariesCSV(w, doc.Run.ID, doc.Summaries)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
}

func writeSummariesCSV(w io.Writer, runID string, summaries []Summary) error {
	rows := [][]string{{"run_id", "algorithm", "shape", "size", "mean_seconds", "stddev_seconds", "min_seconds", "max_seconds", "samples"}}
	for _, s := range summaries {
		rows = append(rows, []string{
			runID,
			s.Algorithm,
			s.Shape,
			strconv.Itoa(s.Size),
			formatSeconds(s.Mean),
			formatSeconds(s.StdDev),
			formatSeconds(s.Min),
			formatSeconds(s.Max),
			strconv.Itoa(s.Samples),
		})
	}
	return writeCSV(w, rows)
}

func writeTrialsCSV(w io.Writer, runID string, trials []Trial) error {
	rows := [][]string{{"run_id", "algorithm", "shape", "size", "repetition", "elapsed_seconds", "correct", "timestamp"}}
	for _, t := range trials {
		rows = append(rows, []string{
			runID,
			t.Algorithm,
			t.Shape,
			strconv.Itoa(t.Size),
			strconv.Itoa(t.Repetition),
			formatSeconds(t.Elapsed),
			strconv.FormatBool(t.Correct),
			t.Timestamp.Format(time.RFC3339Nano),
		})
	}
	return writeCSV(w, rows)
}

func writeCSV(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	return nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
