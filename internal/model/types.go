// Package model defines shared data structures.
package model

import "time"

// TrialRecord captures one timed execution of one algorithm on one dataset.
type TrialRecord struct {
	Algorithm  string
	Shape      string
	Size       int
	Repetition int
	Elapsed    time.Duration
	Correct    bool
	Timestamp  time.Time
}

// SummaryRecord aggregates all trials sharing an (algorithm, shape, size) key.
type SummaryRecord struct {
	Algorithm string
	Shape     string
	Size      int
	Mean      time.Duration
	StdDev    time.Duration
	Min       time.Duration
	Max       time.Duration
	Samples   int
}

// SkippedCell is an (algorithm, size) combination a suite declined to run.
type SkippedCell struct {
	Algorithm string
	Size      int
}

// Run describes a stored suite execution.
type Run struct {
	ID          string
	StartedAt   time.Time
	EndedAt     time.Time
	Seed        int64
	Repetitions int
	Sizes       []int
	GoVersion   string
	TrialCount  int
	Failures    int
}

// ReportConfig defines filters for report output.
type ReportConfig struct {
	RunID string
	Shape string
	Size  int
}
