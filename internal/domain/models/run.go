package models

import "time"

// RunStage is the orchestrator's state machine. Transitions run strictly
// forward; Failed is terminal and reachable from any stage.
type RunStage string

const (
	StageCollecting    RunStage = "COLLECTING"
	StageValidating    RunStage = "VALIDATING"
	StageDeduplicating RunStage = "DEDUPLICATING"
	StageExtracting    RunStage = "EXTRACTING"
	StageDone          RunStage = "DONE"
	StageFailed        RunStage = "FAILED"
)

// ErrorTypeCount is one entry of the top-error aggregation.
type ErrorTypeCount struct {
	Rule  string
	Count int
}

// RunSummary aggregates one pipeline run. Counters reflect completed stages
// only; a run cancelled mid-flight reports everything up to the last stage
// that finished.
type RunSummary struct {
	Stage              RunStage
	Collected          int
	Dropped            int
	Valid              int
	Invalid            int
	Duplicates         int
	Featured           int
	ExtractionFailures int
	ValidationRate     float64
	AvgQualityScore    float64
	TopErrorTypes      []ErrorTypeCount
	StartedAt          time.Time
	Duration           time.Duration
}
