package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/jobcompass/jobcompass/internal/domain/models"
)

// PipelineRun is the persisted summary of one run, kept for trend
// monitoring and the stats command.
type PipelineRun struct {
	ID                 int    `gorm:"primaryKey;autoIncrement"`
	Stage              string `gorm:"size:20"`
	Collected          int
	Dropped            int
	Valid              int
	Invalid            int
	Duplicates         int
	Featured           int
	ExtractionFailures int
	ValidationRate     float64
	AvgQualityScore    float64
	TopErrors          string
	StartedAt          time.Time
	DurationMs         int64
	CreatedAt          time.Time
}

func NewPipelineRun(summary models.RunSummary) PipelineRun {

	topErrors := make([]string, 0, len(summary.TopErrorTypes))
	for _, e := range summary.TopErrorTypes {
		topErrors = append(topErrors, fmt.Sprintf("%s:%d", e.Rule, e.Count))
	}

	return PipelineRun{
		Stage:              string(summary.Stage),
		Collected:          summary.Collected,
		Dropped:            summary.Dropped,
		Valid:              summary.Valid,
		Invalid:            summary.Invalid,
		Duplicates:         summary.Duplicates,
		Featured:           summary.Featured,
		ExtractionFailures: summary.ExtractionFailures,
		ValidationRate:     summary.ValidationRate,
		AvgQualityScore:    summary.AvgQualityScore,
		TopErrors:          strings.Join(topErrors, ","),
		StartedAt:          summary.StartedAt,
		DurationMs:         summary.Duration.Milliseconds(),
	}
}
