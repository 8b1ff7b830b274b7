package events

import "github.com/jobcompass/jobcompass/internal/domain/models"

const RunCompletedTopic = "pipeline:run:completed"

// RunCompleted is published on the bus after every pipeline run, successful
// or failed. Subscribers (notifier, metrics) must not mutate the summary.
type RunCompleted struct {
	Summary models.RunSummary
	Err     error
}
