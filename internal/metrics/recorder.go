package metrics

import "time"

// ResultLabel enumerates per-document results for counters.
type ResultLabel string

const (
	ResultRendered ResultLabel = "rendered"
	ResultSkipped  ResultLabel = "skipped"
	ResultFailed   ResultLabel = "failed"
)

// BuildOutcomeLabel enumerates final build outcomes.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess  BuildOutcomeLabel = "success"
	BuildOutcomeFailed   BuildOutcomeLabel = "failed"
	BuildOutcomeCanceled BuildOutcomeLabel = "canceled"
)

// Recorder defines observability hooks for document and build metrics.
// Implementations must be safe for concurrent use.
type Recorder interface {
	ObserveDocumentDuration(d time.Duration)
	IncDocumentResult(result ResultLabel)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	SetWorkers(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveDocumentDuration(time.Duration) {}
func (NoopRecorder) IncDocumentResult(ResultLabel)         {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)    {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)     {}
func (NoopRecorder) SetWorkers(int)                        {}
