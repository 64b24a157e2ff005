package shortener

// Outcome labels the result of a shorten request.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeExisting  Outcome = "existing"
	OutcomeInvalid   Outcome = "invalid"
	OutcomeExhausted Outcome = "exhausted"
	OutcomeConflict  Outcome = "conflict"
	OutcomeError     Outcome = "error"
)

// Metrics receives instrumentation events from the Service and the Resolver.
type Metrics interface {
	Shortened(outcome Outcome)
	Collision(length int)
	Visited(found bool)
	UsageRecordFailed()
}

// NopMetrics discards every event.
type NopMetrics struct{}

func (NopMetrics) Shortened(Outcome)  {}
func (NopMetrics) Collision(int)      {}
func (NopMetrics) Visited(bool)       {}
func (NopMetrics) UsageRecordFailed() {}
