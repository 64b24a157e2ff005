package usage

import "time"

// TopicVisited carries one message per successful redirect.
const TopicVisited = "tiny.visited"

// VisitedEvent represents a redirect served for a tiny.
type VisitedEvent struct {
	Tiny      string    `json:"tiny"`
	VisitedAt time.Time `json:"visitedAt"`
}
