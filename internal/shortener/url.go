package shortener

import "time"

// Tiny is the short token clients use in place of the full URL.
type Tiny string

// URL is the persisted mapping between a normalized target and its tiny token.
type URL struct {
	Target     string
	Tiny       Tiny
	Created    time.Time
	UsageCount int64
}
