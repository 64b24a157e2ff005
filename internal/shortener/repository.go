package shortener

import "context"

// Repository persists URL records. Implementations enforce uniqueness of both
// Target and Tiny and report a violation as ErrUniqueViolation.
type Repository interface {
	FindByTarget(ctx context.Context, target string) (*URL, error)
	FindByTiny(ctx context.Context, tiny Tiny) (*URL, error)
	Insert(ctx context.Context, url *URL) error
	IncrementUsage(ctx context.Context, tiny Tiny) error

	// TopByUsage returns at most n records ordered by usage count, highest first.
	TopByUsage(ctx context.Context, n int) ([]*URL, error)
}
