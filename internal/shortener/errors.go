package shortener

import "errors"

var (
	// ErrNotFound is returned by a Repository when no record matches.
	ErrNotFound = errors.New("url not found")

	// ErrUniqueViolation is returned by Repository.Insert when the target or the tiny
	// is already taken by another record.
	ErrUniqueViolation = errors.New("unique constraint violation")

	// ErrInvalidURL is returned when a submitted URL cannot be stored.
	ErrInvalidURL = errors.New("invalid url")

	// ErrEntropyExhausted is returned when no free tiny was found within the retry budget.
	ErrEntropyExhausted = errors.New("not enough entropy")
)
