package journal

import "errors"

var (
	// ErrInsightUnavailable wraps every failure that prevents an insight from
	// being generated for an entry.
	ErrInsightUnavailable = errors.New("insight generation unavailable")
	// ErrInvalidDistribution means a classifier broke the emotion contract.
	ErrInvalidDistribution = errors.New("invalid emotion distribution")
)
