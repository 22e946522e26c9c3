package constants

import "time"

const (
	// Request timeout for an entire stream request
	RequestTimeout = 30 * time.Second

	// Per-source timeout during aggregation fan-out
	SourceSearchTimeout = 6 * time.Second

	// Interval between transfer status polls
	DebridPollInterval = time.Second

	// Retry attempts for idempotent indexer fetches
	IndexerFetchAttempts = 2
)
