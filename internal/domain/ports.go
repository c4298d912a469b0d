package domain

import "context"

// Cache is a JSON-serializing key/value cache with TTLs.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// RawFile is the decoded content of one input file. Records are usually
// map[string]any; anything else is a malformed record.
type RawFile struct {
	Name    string
	Records []any
}

// RecordSource yields raw review files. Implementations recover from
// per-file errors and report them instead of failing.
type RecordSource interface {
	Load(ctx context.Context) ([]RawFile, LoadReport)
}

// Polarity scores text in [-1, 1].
type Polarity interface {
	Score(text string) float64
}
