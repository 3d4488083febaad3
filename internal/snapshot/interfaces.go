package snapshot

import (
	"context"
	"time"
)

// Source yields the ordered URL records for a run in a single snapshot read.
type Source interface {
	Read(ctx context.Context) ([]URLRecord, error)
}

// Sink persists one result per processed record. Write is called in input
// order; Close flushes and releases any output handle.
type Sink interface {
	Write(ctx context.Context, record ResultRecord) error
	Close() error
}

// Checker probes a URL once and classifies the outcome. It never retries; a
// single failure is final for that URL.
type Checker interface {
	Check(ctx context.Context, url string) StatusCode
}

// Capturer takes one screenshot attempt and maps the outcome to a status
// code. Implementations must write the image to req.OutputPath() on success.
type Capturer interface {
	Capture(ctx context.Context, req CaptureRequest) StatusCode
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}
