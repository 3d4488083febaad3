// Package snapshot defines the core types and the sequential engine that walks
// a URL list, checks reachability, and dispatches screenshot captures.
package snapshot

import (
	"fmt"
	"path/filepath"
	"time"
)

// StatusCode classifies the outcome of processing a single URL. It is a plain
// result value, not an error: every failure along the pipeline is converted to
// a code and persisted verbatim. HTTP status codes from the availability probe
// pass through unchanged.
type StatusCode int

// Negative codes mark pipeline-level failures; positive codes are HTTP
// statuses observed during the availability check.
const (
	// StatusOK means the URL was reachable and, after dispatch, the
	// screenshot succeeded.
	StatusOK StatusCode = 200
	// StatusRedirected means the availability probe landed on a different
	// final URL than the one requested.
	StatusRedirected StatusCode = 302

	// StatusNavTimeout is a browser-automation navigation timeout.
	StatusNavTimeout StatusCode = -1
	// StatusNetworkError is a browser-automation network-level failure.
	StatusNetworkError StatusCode = -2
	// StatusPageError is a browser-automation page-load failure.
	StatusPageError StatusCode = -3
	// StatusAutomationError covers any other browser-automation failure.
	StatusAutomationError StatusCode = -4
	// StatusProcessFailed means an external screenshot process exited
	// nonzero or was killed by its wall-clock timeout.
	StatusProcessFailed StatusCode = -5
	// StatusProcessError means the external screenshot process could not be
	// invoked at all.
	StatusProcessError StatusCode = -6
	// StatusConnectionError is a non-HTTP availability failure (DNS,
	// connection refused, TLS trust).
	StatusConnectionError StatusCode = -7
	// StatusCheckError covers unclassified availability failures.
	StatusCheckError StatusCode = -8
)

// Available reports whether the availability probe outcome permits a
// screenshot attempt. Only a clean 200 or a redirect qualifies; every other
// code short-circuits the dispatch and becomes the final persisted status.
func (c StatusCode) Available() bool {
	return c == StatusOK || c == StatusRedirected
}

// URLRecord is one row of the input source. Records are immutable and
// consumed exactly once, in source order.
type URLRecord struct {
	ArchiveID int64  `db:"archiveID"`
	URLID     int64  `db:"urlID"`
	URL       string `db:"url"`
}

// ResultRecord is the per-URL outcome appended to the result sinks. Exactly
// one is produced per URLRecord processed.
type ResultRecord struct {
	ArchiveID int64
	URLID     int64
	Status    StatusCode
	URL       string
}

// CaptureRequest carries everything a screenshot back-end needs for one URL.
type CaptureRequest struct {
	ArchiveID int64
	URLID     int64
	URL       string
	OutputDir string
	Timeout   time.Duration
}

// OutputPath is where the back-end must write the image, following the
// {archiveID}.{urlID}.png naming convention inside the output directory.
func (r CaptureRequest) OutputPath() string {
	return filepath.Join(r.OutputDir, fmt.Sprintf("%d.%d.png", r.ArchiveID, r.URLID))
}
