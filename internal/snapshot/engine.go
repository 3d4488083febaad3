package snapshot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Engine walks the URL list sequentially: one record is probed, captured, and
// persisted before the next one starts. A per-URL failure never aborts the
// run; only source/sink I/O errors do.
type Engine struct {
	source    Source
	checker   Checker
	capturer  Capturer
	sink      Sink
	outputDir string
	timeout   time.Duration
	clock     Clock
	ids       IDGenerator
	logger    *zap.Logger
}

// Summary reports run totals.
type Summary struct {
	Processed   int
	Captured    int
	Unavailable int
	Failed      int
}

// NewEngine constructs an Engine. The capturer is the single back-end chosen
// at configuration time; the sink may fan out to several outputs.
func NewEngine(
	source Source,
	checker Checker,
	capturer Capturer,
	sink Sink,
	outputDir string,
	timeout time.Duration,
	clock Clock,
	ids IDGenerator,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		source:    source,
		checker:   checker,
		capturer:  capturer,
		sink:      sink,
		outputDir: outputDir,
		timeout:   timeout,
		clock:     clock,
		ids:       ids,
		logger:    logger,
	}
}

// Run reads every record from the source and processes them in order. It
// returns the run summary and the first fatal I/O error, if any.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	runID, err := e.ids.NewID()
	if err != nil {
		return Summary{}, fmt.Errorf("generate run id: %w", err)
	}
	logger := e.logger.With(zap.String("run_id", runID))

	records, err := e.source.Read(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("read source: %w", err)
	}
	logger.Info("Starting snapshot run", zap.Int("urls", len(records)))

	var summary Summary
	started := e.clock.Now()
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("run canceled: %w", err)
		}

		status := e.process(ctx, logger, record)
		result := ResultRecord{
			ArchiveID: record.ArchiveID,
			URLID:     record.URLID,
			Status:    status,
			URL:       record.URL,
		}
		if err := e.sink.Write(ctx, result); err != nil {
			return summary, fmt.Errorf("write result for url %d: %w", record.URLID, err)
		}

		summary.Processed++
		TotalProcessed.Inc()
		switch {
		case status == StatusOK:
			summary.Captured++
		case status >= StatusProcessError && status <= StatusNavTimeout:
			// -6..-1 are capture-phase failures
			summary.Failed++
		default:
			summary.Unavailable++
		}
	}

	logger.Info("Snapshot run finished",
		zap.Int("processed", summary.Processed),
		zap.Int("captured", summary.Captured),
		zap.Int("unavailable", summary.Unavailable),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", e.clock.Now().Sub(started)),
	)
	return summary, nil
}

// process runs the availability check and, when the URL is reachable, exactly
// one capture attempt. Any availability code other than 200/302 is returned
// as-is and becomes the final persisted status.
func (e *Engine) process(ctx context.Context, logger *zap.Logger, record URLRecord) StatusCode {
	urlLogger := logger.With(
		zap.Int64("archive_id", record.ArchiveID),
		zap.Int64("url_id", record.URLID),
		zap.String("url", record.URL),
	)
	urlLogger.Info("Processing url")

	status := e.checker.Check(ctx, record.URL)
	if !status.Available() {
		urlLogger.Info("Url unavailable, skipping screenshot", zap.Int("status", int(status)))
		TotalUnavailable.Inc()
		return status
	}
	urlLogger.Info("Url available", zap.Int("status", int(status)))

	status = e.capturer.Capture(ctx, CaptureRequest{
		ArchiveID: record.ArchiveID,
		URLID:     record.URLID,
		URL:       record.URL,
		OutputDir: e.outputDir,
		Timeout:   e.timeout,
	})
	if status == StatusOK {
		urlLogger.Info("Screenshot successful")
		TotalCaptured.Inc()
	} else {
		urlLogger.Info("Screenshot unsuccessful", zap.Int("status", int(status)))
		TotalCaptureFailures.Inc()
	}
	return status
}
