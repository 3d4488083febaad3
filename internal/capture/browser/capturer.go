// Package browser captures screenshots through a chromedp automation session.
package browser

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/snapwalk/snapwalk/internal/snapshot"
)

const (
	viewportWidth  = 1024
	viewportHeight = 768
	// Quality 100 makes chromedp request PNG; anything lower switches the
	// capture to JPEG, which would not match the .png output files.
	screenshotQuality = 100
)

// Capturer implements snapshot.Capturer with headless Chrome driven over the
// DevTools protocol. The exec allocator lives for the whole run; each URL gets
// a fresh tab context that is torn down before the next one starts.
type Capturer struct {
	allocator   context.Context
	allocCancel context.CancelFunc
	logger      *zap.Logger
}

// New builds a Capturer and its long-lived allocator.
func New(logger *zap.Logger) *Capturer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &Capturer{
		allocator:   allocCtx,
		allocCancel: allocCancel,
		logger:      logger,
	}
}

// Close cancels the allocator context and kills the browser.
func (c *Capturer) Close() error {
	c.allocCancel()
	return nil
}

// Capture navigates to req.URL inside a single-use tab with the configured
// timeout, takes a full-page screenshot, and distinguishes four failure
// classes: navigation timeout (-1), network error (-2), page load error (-3),
// and anything else (-4).
func (c *Capturer) Capture(ctx context.Context, req snapshot.CaptureRequest) snapshot.StatusCode {
	tabCtx, cancelTab := chromedp.NewContext(c.allocator)
	defer cancelTab()

	runCtx, cancel := context.WithTimeout(tabCtx, req.Timeout)
	defer cancel()

	stop := forwardCancel(ctx, cancel)
	defer stop()

	var (
		shot     []byte
		navDone  bool
		markDone = chromedp.ActionFunc(func(context.Context) error {
			navDone = true
			return nil
		})
	)
	err := chromedp.Run(runCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return emulation.SetDeviceMetricsOverride(viewportWidth, viewportHeight, 1, false).Do(ctx)
		}),
		chromedp.Navigate(req.URL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		markDone,
		chromedp.FullScreenshot(&shot, screenshotQuality),
	)
	if err != nil {
		status := classify(err, navDone)
		c.logger.Info("Browser capture failed",
			zap.String("url", req.URL),
			zap.Int("status", int(status)),
			zap.Error(err),
		)
		return status
	}

	if err := os.WriteFile(req.OutputPath(), shot, 0o600); err != nil {
		c.logger.Info("Writing screenshot failed", zap.String("path", req.OutputPath()), zap.Error(err))
		return snapshot.StatusAutomationError
	}
	return snapshot.StatusOK
}

// classify maps a chromedp failure to its status code. The -1 timeout code
// covers navigation only; a deadline that expires after the page finished
// loading is an automation failure. Chrome reports network-level failures as
// net::ERR_* strings wrapped in page load errors, so the network check runs
// first.
func classify(err error, navDone bool) snapshot.StatusCode {
	msg := err.Error()
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		if navDone {
			return snapshot.StatusAutomationError
		}
		return snapshot.StatusNavTimeout
	case strings.Contains(msg, "net::ERR"):
		return snapshot.StatusNetworkError
	case strings.Contains(msg, "page load error"):
		return snapshot.StatusPageError
	default:
		return snapshot.StatusAutomationError
	}
}

// forwardCancel propagates run-level cancellation into the tab context.
func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}
