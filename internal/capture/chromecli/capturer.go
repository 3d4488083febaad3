// Package chromecli captures screenshots by invoking the headless Chrome
// binary as an external process.
package chromecli

import (
	"context"
	"os/exec"

	"go.uber.org/zap"

	"github.com/snapwalk/snapwalk/internal/snapshot"
)

const defaultBinary = "google-chrome"

// Config controls the external Chrome invocation.
type Config struct {
	// Binary is the Chrome executable; defaults to google-chrome.
	Binary string
}

// Capturer implements snapshot.Capturer by shelling out to headless Chrome
// with a hard wall-clock timeout per URL.
type Capturer struct {
	cfg    Config
	logger *zap.Logger
}

// New builds a Capturer.
func New(cfg Config, logger *zap.Logger) *Capturer {
	if cfg.Binary == "" {
		cfg.Binary = defaultBinary
	}
	return &Capturer{cfg: cfg, logger: logger}
}

// Capture runs Chrome once for req.URL. Exit 0 maps to 200, a nonzero exit or
// the timeout to -5, and a failure to start the process at all to -6.
func (c *Capturer) Capture(ctx context.Context, req snapshot.CaptureRequest) snapshot.StatusCode {
	runCtx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, c.cfg.Binary,
		"--headless",
		"--hide-scrollbars",
		"--disable-gpu",
		"--noerrdialogs",
		"--enable-fast-unload",
		"--screenshot="+req.OutputPath(),
		"--window-size=1024x768",
		req.URL,
	)

	if err := cmd.Start(); err != nil {
		c.logger.Info("Chrome invocation failed", zap.String("url", req.URL), zap.Error(err))
		return snapshot.StatusProcessError
	}
	if err := cmd.Wait(); err != nil {
		// Covers nonzero exits and the process being killed at the deadline.
		c.logger.Info("Chrome exited unsuccessfully", zap.String("url", req.URL), zap.Error(err))
		return snapshot.StatusProcessFailed
	}
	return snapshot.StatusOK
}
