// Package cutycapt captures screenshots with the legacy CutyCapt CLI running
// under a virtual framebuffer.
package cutycapt

import (
	"context"
	"os/exec"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/snapwalk/snapwalk/internal/snapshot"
)

const (
	defaultXvfbRun  = "xvfb-run"
	defaultCutyCapt = "cutycapt"
	// CutyCapt renders after the page settles; this matches the legacy
	// invocation's fixed render delay.
	renderDelayMs = 2000
)

// Config controls the external CutyCapt invocation.
type Config struct {
	// XvfbRun is the xvfb-run executable; defaults to xvfb-run.
	XvfbRun string
	// CutyCapt is the cutycapt executable passed to xvfb-run.
	CutyCapt string
	// SettleDelay is the pause after each invocation so the virtual display
	// can reset before the next URL. Defaults to one second.
	SettleDelay time.Duration
}

// Capturer implements snapshot.Capturer for the CutyCapt back-end. It shares
// the external-process outcome mapping with the Chrome CLI back-end and adds
// a fixed settle pause between URLs.
type Capturer struct {
	cfg    Config
	logger *zap.Logger
}

// New builds a Capturer.
func New(cfg Config, logger *zap.Logger) *Capturer {
	if cfg.XvfbRun == "" {
		cfg.XvfbRun = defaultXvfbRun
	}
	if cfg.CutyCapt == "" {
		cfg.CutyCapt = defaultCutyCapt
	}
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = time.Second
	}
	return &Capturer{cfg: cfg, logger: logger}
}

// Capture runs CutyCapt once for req.URL. Exit 0 maps to 200, a nonzero exit
// or the timeout to -5, and a failure to start the process to -6.
func (c *Capturer) Capture(ctx context.Context, req snapshot.CaptureRequest) snapshot.StatusCode {
	defer time.Sleep(c.cfg.SettleDelay)

	runCtx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, c.cfg.XvfbRun,
		"--server-args=-screen 0, 1024x768x24",
		c.cfg.CutyCapt,
		"--url="+req.URL,
		"--out="+req.OutputPath(),
		"--delay="+strconv.Itoa(renderDelayMs),
	)

	if err := cmd.Start(); err != nil {
		c.logger.Info("CutyCapt invocation failed", zap.String("url", req.URL), zap.Error(err))
		return snapshot.StatusProcessError
	}
	if err := cmd.Wait(); err != nil {
		c.logger.Info("CutyCapt exited unsuccessfully", zap.String("url", req.URL), zap.Error(err))
		return snapshot.StatusProcessFailed
	}
	return snapshot.StatusOK
}
