package cutycapt

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/snapwalk/snapwalk/internal/snapshot"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-xvfb-run")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o700); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func testRequest(outDir string) snapshot.CaptureRequest {
	return snapshot.CaptureRequest{
		ArchiveID: 4,
		URLID:     40,
		URL:       "http://example.com",
		OutputDir: outDir,
		Timeout:   5 * time.Second,
	}
}

func TestCaptureSuccessAndArgs(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	argsFile := filepath.Join(outDir, "args.txt")
	bin := writeScript(t, `printf '%s\n' "$@" > `+argsFile)
	c := New(Config{XvfbRun: bin, SettleDelay: time.Millisecond}, zap.NewNop())

	if got := c.Capture(context.Background(), testRequest(outDir)); got != snapshot.StatusOK {
		t.Fatalf("Capture() = %d, want 200", got)
	}

	raw, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	args := strings.Split(strings.TrimSpace(string(raw)), "\n")
	want := []string{
		"--server-args=-screen 0, 1024x768x24",
		"cutycapt",
		"--url=http://example.com",
		"--out=" + filepath.Join(outDir, "4.40.png"),
		"--delay=2000",
	}
	if len(args) != len(want) {
		t.Fatalf("got %d args %v, want %d", len(args), args, len(want))
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("arg %d = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestCaptureNonzeroExit(t *testing.T) {
	t.Parallel()

	bin := writeScript(t, "exit 1")
	c := New(Config{XvfbRun: bin, SettleDelay: time.Millisecond}, zap.NewNop())
	if got := c.Capture(context.Background(), testRequest(t.TempDir())); got != snapshot.StatusProcessFailed {
		t.Fatalf("Capture() = %d, want -5", got)
	}
}

func TestCaptureInvocationError(t *testing.T) {
	t.Parallel()

	c := New(Config{XvfbRun: filepath.Join(t.TempDir(), "missing"), SettleDelay: time.Millisecond}, zap.NewNop())
	if got := c.Capture(context.Background(), testRequest(t.TempDir())); got != snapshot.StatusProcessError {
		t.Fatalf("Capture() = %d, want -6", got)
	}
}

func TestCaptureSettlePause(t *testing.T) {
	t.Parallel()

	bin := writeScript(t, "exit 0")
	settle := 150 * time.Millisecond
	c := New(Config{XvfbRun: bin, SettleDelay: settle}, zap.NewNop())

	start := time.Now()
	c.Capture(context.Background(), testRequest(t.TempDir()))
	if elapsed := time.Since(start); elapsed < settle {
		t.Fatalf("expected at least %v of settle time, got %v", settle, elapsed)
	}
}

func TestDefaultSettleDelay(t *testing.T) {
	t.Parallel()

	c := New(Config{}, zap.NewNop())
	if c.cfg.SettleDelay != time.Second {
		t.Fatalf("default settle delay = %v, want 1s", c.cfg.SettleDelay)
	}
	if c.cfg.XvfbRun != defaultXvfbRun || c.cfg.CutyCapt != defaultCutyCapt {
		t.Fatalf("defaults not applied: %+v", c.cfg)
	}
}
