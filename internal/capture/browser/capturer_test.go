package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/snapwalk/snapwalk/internal/snapshot"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		navDone bool
		want    snapshot.StatusCode
	}{
		{
			name: "navigation timeout",
			err:  fmt.Errorf("run chromedp: %w", context.DeadlineExceeded),
			want: snapshot.StatusNavTimeout,
		},
		{
			name:    "deadline after navigation finished",
			err:     fmt.Errorf("run chromedp: %w", context.DeadlineExceeded),
			navDone: true,
			want:    snapshot.StatusAutomationError,
		},
		{
			name: "network failure",
			err:  errors.New("page load error net::ERR_NAME_NOT_RESOLVED"),
			want: snapshot.StatusNetworkError,
		},
		{
			name: "aborted network request",
			err:  errors.New("net::ERR_ABORTED"),
			want: snapshot.StatusNetworkError,
		},
		{
			name: "page load failure",
			err:  errors.New("page load error (unknown)"),
			want: snapshot.StatusPageError,
		},
		{
			name: "anything else",
			err:  errors.New("could not find node"),
			want: snapshot.StatusAutomationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.err, tt.navDone); got != tt.want {
				t.Fatalf("classify(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestScreenshotFormatIsPNG(t *testing.T) {
	t.Parallel()

	// chromedp captures JPEG for any quality below 100 and PNG only at
	// exactly 100. The output files are named .png, so quality must stay
	// pinned there.
	if screenshotQuality != 100 {
		t.Fatalf("screenshotQuality = %d, want 100 (PNG capture)", screenshotQuality)
	}
}

func TestForwardCancelPropagates(t *testing.T) {
	t.Parallel()

	parent, cancelParent := context.WithCancel(context.Background())
	child, cancelChild := context.WithCancel(context.Background())
	stop := forwardCancel(parent, cancelChild)
	defer stop()

	cancelParent()
	<-child.Done()
	if !errors.Is(child.Err(), context.Canceled) {
		t.Fatalf("expected child cancellation, got %v", child.Err())
	}
}
