// Package availability probes URLs with a single GET and classifies the
// outcome into a status code.
package availability

import (
	"context"
	"errors"
	"net"
	"net/url"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/snapwalk/snapwalk/internal/snapshot"
)

// Checker implements snapshot.Checker using a Colly collector. Each check
// clones the base collector and issues exactly one request; redirects are
// followed by the underlying client. No request timeout is set, so the probe
// relies on the platform default.
type Checker struct {
	base   *colly.Collector
	logger *zap.Logger
}

// New builds a Checker.
func New(logger *zap.Logger) *Checker {
	c := colly.NewCollector(colly.Async(false))
	// The probe must hit the exact URL, robots or not, and the same URL may
	// legitimately appear more than once in the input.
	c.IgnoreRobotsTxt = true
	c.AllowURLRevisit = true
	return &Checker{base: c, logger: logger}
}

// Check issues one GET against rawURL and maps the outcome:
// 200 when the request landed without redirection, 302 when it was
// redirected, the literal status for non-2xx HTTP responses, -7 for non-HTTP
// connection errors, and -8 for anything unclassified.
func (c *Checker) Check(ctx context.Context, rawURL string) snapshot.StatusCode {
	var (
		status snapshot.StatusCode
		seen   bool
	)

	// The collector normalizes the visit URL before requesting it
	// (http://host becomes http://host/), so the redirect comparison has to
	// run against the normalized form, not the raw input.
	requested := normalize(rawURL)
	success := func(r *colly.Response) {
		seen = true
		final := r.Request.URL.String()
		if final != requested {
			c.logger.Info("Redirected", zap.String("url", rawURL), zap.String("final_url", final))
			status = snapshot.StatusRedirected
			return
		}
		status = snapshot.StatusOK
	}

	collector := c.base.Clone()
	collector.OnResponse(success)
	collector.OnError(func(r *colly.Response, err error) {
		// The collector treats anything outside 200-202 as an error, but a
		// 204 or 206 is still a reachable page.
		if r != nil && r.StatusCode >= 200 && r.StatusCode < 300 {
			success(r)
			return
		}
		seen = true
		status = classify(r, err)
		c.logger.Info("Availability check failed",
			zap.String("url", rawURL),
			zap.Int("status", int(status)),
			zap.Error(err),
		)
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(rawURL)
	}()

	select {
	case err := <-done:
		if err != nil && !seen {
			// Visit failed before any request was made (bad URL, etc).
			status = classify(nil, err)
			c.logger.Info("Availability check failed",
				zap.String("url", rawURL),
				zap.Int("status", int(status)),
				zap.Error(err),
			)
		}
		return status
	case <-ctx.Done():
		c.logger.Info("Availability check canceled", zap.String("url", rawURL))
		return snapshot.StatusCheckError
	}
}

// normalize parses raw the way the collector will and returns the URL string
// a response for it will carry. Unparseable input is returned as-is; Visit
// will reject it anyway.
func normalize(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// classify maps a probe failure to its status code. Non-2xx HTTP responses
// pass their status through verbatim; transport-level failures (DNS, refused
// connection, TLS trust) become -7; everything else is -8.
func classify(response *colly.Response, err error) snapshot.StatusCode {
	if response != nil && response.StatusCode != 0 {
		return snapshot.StatusCode(response.StatusCode)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return snapshot.StatusConnectionError
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return snapshot.StatusConnectionError
	}
	return snapshot.StatusCheckError
}
