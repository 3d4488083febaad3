package snapshot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalProcessed tracks the number of URL records fully processed.
	TotalProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapwalk_urls_processed_total",
		Help: "The total number of URL records processed end to end.",
	})
	// TotalUnavailable tracks URLs whose availability probe short-circuited the dispatch.
	TotalUnavailable = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapwalk_urls_unavailable_total",
		Help: "The total number of URLs that failed the availability check.",
	})
	// TotalCaptured tracks successful screenshot captures.
	TotalCaptured = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapwalk_screenshots_total",
		Help: "The total number of screenshots captured successfully.",
	})
	// TotalCaptureFailures tracks screenshot attempts that ended in a negative code.
	TotalCaptureFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapwalk_screenshot_failures_total",
		Help: "The total number of failed screenshot attempts.",
	})
)
