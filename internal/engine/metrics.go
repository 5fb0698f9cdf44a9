package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the service.
var metrics struct {
	SummaryRequests    atomic.Int64
	SummaryErrors      atomic.Int64
	TranscriptRequests atomic.Int64
	CaptionPageFetches atomic.Int64
	TimedTextFetches   atomic.Int64
	FetchErrors        atomic.Int64
	LLMCalls           atomic.Int64
	LLMErrors          atomic.Int64
}

var metricKeys = []string{
	"summary_requests", "summary_errors",
	"transcript_requests",
	"caption_page_fetches", "timedtext_fetches", "fetch_errors",
	"llm_calls", "llm_errors",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"summary_requests":     metrics.SummaryRequests.Load(),
		"summary_errors":       metrics.SummaryErrors.Load(),
		"transcript_requests":  metrics.TranscriptRequests.Load(),
		"caption_page_fetches": metrics.CaptionPageFetches.Load(),
		"timedtext_fetches":    metrics.TimedTextFetches.Load(),
		"fetch_errors":         metrics.FetchErrors.Load(),
		"llm_calls":            metrics.LLMCalls.Load(),
		"llm_errors":           metrics.LLMErrors.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sources/ and summaryserver/.
func IncrSummaryRequests()    { metrics.SummaryRequests.Add(1) }
func IncrSummaryErrors()      { metrics.SummaryErrors.Add(1) }
func IncrTranscriptRequests() { metrics.TranscriptRequests.Add(1) }
func IncrCaptionPageFetches() { metrics.CaptionPageFetches.Add(1) }
func IncrTimedTextFetches()   { metrics.TimedTextFetches.Add(1) }
func IncrFetchErrors()        { metrics.FetchErrors.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, threshold time.Duration, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > threshold {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
