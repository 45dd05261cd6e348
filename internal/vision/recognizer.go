package vision

import (
	"context"
	"log/slog"
	"time"

	"github.com/JaimeStill/sweep/pkg/enrichment"
)

// Recognizer runs an Analyzer under a timeout and categorizes the result.
type Recognizer struct {
	analyzer Analyzer
	timeout  time.Duration
	logger   *slog.Logger
}

// NewRecognizer creates a Recognizer. A nil analyzer yields Skipped results.
func NewRecognizer(analyzer Analyzer, timeout time.Duration, logger *slog.Logger) *Recognizer {
	return &Recognizer{
		analyzer: analyzer,
		timeout:  timeout,
		logger:   logger.With("system", "vision"),
	}
}

// Recognize returns the category for img.
func (r *Recognizer) Recognize(ctx context.Context, img Image) enrichment.Result[string] {
	if r == nil || r.analyzer == nil {
		return enrichment.Skip[string]("analyzer not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	analysis, err := r.analyzer.Analyze(ctx, img)
	if err != nil {
		r.logger.Warn("image analysis failed", "error", err, "duration", time.Since(start))
		return enrichment.Fail[string]("analysis", err)
	}

	category := Categorize(analysis)
	r.logger.Info(
		"image analyzed",
		"tags", len(analysis.Tags),
		"category", category,
		"duration", time.Since(start),
	)
	return enrichment.Success(category)
}
