package usecase

import (
	"context"
	"strings"

	"PolicyPal/internal/logging"
	"PolicyPal/internal/ports"
)

// Summarizer shields ingestion from backend failures: any error is logged and
// turns into an empty summary.
type Summarizer struct {
	backend ports.Summarizer
	logger  *logging.Logger
}

// NewSummarizer wraps backend; a nil backend disables summaries.
func NewSummarizer(backend ports.Summarizer, logger *logging.Logger) *Summarizer {
	return &Summarizer{backend: backend, logger: logger}
}

// Summarize returns "" when disabled, on empty input or on any backend failure.
func (s *Summarizer) Summarize(ctx context.Context, text string) string {
	if s == nil || s.backend == nil || strings.TrimSpace(text) == "" {
		return ""
	}

	summary, err := s.backend.Summarize(ctx, text)
	if err != nil {
		s.logger.Error("summary generation failed", "backend", s.backend.Name(), "error", err)
		return ""
	}
	return strings.TrimSpace(summary)
}
