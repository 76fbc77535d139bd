package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"PolicyPal/internal/domain"
	"PolicyPal/internal/logging"
	"PolicyPal/internal/ports"
)

const dailyWindow = 24 * time.Hour

// IngestorDeps wires the listing source and reconciler.
type IngestorDeps struct {
	Source          ports.BillSource
	Reconciler      *Reconciler
	Logger          *logging.Logger
	CurrentCongress int
	Now             func() time.Time
}

// Ingestor drives listing pages through the reconciler.
type Ingestor struct {
	source     ports.BillSource
	reconciler *Reconciler
	logger     *logging.Logger
	congress   int
	now        func() time.Time
}

func NewIngestor(deps IngestorDeps) *Ingestor {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	congress := deps.CurrentCongress
	if congress <= 0 {
		congress = 118
	}
	return &Ingestor{
		source:     deps.Source,
		reconciler: deps.Reconciler,
		logger:     deps.Logger,
		congress:   congress,
		now:        now,
	}
}

// BatchScrape processes one listing page. A failed listing fetch is returned
// as an error; per-bill failures are only counted.
func (i *Ingestor) BatchScrape(ctx context.Context, congress, offset, limit int) (domain.BatchResult, error) {
	page, err := i.source.FetchBillPage(ctx, congress, offset, limit)
	if err != nil {
		return domain.BatchResult{}, fmt.Errorf("batch scrape congress %d offset %d: %w", congress, offset, err)
	}

	result := i.processAll(ctx, page.Entries)
	result.Available = page.Available
	i.logger.Info("batch scrape finished",
		"congress", congress, "offset", offset, "fetched", result.Fetched,
		"inserted", result.Inserted, "updated", result.Updated, "failed", result.Failed)
	return result, nil
}

// DailyUpdate processes every bill of the current congress modified in the last 24 hours.
func (i *Ingestor) DailyUpdate(ctx context.Context) (domain.BatchResult, error) {
	since := i.now().UTC().Add(-dailyWindow)
	entries, err := i.source.FetchRecentBills(ctx, i.congress, since)
	if err != nil {
		return domain.BatchResult{}, fmt.Errorf("daily update: %w", err)
	}

	result := i.processAll(ctx, entries)
	result.Available = len(entries)
	i.logger.Info("daily update finished",
		"since", since.Format(time.RFC3339), "fetched", result.Fetched,
		"inserted", result.Inserted, "updated", result.Updated, "failed", result.Failed)
	return result, nil
}

func (i *Ingestor) processAll(ctx context.Context, entries []domain.BillEntry) domain.BatchResult {
	result := domain.BatchResult{Fetched: len(entries)}
	for _, entry := range entries {
		if ctx.Err() != nil {
			result.Failed += result.Fetched - result.Inserted - result.Updated - result.Failed
			break
		}
		outcome, err := i.reconciler.ProcessBill(ctx, entry)
		if err != nil {
			i.logger.Error("bill processing failed", "error", err, "payload", string(entry.Raw))
		}
		result.Record(outcome, entry.Title)
	}
	return result
}

// buildDigestMessage renders newly inserted bills for notification channels.
func buildDigestMessage(result domain.BatchResult) string {
	if result.Inserted == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d new bills ingested (%d updated, %d failed)\n\n", result.Inserted, result.Updated, result.Failed)
	for _, title := range result.Titles {
		fmt.Fprintf(&b, "- %s\n", title)
	}
	return b.String()
}
