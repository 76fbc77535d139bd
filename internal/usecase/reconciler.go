package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"PolicyPal/internal/domain"
	"PolicyPal/internal/logging"
	"PolicyPal/internal/ports"
)

const (
	dateLayout     = "2006-01-02"
	unknownSponsor = "Unknown"
)

// ReconcilerDeps wires all driven adapters into the reconciler.
type ReconcilerDeps struct {
	Source     ports.BillSource
	Bills      ports.BillRepository
	Summarizer *Summarizer
	Logger     *logging.Logger
	Now        func() time.Time
}

// Reconciler turns upstream listing entries into stored bills, at most one per key.
type Reconciler struct {
	source     ports.BillSource
	bills      ports.BillRepository
	summarizer *Summarizer
	logger     *logging.Logger
	now        func() time.Time
}

// NewReconciler constructs the ingestion component.
func NewReconciler(deps ReconcilerDeps) *Reconciler {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Reconciler{
		source:     deps.Source,
		bills:      deps.Bills,
		summarizer: deps.Summarizer,
		logger:     deps.Logger,
		now:        now,
	}
}

// ProcessBill enriches one entry and inserts or updates the stored bill.
// Every external call finishes before anything is written.
func (r *Reconciler) ProcessBill(ctx context.Context, entry domain.BillEntry) (domain.IngestOutcome, error) {
	key, ok := entry.Key()
	if !ok {
		return domain.OutcomeSkipped, fmt.Errorf("listing entry without congress/type/number: %w", domain.ErrInvalidInput)
	}
	logger := r.logger.With("bill", key.String())

	existing, found, err := r.bills.FindByKey(ctx, key)
	if err != nil {
		return domain.OutcomeSkipped, fmt.Errorf("load existing bill: %w", err)
	}

	var (
		detail    domain.BillDetail
		hasDetail bool
		preview   string
		fullText  string
	)
	// The fetchers never fail: a missing detail or text comes back as a zero
	// value and the listing fields fill in below, so Wait only joins them.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		detail, hasDetail = r.source.FetchBillDetail(gctx, entry.URL)
		return nil
	})
	g.Go(func() error {
		preview = r.source.FetchBillText(gctx, key, false)
		return nil
	})
	g.Go(func() error {
		fullText = r.source.FetchBillText(gctx, key, true)
		return nil
	})
	_ = g.Wait()

	if !hasDetail {
		detail = domain.BillDetail{
			Title:         entry.Title,
			OriginChamber: entry.OriginChamber,
			LatestAction:  entry.LatestAction,
		}
	}

	summary := ""
	switch {
	case found && existing.AISummary != "":
		summary = existing.AISummary
	case preview != "":
		summary = r.summarizer.Summarize(ctx, preview)
		if summary != "" {
			logger.Info("generated summary")
		}
	}

	now := r.now().UTC()
	bill := domain.Bill{
		Key:              key,
		Title:            firstNonEmpty(detail.Title, entry.Title),
		OriginChamber:    firstNonEmpty(detail.OriginChamber, entry.OriginChamber),
		Sponsor:          firstNonEmpty(detail.Sponsor, unknownSponsor),
		LatestAction:     latestAction(detail, entry),
		LatestActionDate: r.actionDate(detail, entry, now),
		UpdateDate:       parseDate(entry.UpdateDate, now),
		URL:              key.PublicURL(),
		TextPreview:      preview,
		FullText:         fullText,
		AISummary:        summary,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if found {
		if err := r.bills.UpdateContent(ctx, bill); err != nil {
			return domain.OutcomeSkipped, fmt.Errorf("update bill: %w", err)
		}
		logger.Info("updated existing bill")
		return domain.OutcomeUpdated, nil
	}

	if _, err := r.bills.Insert(ctx, bill); err != nil {
		if !errors.Is(err, domain.ErrDuplicateBill) {
			return domain.OutcomeSkipped, fmt.Errorf("insert bill: %w", err)
		}
		// Lost the race against a concurrent ingestion of the same key.
		if err := r.bills.UpdateContent(ctx, bill); err != nil {
			return domain.OutcomeSkipped, fmt.Errorf("update after duplicate insert: %w", err)
		}
		logger.Info("bill inserted concurrently, updated instead")
		return domain.OutcomeUpdated, nil
	}

	logger.Info("inserted bill")
	return domain.OutcomeInserted, nil
}

func (r *Reconciler) actionDate(detail domain.BillDetail, entry domain.BillEntry, now time.Time) time.Time {
	raw := firstNonEmpty(detail.LatestAction.ActionDate, entry.LatestAction.ActionDate, entry.UpdateDate)
	return parseDate(raw, now)
}

func latestAction(detail domain.BillDetail, entry domain.BillEntry) domain.LatestAction {
	if detail.LatestAction != (domain.LatestAction{}) {
		return detail.LatestAction
	}
	return entry.LatestAction
}

// parseDate reads YYYY-MM-DD, tolerating a trailing time part; fallback on failure.
func parseDate(raw string, fallback time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if len(raw) > len(dateLayout) {
		raw = raw[:len(dateLayout)]
	}
	if raw == "" {
		return fallback
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return fallback
	}
	return t
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
