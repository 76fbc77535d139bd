package usecase

import (
	"context"
	"fmt"

	"PolicyPal/internal/domain"
	"PolicyPal/internal/ports"
)

const (
	trendingLimit = 10
	searchLimit   = 20
	recentLimit   = 5
)

// Catalog serves the read side over stored bills.
type Catalog struct {
	bills    ports.BillCatalog
	tracking ports.TrackingRepository
}

func NewCatalog(bills ports.BillCatalog, tracking ports.TrackingRepository) *Catalog {
	return &Catalog{bills: bills, tracking: tracking}
}

func (c *Catalog) List(ctx context.Context, q domain.ListQuery) (domain.BillList, error) {
	return c.bills.List(ctx, q.Normalize())
}

func (c *Catalog) Trending(ctx context.Context) ([]domain.Bill, error) {
	return c.bills.Trending(ctx, trendingLimit)
}

func (c *Catalog) Get(ctx context.Context, id int64) (domain.Bill, error) {
	return c.bills.Get(ctx, id)
}

func (c *Catalog) Search(ctx context.Context, keyword string) ([]domain.Bill, error) {
	return c.bills.Search(ctx, keyword, searchLimit)
}

func (c *Catalog) Recent(ctx context.Context, limit int) ([]domain.Bill, error) {
	return c.bills.Recent(ctx, limit)
}

// Status reports ingestion progress.
func (c *Catalog) Status(ctx context.Context) (domain.ScrapeStatus, error) {
	offset, err := c.tracking.Offset(ctx)
	if err != nil {
		return domain.ScrapeStatus{}, fmt.Errorf("read offset: %w", err)
	}
	total, err := c.bills.Count(ctx)
	if err != nil {
		return domain.ScrapeStatus{}, err
	}
	recent, err := c.bills.Recent(ctx, recentLimit)
	if err != nil {
		return domain.ScrapeStatus{}, err
	}
	return domain.ScrapeStatus{Offset: offset, TotalBills: total, Recent: recent}, nil
}
