package metrics

import (
	"context"
	"time"

	"studio-metrics/internal/store"

	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

// Engine computes derived business metrics from the raw entity
// collections of the data store. Every computation fetches its own
// rows, holds no state between calls, and returns plain serializable
// structures; the only shared state is the read-only profile directory.
type Engine struct {
	store store.Client
	dir   *Directory
}

// NewEngine creates an engine over a data store client and an
// already-loaded profile directory.
func NewEngine(c store.Client, dir *Directory) *Engine {
	if dir == nil {
		dir = NewDirectory(nil)
	}
	return &Engine{store: c, dir: dir}
}

// dayOf truncates a point in time to its calendar day.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// purchaseWindow filters credit batches created within [start, end],
// end day inclusive.
func purchaseWindow(start, end time.Time) []store.Filter {
	return []store.Filter{
		store.Gte("created_at", start.Format(dateLayout)),
		store.Lt("created_at", end.AddDate(0, 0, 1).Format(dateLayout)),
	}
}

// bookingWindow filters bookings whose session falls within
// [start, end], end day inclusive.
func bookingWindow(start, end time.Time) []store.Filter {
	return []store.Filter{
		store.Gte("session_date", start.Format(dateLayout)),
		store.Lt("session_date", end.AddDate(0, 0, 1).Format(dateLayout)),
	}
}

// fetchPurchases loads the credit batches of a range together with the
// package reference table. The two reads are independent and issued
// concurrently.
func (e *Engine) fetchPurchases(ctx context.Context, start, end time.Time) ([]store.CreditBatch, map[int64]store.Package, error) {
	g, gctx := errgroup.WithContext(ctx)

	var batches []store.CreditBatch
	var packages []store.Package
	g.Go(func() error {
		var err error
		batches, err = e.store.CreditBatches(gctx, purchaseWindow(start, end)...)
		return err
	})
	g.Go(func() error {
		var err error
		packages, err = e.store.Packages(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	index := make(map[int64]store.Package, len(packages))
	for _, p := range packages {
		index[p.ID] = p
	}
	return batches, index, nil
}

// packageFor resolves a batch's package title and price. A missing
// reference never fails the aggregation; it degrades to a zero-priced
// placeholder.
func packageFor(index map[int64]store.Package, id int64) (string, float64) {
	if p, ok := index[id]; ok {
		return p.Title, p.Price
	}
	return "Unknown Package", 0
}
