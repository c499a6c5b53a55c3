package metrics

import (
	"context"
	"errors"
	"strings"

	"studio-metrics/internal/store"
)

var errTest = errors.New("store unavailable")

// fakeStore is an in-memory store.Client that evaluates the same
// column predicates the real PostgREST endpoint would, so computations
// see exactly the rows their filters ask for.
type fakeStore struct {
	profiles []store.Profile
	bookings []store.Booking
	batches  []store.CreditBatch
	packages []store.Package
	sessions []store.Session

	profilesErr error
	bookingsErr error
	batchesErr  error
	packagesErr error
	sessionsErr error
}

func (f *fakeStore) Profiles(ctx context.Context) ([]store.Profile, error) {
	if f.profilesErr != nil {
		return nil, f.profilesErr
	}
	return f.profiles, nil
}

func (f *fakeStore) Bookings(ctx context.Context, filters ...store.Filter) ([]store.Booking, error) {
	if f.bookingsErr != nil {
		return nil, f.bookingsErr
	}
	var out []store.Booking
	for _, b := range f.bookings {
		if matchAll(filters, func(column string) string {
			switch column {
			case "status":
				return b.Status
			case "session_date":
				return b.SessionDate
			case "created_at":
				return b.CreatedAt
			case "user_id":
				return b.UserID
			}
			return ""
		}) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) CreditBatches(ctx context.Context, filters ...store.Filter) ([]store.CreditBatch, error) {
	if f.batchesErr != nil {
		return nil, f.batchesErr
	}
	var out []store.CreditBatch
	for _, b := range f.batches {
		if matchAll(filters, func(column string) string {
			switch column {
			case "created_at":
				return b.CreatedAt
			case "user_id":
				return b.UserID
			}
			return ""
		}) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) Packages(ctx context.Context) ([]store.Package, error) {
	if f.packagesErr != nil {
		return nil, f.packagesErr
	}
	return f.packages, nil
}

func (f *fakeStore) Sessions(ctx context.Context) ([]store.Session, error) {
	if f.sessionsErr != nil {
		return nil, f.sessionsErr
	}
	return f.sessions, nil
}

func matchAll(filters []store.Filter, value func(column string) string) bool {
	for _, f := range filters {
		if !evalExpr(value(f.Column), f.Expr) {
			return false
		}
	}
	return true
}

func evalExpr(v, expr string) bool {
	op, arg, ok := strings.Cut(expr, ".")
	if !ok {
		return false
	}
	switch op {
	case "eq":
		return v == arg
	case "gte":
		return v >= arg
	case "lte":
		return v <= arg
	case "lt":
		return v < arg
	case "in":
		arg = strings.TrimSuffix(strings.TrimPrefix(arg, "("), ")")
		for _, candidate := range strings.Split(arg, ",") {
			if v == candidate {
				return true
			}
		}
		return false
	}
	return false
}

func newTestEngine(f *fakeStore) *Engine {
	return NewEngine(f, NewDirectory(f.profiles))
}
