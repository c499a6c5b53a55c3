package store

import (
	"context"
	"fmt"
	"strings"
)

// Client is the read-only interface to the tabular data store.
// A returned error always means the request itself failed; an empty
// slice with a nil error means the table had no matching rows.
type Client interface {
	Profiles(ctx context.Context) ([]Profile, error)
	Bookings(ctx context.Context, filters ...Filter) ([]Booking, error)
	CreditBatches(ctx context.Context, filters ...Filter) ([]CreditBatch, error)
	Packages(ctx context.Context) ([]Package, error)
	Sessions(ctx context.Context) ([]Session, error)
}

// Config holds the connection settings for the PostgREST endpoint.
type Config struct {
	BaseURL string
	APIKey  string
}

// Filter is a single column predicate in PostgREST syntax
// (e.g. status=eq.active, created_at=gte.2024-01-01).
type Filter struct {
	Column string
	Expr   string
}

// Eq matches rows where column equals value.
func Eq(column, value string) Filter {
	return Filter{Column: column, Expr: "eq." + value}
}

// Gte matches rows where column is greater than or equal to value.
func Gte(column, value string) Filter {
	return Filter{Column: column, Expr: "gte." + value}
}

// Lte matches rows where column is less than or equal to value.
func Lte(column, value string) Filter {
	return Filter{Column: column, Expr: "lte." + value}
}

// Lt matches rows where column is strictly less than value.
func Lt(column, value string) Filter {
	return Filter{Column: column, Expr: "lt." + value}
}

// In matches rows where column is any of the given values.
func In(column string, values ...string) Filter {
	return Filter{Column: column, Expr: fmt.Sprintf("in.(%s)", strings.Join(values, ","))}
}

// NewClient creates a new data store client for the given configuration.
func NewClient(cfg Config) Client {
	return newRESTClient(cfg)
}
