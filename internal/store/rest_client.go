package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

type restClient struct {
	cfg        Config
	httpClient *http.Client
}

func newRESTClient(cfg Config) *restClient {
	return &restClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *restClient) Profiles(ctx context.Context) ([]Profile, error) {
	var rows []Profile
	if err := c.fetch(ctx, "profiles", "id,full_name,phone", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *restClient) Bookings(ctx context.Context, filters ...Filter) ([]Booking, error) {
	var rows []Booking
	sel := "user_id,session_date,session_time,status,total_attendees,coach_name,created_at"
	if err := c.fetch(ctx, "bookings", sel, filters, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *restClient) CreditBatches(ctx context.Context, filters ...Filter) ([]CreditBatch, error) {
	var rows []CreditBatch
	sel := "id,user_id,package_id,credits_total,credits_remaining,created_at"
	if err := c.fetch(ctx, "credit_batches", sel, filters, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *restClient) Packages(ctx context.Context) ([]Package, error) {
	var rows []Package
	if err := c.fetch(ctx, "packages", "id,title,price,classes_count", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *restClient) Sessions(ctx context.Context) ([]Session, error) {
	var rows []Session
	if err := c.fetch(ctx, "sessions", "day_name,class_name,class_subtitle,max_spots", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// fetch issues one read against /rest/v1/<table> and decodes the row
// array into out. A non-2xx response is always surfaced as an error,
// distinguishable from a successful empty result.
func (c *restClient) fetch(ctx context.Context, table, sel string, filters []Filter, out interface{}) error {
	params := url.Values{}
	params.Set("select", sel)
	for _, f := range filters {
		params.Add(f.Column, f.Expr)
	}

	reqURL := fmt.Sprintf("%s/rest/v1/%s?%s", c.cfg.BaseURL, table, params.Encode())
	log.Debug().Str("table", table).Str("url", reqURL).Msg("Data store read")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.cfg.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("data store request for %s failed: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("data store authentication failed for %s (%d), check the service key", table, resp.StatusCode)
		case http.StatusNotFound:
			return fmt.Errorf("data store table %s not found (404)", table)
		case http.StatusTooManyRequests:
			return fmt.Errorf("data store rate limit exceeded (429)")
		default:
			return fmt.Errorf("data store returned status %d for %s", resp.StatusCode, table)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", table, err)
	}
	return nil
}
