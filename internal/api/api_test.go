package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studio-metrics/internal/metrics"
	"studio-metrics/internal/store"

	"github.com/stretchr/testify/require"
)

// fakeStore returns its fixture rows regardless of filters; fixtures
// are chosen so the handler under test sees exactly what its filters
// would have selected. Filter semantics themselves are covered by the
// metrics package tests.
type fakeStore struct {
	profiles []store.Profile
	bookings []store.Booking
	batches  []store.CreditBatch
	packages []store.Package
	sessions []store.Session
	err      error
}

func (f *fakeStore) Profiles(ctx context.Context) ([]store.Profile, error) {
	return f.profiles, f.err
}

func (f *fakeStore) Bookings(ctx context.Context, filters ...store.Filter) ([]store.Booking, error) {
	return f.bookings, f.err
}

func (f *fakeStore) CreditBatches(ctx context.Context, filters ...store.Filter) ([]store.CreditBatch, error) {
	return f.batches, f.err
}

func (f *fakeStore) Packages(ctx context.Context) ([]store.Package, error) {
	return f.packages, f.err
}

func (f *fakeStore) Sessions(ctx context.Context) ([]store.Session, error) {
	return f.sessions, f.err
}

func newTestServer(f *fakeStore) *httptest.Server {
	engine := metrics.NewEngine(f, metrics.NewDirectory(f.profiles))
	s := NewServer(engine, ":0", "*")
	s.now = func() time.Time {
		return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return httptest.NewServer(s.router())
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&fakeStore{})
	defer srv.Close()

	var body map[string]string
	status := getJSON(t, srv.URL+"/health", &body)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", body["status"])
}

func TestSalesByYearEndpoint(t *testing.T) {
	srv := newTestServer(&fakeStore{
		packages: []store.Package{{ID: 1, Title: "10-class", Price: 100}},
		batches: []store.CreditBatch{
			{ID: 1, UserID: "u1", PackageID: 1, CreditsTotal: 10, CreatedAt: "2024-01-05"},
			{ID: 2, UserID: "u2", PackageID: 1, CreditsTotal: 10, CreatedAt: "2024-01-12"},
			{ID: 3, UserID: "u1", PackageID: 1, CreditsTotal: 10, CreatedAt: "2024-01-28"},
		},
	})
	defer srv.Close()

	var report metrics.SalesReport
	status := getJSON(t, srv.URL+"/api/reports/sales?year=2024", &report)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 3, report.TotalPackages)
	require.Equal(t, float64(300), report.TotalRevenue)
	require.Len(t, report.ByMonth, 12)
	require.Equal(t, "January", report.ByMonth[0].Month)
	require.Equal(t, 3, report.ByMonth[0].Count)
}

func TestSalesRequiresYearOrRange(t *testing.T) {
	srv := newTestServer(&fakeStore{})
	defer srv.Close()

	status := getJSON(t, srv.URL+"/api/reports/sales", nil)
	require.Equal(t, http.StatusBadRequest, status)

	status = getJSON(t, srv.URL+"/api/reports/sales?start=2024-01-01&end=2024-03-31", nil)
	require.Equal(t, http.StatusOK, status)
}

func TestDormantEndpointPagination(t *testing.T) {
	srv := newTestServer(&fakeStore{
		bookings: []store.Booking{
			{UserID: "u1", Status: "active", SessionDate: "2024-01-01"},
			{UserID: "u2", Status: "active", SessionDate: "2024-02-01"},
			{UserID: "u3", Status: "active", SessionDate: "2024-03-01"},
		},
	})
	defer srv.Close()

	var full metrics.DormantReport
	status := getJSON(t, srv.URL+"/api/reports/dormant?days=30", &full)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 3, full.Total)

	var page metrics.DormantPage
	status = getJSON(t, srv.URL+"/api/reports/dormant?days=30&page=2&page_size=2", &page)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 2, page.Page)
	require.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Clients, 1)
}

func TestTopBuyersEndpoint(t *testing.T) {
	srv := newTestServer(&fakeStore{
		profiles: []store.Profile{{ID: "u1", FullName: "Maria Lopez", Phone: "+34 600"}},
		packages: []store.Package{{ID: 1, Title: "10-class", Price: 100}},
		batches: []store.CreditBatch{
			{ID: 1, UserID: "u1", PackageID: 1, CreditsTotal: 10, CreatedAt: "2024-01-05"},
		},
	})
	defer srv.Close()

	var buyers []metrics.BuyerStat
	status := getJSON(t, srv.URL+"/api/reports/top-buyers?year=2024&limit=5", &buyers)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, buyers, 1)
	require.Equal(t, 1, buyers[0].Rank)
	require.Equal(t, "Maria Lopez", buyers[0].FullName)
}

func TestScheduleEndpointHasSixDays(t *testing.T) {
	srv := newTestServer(&fakeStore{})
	defer srv.Close()

	var schedule metrics.WeeklySchedule
	status := getJSON(t, srv.URL+"/api/reports/schedule", &schedule)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, schedule, 6)
	require.Contains(t, schedule, "Monday")
	require.NotContains(t, schedule, "Sunday")
}

func TestComparisonRequiresAllPeriodParams(t *testing.T) {
	srv := newTestServer(&fakeStore{})
	defer srv.Close()

	status := getJSON(t, srv.URL+"/api/reports/sales-comparison?p1_start=2024-01-01", nil)
	require.Equal(t, http.StatusBadRequest, status)

	url := srv.URL + "/api/reports/credits-comparison" +
		"?p1_start=2024-01-01&p1_end=2024-01-31&p2_start=2024-02-01&p2_end=2024-02-29"
	status = getJSON(t, url, nil)
	require.Equal(t, http.StatusOK, status)
}

func TestStoreFailureAbortsReport(t *testing.T) {
	srv := newTestServer(&fakeStore{err: errors.New("401 apikey rejected for https://internal.example.co")})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/reports/retention")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Contains(t, body["error"], "retention report unavailable")
	// Upstream detail stays in the log, never in the response body.
	require.NotContains(t, body["error"], "apikey")
	require.NotContains(t, body["error"], "internal.example.co")
}
