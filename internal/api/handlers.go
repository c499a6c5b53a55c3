package api

import (
	"net/http"
	"strconv"
	"time"

	"studio-metrics/internal/store"
)

func intQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func dayQuery(r *http.Request, name string) (time.Time, bool) {
	day, err := store.ParseDay(r.URL.Query().Get(name))
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

func (s *Server) handleDormant(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", 30)

	if r.URL.Query().Get("page") == "" {
		report, err := s.engine.DormantClients(r.Context(), days, s.now())
		if err != nil {
			respondComputationError(w, "dormant", err)
			return
		}
		respondJSON(w, http.StatusOK, report)
		return
	}

	page := intQuery(r, "page", 1)
	pageSize := intQuery(r, "page_size", 20)
	report, err := s.engine.DormantClientsPage(r.Context(), days, page, pageSize, s.now())
	if err != nil {
		respondComputationError(w, "dormant", err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleSales(w http.ResponseWriter, r *http.Request) {
	if year := intQuery(r, "year", 0); year != 0 {
		report, err := s.engine.SalesByYear(r.Context(), year)
		if err != nil {
			respondComputationError(w, "sales", err)
			return
		}
		respondJSON(w, http.StatusOK, report)
		return
	}

	start, okStart := dayQuery(r, "start")
	end, okEnd := dayQuery(r, "end")
	if !okStart || !okEnd {
		respondError(w, http.StatusBadRequest, "either year or start and end (YYYY-MM-DD) are required")
		return
	}
	report, err := s.engine.SalesByDateRange(r.Context(), start, end)
	if err != nil {
		respondComputationError(w, "sales", err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleTopBuyers(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 10)

	if year := intQuery(r, "year", 0); year != 0 {
		buyers, err := s.engine.TopBuyersByYear(r.Context(), year, limit)
		if err != nil {
			respondComputationError(w, "top-buyers", err)
			return
		}
		respondJSON(w, http.StatusOK, buyers)
		return
	}

	start, okStart := dayQuery(r, "start")
	end, okEnd := dayQuery(r, "end")
	if !okStart || !okEnd {
		respondError(w, http.StatusBadRequest, "either year or start and end (YYYY-MM-DD) are required")
		return
	}
	buyers, err := s.engine.TopBuyers(r.Context(), start, end, limit)
	if err != nil {
		respondComputationError(w, "top-buyers", err)
		return
	}
	respondJSON(w, http.StatusOK, buyers)
}

func (s *Server) handleRetention(w http.ResponseWriter, r *http.Request) {
	report, err := s.engine.RetentionMetrics(r.Context(), s.now())
	if err != nil {
		respondComputationError(w, "retention", err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := s.engine.WeeklySchedule(r.Context(), s.now())
	if err != nil {
		respondComputationError(w, "schedule", err)
		return
	}
	respondJSON(w, http.StatusOK, schedule)
}

func (s *Server) comparisonPeriods(w http.ResponseWriter, r *http.Request) (p1s, p1e, p2s, p2e time.Time, ok bool) {
	var ok1, ok2, ok3, ok4 bool
	p1s, ok1 = dayQuery(r, "p1_start")
	p1e, ok2 = dayQuery(r, "p1_end")
	p2s, ok3 = dayQuery(r, "p2_start")
	p2e, ok4 = dayQuery(r, "p2_end")
	if !ok1 || !ok2 || !ok3 || !ok4 {
		respondError(w, http.StatusBadRequest, "p1_start, p1_end, p2_start and p2_end (YYYY-MM-DD) are required")
		return p1s, p1e, p2s, p2e, false
	}
	return p1s, p1e, p2s, p2e, true
}

func (s *Server) handleSalesComparison(w http.ResponseWriter, r *http.Request) {
	p1s, p1e, p2s, p2e, ok := s.comparisonPeriods(w, r)
	if !ok {
		return
	}
	cmp, err := s.engine.CompareSales(r.Context(), p1s, p1e, p2s, p2e)
	if err != nil {
		respondComputationError(w, "sales-comparison", err)
		return
	}
	respondJSON(w, http.StatusOK, cmp)
}

func (s *Server) handleCreditsComparison(w http.ResponseWriter, r *http.Request) {
	p1s, p1e, p2s, p2e, ok := s.comparisonPeriods(w, r)
	if !ok {
		return
	}
	cmp, err := s.engine.CompareCredits(r.Context(), p1s, p1e, p2s, p2e)
	if err != nil {
		respondComputationError(w, "credits-comparison", err)
		return
	}
	respondJSON(w, http.StatusOK, cmp)
}
