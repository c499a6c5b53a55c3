package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondComputationError maps an engine failure onto the HTTP surface.
// A failed data-store read aborts the whole report; partial results are
// never returned. The underlying error stays in the log: it carries
// upstream URLs and key hints that do not belong in a response body.
func respondComputationError(w http.ResponseWriter, report string, err error) {
	log.Error().Err(err).Str("report", report).Msg("Report computation failed")
	respondError(w, http.StatusBadGateway, fmt.Sprintf("%s report unavailable: data store read failed", report))
}
