// internal/server/pricing_handlers.go
package server

import (
	"encoding/json"
	"net/http"

	"github.com/rcampos/vendahub/internal/pricing"
)

type QuoteRequest struct {
	Marketplace string  `json:"marketplace"`
	Price       float64 `json:"price"`
	Cost        float64 `json:"cost"`
}

func (s *Server) handlePricingQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	quote, err := pricing.QuotePrice(req.Marketplace, req.Price, req.Cost)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	json.NewEncoder(w).Encode(quote)
}

type SuggestRequest struct {
	Marketplace  string  `json:"marketplace"`
	Cost         float64 `json:"cost"`
	TargetMargin float64 `json:"target_margin"`
}

func (s *Server) handlePricingSuggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	suggestion, err := pricing.SuggestPrice(req.Marketplace, req.Cost, req.TargetMargin)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	json.NewEncoder(w).Encode(suggestion)
}
