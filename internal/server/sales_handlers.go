// internal/server/sales_handlers.go
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rcampos/vendahub/internal/sales"
)

func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := s.salesStore.List(user.ID, limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to list sales")
		return
	}
	json.NewEncoder(w).Encode(list)
}

func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	var sale sales.Sale
	if err := json.NewDecoder(r.Body).Decode(&sale); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	sale.UserID = user.ID

	if sale.ProductID == "" || sale.Marketplace == "" || sale.Quantity <= 0 {
		s.writeError(w, http.StatusBadRequest, "validation_failed", "product_id, marketplace and a positive quantity are required")
		return
	}

	if err := s.salesStore.Create(&sale); err != nil {
		s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to record sale")
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sale)
}

func (s *Server) handleDeleteSale(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	if err := s.salesStore.Delete(user.ID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, sales.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "not_found", "Sale not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to delete sale")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSalesSummary(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	summary, err := s.salesStore.Summarize(user.ID, days)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to summarize sales")
		return
	}
	json.NewEncoder(w).Encode(summary)
}
