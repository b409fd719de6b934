// internal/server/catalog_handlers.go
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rcampos/vendahub/internal/catalog"
)

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	products, err := s.catalogStore.ListProducts(user.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to list products")
		return
	}
	json.NewEncoder(w).Encode(products)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	var p catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	p.UserID = user.ID

	if err := s.catalogStore.CreateProduct(&p); err != nil {
		if p.Name == "" {
			s.writeError(w, http.StatusBadRequest, "validation_failed", "Product name is required")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to create product")
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	p, err := s.catalogStore.GetProduct(user.ID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "not_found", "Product not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to get product")
		return
	}
	json.NewEncoder(w).Encode(p)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	var p catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	p.ID = chi.URLParam(r, "id")
	p.UserID = user.ID

	if err := s.catalogStore.UpdateProduct(&p); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "not_found", "Product not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to update product")
		return
	}
	json.NewEncoder(w).Encode(p)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	if err := s.catalogStore.DeleteProduct(user.ID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "not_found", "Product not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	listings, err := s.catalogStore.ListListings(user.ID, r.URL.Query().Get("marketplace"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to list listings")
		return
	}
	json.NewEncoder(w).Encode(listings)
}

func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	var l catalog.Listing
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	l.UserID = user.ID

	if l.ProductID == "" || l.Marketplace == "" || l.Title == "" {
		s.writeError(w, http.StatusBadRequest, "validation_failed", "product_id, marketplace and title are required")
		return
	}

	if err := s.catalogStore.CreateListing(&l); err != nil {
		s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to create listing")
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(l)
}

func (s *Server) handleUpdateListing(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	var l catalog.Listing
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	l.ID = chi.URLParam(r, "id")
	l.UserID = user.ID

	if err := s.catalogStore.UpdateListing(&l); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "not_found", "Listing not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to update listing")
		return
	}
	json.NewEncoder(w).Encode(l)
}

func (s *Server) handleDeleteListing(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	if err := s.catalogStore.DeleteListing(user.ID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "not_found", "Listing not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to delete listing")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
