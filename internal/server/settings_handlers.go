// internal/server/settings_handlers.go
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rcampos/vendahub/internal/settings"
)

func (s *Server) handleListSettings(w http.ResponseWriter, r *http.Request) {
	list, err := s.settingsStore.List()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to list settings")
		return
	}
	json.NewEncoder(w).Encode(list)
}

func (s *Server) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	setting, err := s.settingsStore.Get(chi.URLParam(r, "key"))
	if err != nil {
		if errors.Is(err, settings.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "not_found", "Setting not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to get setting")
		return
	}
	json.NewEncoder(w).Encode(setting)
}

type SetSettingRequest struct {
	Value string `json:"value"`
}

func (s *Server) handleSetSetting(w http.ResponseWriter, r *http.Request) {
	var req SetSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	key := chi.URLParam(r, "key")
	if err := s.settingsStore.Set(key, req.Value); err != nil {
		s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to save setting")
		return
	}

	setting, err := s.settingsStore.Get(key)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to load saved setting")
		return
	}
	json.NewEncoder(w).Encode(setting)
}
