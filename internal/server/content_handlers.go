// internal/server/content_handlers.go
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rcampos/vendahub/internal/content"
	"github.com/rcampos/vendahub/internal/log"
)

// Setting keys consulted for content generation. The API key set by an
// admin through /admin/v1/settings wins over the server environment.
const (
	settingOpenAIKey    = "openai_api_key"
	settingContentModel = "content_model"
)

// resolveContentGenerator builds a generator for this request. The key
// comes from system_settings first, then the environment; the model can
// likewise be overridden by a setting.
func (s *Server) resolveContentGenerator() (*content.Generator, error) {
	if s.contentGenerator != nil {
		return s.contentGenerator, nil
	}

	key := s.openaiKey
	if setting, err := s.settingsStore.Get(settingOpenAIKey); err == nil && setting.Value != "" {
		key = setting.Value
	}
	if key == "" {
		return nil, errors.New("no OpenAI API key configured")
	}

	model := s.contentModel
	if setting, err := s.settingsStore.Get(settingContentModel); err == nil && setting.Value != "" {
		model = setting.Value
	}

	return content.NewGenerator(s.chatClients(key), model), nil
}

type GenerateContentRequest struct {
	ProductID   string `json:"product_id,omitempty"`
	ProductName string `json:"product_name"`
	Category    string `json:"category,omitempty"`
	Features    string `json:"features,omitempty"`
	Marketplace string `json:"marketplace"`
	Style       string `json:"style,omitempty"`
}

func (s *Server) handleGenerateContent(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	generator, err := s.resolveContentGenerator()
	if err != nil {
		log.Error("content generation unavailable", "user_id", user.ID, "error", err.Error())
		s.writeError(w, http.StatusInternalServerError, "configuration", "Content generation is not configured: set the openai_api_key setting")
		return
	}

	var req GenerateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	// A product id alone is enough; the catalog fills in the rest.
	if req.ProductID != "" && req.ProductName == "" {
		p, err := s.catalogStore.GetProduct(user.ID, req.ProductID)
		if err != nil {
			s.writeError(w, http.StatusNotFound, "not_found", "Product not found")
			return
		}
		req.ProductName = p.Name
		if req.Category == "" {
			req.Category = p.Category
		}
		if req.Features == "" {
			req.Features = p.Description
		}
	}

	if req.ProductName == "" || req.Marketplace == "" {
		s.writeError(w, http.StatusBadRequest, "validation_failed", "product_name and marketplace are required")
		return
	}

	result, err := generator.Generate(r.Context(), &content.Request{
		ProductName: req.ProductName,
		Category:    req.Category,
		Features:    req.Features,
		Marketplace: req.Marketplace,
		Style:       req.Style,
	})
	if err != nil {
		log.Error("content generation failed", "user_id", user.ID, "error", err.Error())
		s.writeError(w, http.StatusBadGateway, "generation_failed", "Failed to generate content")
		return
	}

	saved := &content.Generated{
		UserID:      user.ID,
		ProductID:   req.ProductID,
		Marketplace: req.Marketplace,
		Style:       req.Style,
		Title:       result.Title,
		Description: result.Description,
		Tags:        result.Tags,
	}
	if err := s.contentStore.Save(saved); err != nil {
		log.Error("failed to save generated content", "user_id", user.ID, "error", err.Error())
		s.writeError(w, http.StatusInternalServerError, "persistence_failure", "Generated content could not be saved")
		return
	}

	json.NewEncoder(w).Encode(saved)
}

func (s *Server) handleListContent(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	list, err := s.contentStore.List(user.ID, 0)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "server_error", "Failed to list generated content")
		return
	}
	json.NewEncoder(w).Encode(list)
}
