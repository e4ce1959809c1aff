package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"poetrydesk/internal/domain"
	"poetrydesk/internal/service"
)

// PoemRequest is the body of a poem submission
type PoemRequest struct {
	PoetPhoneNumber   string `json:"poet_phone_number"`
	CriticPhoneNumber string `json:"critic_phone_number"`
	Text              string `json:"text"`
}

// PoemHandler handles /api/poems
type PoemHandler struct {
	svc    *service.PoemService
	logger *zap.Logger
}

// NewPoemHandler creates a new poem handler
func NewPoemHandler(svc *service.PoemService, logger *zap.Logger) *PoemHandler {
	return &PoemHandler{svc: svc, logger: logger}
}

// List returns the poems table, filtered by ?filter= and rendered in ?format=
func (h *PoemHandler) List(w http.ResponseWriter, r *http.Request) {
	table, err := h.svc.List(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		writeServiceError(w, r, h.logger, "list poems", err)
		return
	}
	writeTable(w, r, h.logger, table)
}

// Submit records a poem
func (h *PoemHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req PoemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	poem := domain.NewPoem(req.PoetPhoneNumber, req.CriticPhoneNumber, req.Text)
	if err := h.svc.Submit(r.Context(), poem); err != nil {
		writeServiceError(w, r, h.logger, "submit poem", err)
		return
	}

	writeJSON(w, h.logger, map[string]string{
		"poet_phone_number":   poem.PoetPhoneNumber,
		"critic_phone_number": poem.CriticPhoneNumber,
		"uploaded":            poem.Uploaded.Format(time.RFC3339),
		"text":                poem.Text,
	}, http.StatusCreated)
}

// Clear removes every poem
func (h *PoemHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context()); err != nil {
		writeServiceError(w, r, h.logger, "clear poems", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
