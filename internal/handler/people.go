package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"poetrydesk/internal/domain"
	"poetrydesk/internal/service"
)

// PersonRequest is the body of create and update calls. The phone number
// is taken from the path on update.
type PersonRequest struct {
	PhoneNumber string `json:"phone_number"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"` // yyyy-MM-dd
}

// PersonResponse is a poet or critic as returned by the API
type PersonResponse struct {
	PhoneNumber string `json:"phone_number"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	Role        string `json:"role"`
}

func newPersonResponse(p *domain.Person) PersonResponse {
	return PersonResponse{
		PhoneNumber: p.PhoneNumber,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		DateOfBirth: domain.FormatDate(p.DateOfBirth),
		Role:        string(p.Role),
	}
}

// PeopleHandler handles /api/poets or /api/critics
type PeopleHandler struct {
	svc    *service.PeopleService
	logger *zap.Logger
}

// NewPeopleHandler creates a handler for one role
func NewPeopleHandler(svc *service.PeopleService, logger *zap.Logger) *PeopleHandler {
	return &PeopleHandler{svc: svc, logger: logger}
}

// List returns the role's table, filtered by ?filter= and rendered in
// ?format= (json by default)
func (h *PeopleHandler) List(w http.ResponseWriter, r *http.Request) {
	table, err := h.svc.List(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		writeServiceError(w, r, h.logger, "list "+h.svc.Role().Table(), err)
		return
	}
	writeTable(w, r, h.logger, table)
}

// Get returns one person by phone number
func (h *PeopleHandler) Get(w http.ResponseWriter, r *http.Request) {
	person, err := h.svc.Get(r.Context(), r.PathValue("phone"))
	if err != nil {
		writeServiceError(w, r, h.logger, "get "+string(h.svc.Role()), err)
		return
	}
	writeJSON(w, h.logger, newPersonResponse(person), http.StatusOK)
}

// Create adds a person
func (h *PeopleHandler) Create(w http.ResponseWriter, r *http.Request) {
	person, ok := h.decodePerson(w, r)
	if !ok {
		return
	}

	if err := h.svc.Add(r.Context(), person); err != nil {
		writeServiceError(w, r, h.logger, "create "+string(h.svc.Role()), err)
		return
	}
	writeJSON(w, h.logger, newPersonResponse(person), http.StatusCreated)
}

// Update overwrites names and date of birth of the person in the path
func (h *PeopleHandler) Update(w http.ResponseWriter, r *http.Request) {
	person, ok := h.decodePerson(w, r)
	if !ok {
		return
	}
	person.PhoneNumber = r.PathValue("phone") // Path wins over body

	if err := h.svc.Update(r.Context(), person); err != nil {
		writeServiceError(w, r, h.logger, "update "+string(h.svc.Role()), err)
		return
	}
	writeJSON(w, h.logger, newPersonResponse(person), http.StatusOK)
}

// Delete removes the person in the path. Unknown phone numbers succeed.
func (h *PeopleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("phone")); err != nil {
		writeServiceError(w, r, h.logger, "delete "+string(h.svc.Role()), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear removes every person of the role
func (h *PeopleHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context()); err != nil {
		writeServiceError(w, r, h.logger, "clear "+h.svc.Role().Table(), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PeopleHandler) decodePerson(w http.ResponseWriter, r *http.Request) (*domain.Person, bool) {
	var req PersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, "Invalid request body", err.Error(), http.StatusBadRequest)
		return nil, false
	}

	person := &domain.Person{
		PhoneNumber: req.PhoneNumber,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Role:        h.svc.Role(),
	}
	if req.DateOfBirth != "" {
		dob, err := domain.ParseDate(req.DateOfBirth)
		if err != nil {
			writeJSON(w, h.logger, ErrorResponse{
				Error:  "Invalid input",
				Fields: map[string]string{"date_of_birth": "date of birth must be yyyy-MM-dd"},
			}, http.StatusBadRequest)
			return nil, false
		}
		person.DateOfBirth = dob
	}
	return person, true
}
