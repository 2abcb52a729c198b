package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Bobot/internal/store"
)

type UnitsHandler struct {
	store store.Store
}

func NewUnitsHandler(s store.Store) *UnitsHandler {
	return &UnitsHandler{store: s}
}

type CreateUnitRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Create handles POST /api/v1/units
func (h *UnitsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	req.Name = strings.TrimSpace(req.Name)
	if req.Code == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "code and name required")
		return
	}

	unit := &store.Unit{Code: req.Code, Name: req.Name}
	if err := h.store.CreateUnit(r.Context(), unit); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, unit)
}

// List handles GET /api/v1/units
func (h *UnitsHandler) List(w http.ResponseWriter, r *http.Request) {
	units, err := h.store.ListUnits(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if units == nil {
		units = []*store.Unit{}
	}
	writeJSON(w, http.StatusOK, units)
}

// Get handles GET /api/v1/units/{id}
func (h *UnitsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid unit id")
		return
	}
	unit, err := h.store.GetUnit(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if unit == nil {
		writeError(w, http.StatusNotFound, "unit not found")
		return
	}
	writeJSON(w, http.StatusOK, unit)
}
