package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Bobot/internal/scoring"
	"github.com/MikeSquared-Agency/Bobot/internal/seeder"
	"github.com/MikeSquared-Agency/Bobot/internal/store"
)

type SWOTHandler struct {
	store  store.Store
	seeder *seeder.Seeder
}

func NewSWOTHandler(s store.Store, sd *seeder.Seeder) *SWOTHandler {
	return &SWOTHandler{store: s, seeder: sd}
}

type SWOTResponse struct {
	Unit       *store.Unit         `json:"unit"`
	Year       int                 `json:"year"`
	Factors    []*store.SWOTFactor `json:"factors"`
	Evaluation scoring.Evaluation  `json:"evaluation"`
}

type SeedRequest struct {
	Year int `json:"year"`
}

type RebalanceRequest struct {
	Year   int  `json:"year"`
	DryRun bool `json:"dry_run"`
}

// Get handles GET /api/v1/units/{id}/swot?year=Y&category=C
func (h *SWOTHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid unit id")
		return
	}
	year, err := yearParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	filter := store.SWOTFilter{UnitID: &id, Year: year}
	if v := r.URL.Query().Get("category"); v != "" {
		cat, err := store.ParseCategory(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Category = &cat
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

	factors, err := h.store.ListSWOTFactors(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if factors == nil {
		factors = []*store.SWOTFactor{}
	}

	writeJSON(w, http.StatusOK, SWOTResponse{
		Unit:       unit,
		Year:       year,
		Factors:    factors,
		Evaluation: scoring.Evaluate(factors),
	})
}

// SeedUnit handles POST /api/v1/units/{id}/swot/seed
func (h *SWOTHandler) SeedUnit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid unit id")
		return
	}
	req, ok := decodeSeedRequest(w, r)
	if !ok {
		return
	}

	result, err := h.seeder.SeedUnit(r.Context(), id, req.Year)
	if err != nil {
		writeSeedError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// SeedAll handles POST /api/v1/swot/seed
func (h *SWOTHandler) SeedAll(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSeedRequest(w, r)
	if !ok {
		return
	}
	report, err := h.seeder.SeedAll(r.Context(), req.Year)
	if err != nil {
		writeSeedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Rebalance handles POST /api/v1/swot/rebalance
func (h *SWOTHandler) Rebalance(w http.ResponseWriter, r *http.Request) {
	var req RebalanceRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.Year == 0 {
		req.Year = time.Now().Year()
	}
	report, err := h.seeder.Rebalance(r.Context(), req.Year, req.DryRun)
	if err != nil {
		writeSeedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func decodeSeedRequest(w http.ResponseWriter, r *http.Request) (SeedRequest, bool) {
	var req SeedRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return req, false
		}
	}
	if req.Year == 0 {
		req.Year = time.Now().Year()
	}
	return req, true
}

func writeSeedError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, seeder.ErrUnitNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, seeder.ErrInvalidYear):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
