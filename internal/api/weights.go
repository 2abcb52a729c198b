package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MikeSquared-Agency/Bobot/internal/metrics"
	"github.com/MikeSquared-Agency/Bobot/internal/weights"
)

type WeightsHandler struct {
	gen *weights.Generator
}

func NewWeightsHandler(g *weights.Generator) *WeightsHandler {
	return &WeightsHandler{gen: g}
}

type WeightsResponse struct {
	Count   int               `json:"count"`
	Weights weights.WeightSet `json:"weights"`
	Ranks   []int             `json:"ranks"`
	Sum     int               `json:"sum"`
}

// Generate handles GET /api/v1/weights?count=N
func (h *WeightsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("count")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "count required")
		return
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "count must be an integer")
		return
	}

	ws, err := h.gen.Generate(count)
	if errors.Is(err, weights.ErrInvalidArgument) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.WeightSetGenerated(count)

	writeJSON(w, http.StatusOK, WeightsResponse{
		Count:   count,
		Weights: ws,
		Ranks:   ws.Ranks(),
		Sum:     ws.Sum(),
	})
}
