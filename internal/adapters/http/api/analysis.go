// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	chart "github.com/samvat/rectify/internal/domain/chart"
	significance "github.com/samvat/rectify/internal/domain/significance"
	varga "github.com/samvat/rectify/internal/domain/varga"
	"github.com/samvat/rectify/pkg/metrics"
)

// analysisRequest mirrors the body of POST /analysis. Scheme defaults to
// D1; category is optional and adds a significance verdict when present.
type analysisRequest struct {
	Positions map[string]float64 `json:"positions"`
	Scheme    string             `json:"scheme"`
	Category  string             `json:"category"`
}

type analysisResponse struct {
	Scheme       string                `json:"scheme"`
	Analysis     significance.Analysis `json:"analysis"`
	Significance *significance.Result  `json:"significance,omitempty"`
}

// AnalysisHandler handles chart analysis requests.
type AnalysisHandler struct {
	scorer *significance.Scorer
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler() *AnalysisHandler {
	return &AnalysisHandler{scorer: significance.NewScorer()}
}

// HandleAnalysis handles POST /analysis requests.
func (h *AnalysisHandler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_analysis"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	positions := toPositionSet(req.Positions)
	if err := chart.Validate(positions); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	scheme := varga.D1
	if req.Scheme != "" {
		scheme = varga.Scheme(req.Scheme)
		if _, ok := varga.Divisor(scheme); !ok {
			writeError(w, http.StatusBadRequest, "bad_request",
				WrapKind(op, ErrBadRequest, fmt.Errorf("unknown scheme %q", req.Scheme)))
			return
		}
	}

	c, err := varga.BuildChart(scheme, positions)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	metrics.RecordChartBuilt(string(scheme))

	resp := analysisResponse{
		Scheme:   string(scheme),
		Analysis: h.scorer.Analyze(c),
	}
	if cat := strings.ToLower(strings.TrimSpace(req.Category)); cat != "" {
		res := h.scorer.Score(c, significance.Category(cat))
		resp.Significance = &res
		metrics.RecordEventScored()
	}
	writeJSON(w, http.StatusOK, resp)
}
