// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	chart "github.com/samvat/rectify/internal/domain/chart"
	varga "github.com/samvat/rectify/internal/domain/varga"
	"github.com/samvat/rectify/pkg/metrics"
)

// chartsRequest mirrors the body of POST /charts. Schemes defaults to all
// sixteen divisional charts when omitted.
type chartsRequest struct {
	Positions map[string]float64 `json:"positions"`
	Schemes   []string           `json:"schemes"`
}

// chartPayload is one derived chart in the response.
type chartPayload struct {
	Scheme    string             `json:"scheme"`
	Positions map[string]float64 `json:"positions"`
	Houses    map[string]int     `json:"houses"`
}

type chartsResponse struct {
	Charts []chartPayload `json:"charts"`
}

// ChartsHandler handles divisional chart requests.
type ChartsHandler struct{}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler() *ChartsHandler {
	return &ChartsHandler{}
}

// HandleCharts handles POST /charts requests.
func (h *ChartsHandler) HandleCharts(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_charts"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req chartsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	positions := toPositionSet(req.Positions)
	if err := chart.Validate(positions); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	schemes, err := parseSchemes(req.Schemes)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	out := chartsResponse{Charts: make([]chartPayload, 0, len(schemes))}
	for _, s := range schemes {
		c, err := varga.BuildChart(s, positions)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err)
			return
		}
		metrics.RecordChartBuilt(string(s))
		out.Charts = append(out.Charts, toChartPayload(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func toPositionSet(in map[string]float64) chart.PositionSet {
	ps := make(chart.PositionSet, len(in))
	for name, lon := range in {
		p := chart.Planet(name)
		ps[p] = chart.Position{Planet: p, Longitude: lon}
	}
	return ps
}

func parseSchemes(in []string) ([]varga.Scheme, error) {
	if len(in) == 0 {
		return varga.All, nil
	}
	out := make([]varga.Scheme, 0, len(in))
	for _, name := range in {
		s := varga.Scheme(name)
		if _, ok := varga.Divisor(s); !ok {
			return nil, fmt.Errorf("unknown scheme %q", name)
		}
		out = append(out, s)
	}
	return out, nil
}

func toChartPayload(c chart.Chart) chartPayload {
	positions := make(map[string]float64, len(c.Positions))
	houses := make(map[string]int, len(c.Positions))
	for planet, pos := range c.Positions {
		positions[string(planet)] = pos.Longitude
		houses[string(planet)] = c.HouseOf(planet)
	}
	return chartPayload{
		Scheme:    string(c.Scheme),
		Positions: positions,
		Houses:    houses,
	}
}
