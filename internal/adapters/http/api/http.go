// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/samvat/rectify/internal/adapters/repository"
	"github.com/samvat/rectify/internal/domain/dedupe"
	ephemeris "github.com/samvat/rectify/internal/domain/ephemeris"
	"github.com/samvat/rectify/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue submits a job for async processing, recording it as
	// pending. Returns false on backpressure.
	Enqueue(ctx context.Context, j model.Job) bool

	// Lookup returns the stored outcome for a request ID.
	Lookup(ctx context.Context, id string) (repository.Record, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler         *HealthHandler
	statsHandler          *StatsHandler
	rectificationsHandler *RectificationsHandler
	chartsHandler         *ChartsHandler
	analysisHandler       *AnalysisHandler
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*Server)

// WithMaxEvents bounds how many life events one submission may carry.
func WithMaxEvents(n int) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.rectificationsHandler.maxEvents = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:         NewHealthHandler(),
		statsHandler:          NewStatsHandler(statsProvider),
		rectificationsHandler: NewRectificationsHandler(deps),
		chartsHandler:         NewChartsHandler(),
		analysisHandler:       NewAnalysisHandler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/rectifications", MetricsMiddleware(s.rectificationsHandler.HandleSubmit, "rectifications"))
	mux.HandleFunc("/rectifications/", MetricsMiddleware(s.rectificationsHandler.HandleResult, "rectification_result"))
	mux.HandleFunc("/charts", MetricsMiddleware(s.chartsHandler.HandleCharts, "charts"))
	mux.HandleFunc("/analysis", MetricsMiddleware(s.analysisHandler.HandleAnalysis, "analysis"))
}

// eventPayload mirrors one life event in POST /rectifications.
type eventPayload struct {
	When        string  `json:"when"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight"`
}

// rectificationRequest mirrors the body of POST /rectifications.
type rectificationRequest struct {
	RequestID  string             `json:"request_id"`
	ApproxTime string             `json:"approx_time"`
	Location   ephemeris.Location `json:"location"`
	Events     []eventPayload     `json:"events"`
}

func (r rectificationRequest) validate(maxEvents int) error {
	if strings.TrimSpace(r.ApproxTime) == "" {
		return errors.New("missing approx_time")
	}
	if _, err := time.Parse(time.RFC3339, r.ApproxTime); err != nil {
		return errors.New("invalid approx_time; must be RFC3339")
	}
	if len(r.Events) == 0 {
		return errors.New("missing events")
	}
	if maxEvents > 0 && len(r.Events) > maxEvents {
		return errors.New("too many events")
	}
	for _, ev := range r.Events {
		if strings.TrimSpace(ev.Category) == "" {
			return errors.New("missing event category")
		}
		if ev.Weight < 0 || ev.Weight > 1 {
			return errors.New("event weight must be in [0,1]")
		}
		if ev.When != "" {
			if _, err := time.Parse(time.RFC3339, ev.When); err != nil {
				return errors.New("invalid event time; must be RFC3339")
			}
		}
	}
	return nil
}

type ackResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
