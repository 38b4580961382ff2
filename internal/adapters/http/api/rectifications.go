// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samvat/rectify/internal/adapters/repository"
	"github.com/samvat/rectify/internal/domain/model"
	rectification "github.com/samvat/rectify/internal/domain/rectification"
	significance "github.com/samvat/rectify/internal/domain/significance"
	"github.com/samvat/rectify/pkg/metrics"
)

// defaultMaxEvents bounds one submission when no option overrides it.
const defaultMaxEvents = 50

// RectificationsHandler handles rectification submissions and lookups.
type RectificationsHandler struct {
	deps      Dependencies
	maxEvents int
}

// NewRectificationsHandler creates a new rectifications handler.
func NewRectificationsHandler(deps Dependencies) *RectificationsHandler {
	return &RectificationsHandler{deps: deps, maxEvents: defaultMaxEvents}
}

// HandleSubmit handles POST /rectifications requests.
func (h *RectificationsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_rectification"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req rectificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(h.maxEvents); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	id := strings.TrimSpace(req.RequestID)
	if id == "" {
		id = uuid.NewString()
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), id) {
		metrics.RecordRectificationDuplicate()
		writeJSON(w, http.StatusConflict, ackResponse{RequestID: id, Status: "duplicate", Duplicate: true})
		return
	}

	job := toJob(id, req)
	if ok := h.deps.Enqueue(r.Context(), job); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), id)
		writeError(w, http.StatusServiceUnavailable, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{RequestID: id, Status: "accepted", Duplicate: false})
}

// HandleResult handles GET /rectifications/{id} requests.
func (h *RectificationsHandler) HandleResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/rectifications/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	rec, err := h.deps.Lookup(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	status := http.StatusOK
	if rec.Status == repository.StatusPending {
		status = http.StatusAccepted
	}
	writeJSON(w, status, rec)
}

// toJob converts a validated request into a queue job. Event timestamps
// were validated already; a missing one stays zero.
func toJob(id string, req rectificationRequest) model.Job {
	approx, _ := time.Parse(time.RFC3339, req.ApproxTime)

	events := make([]rectification.Event, 0, len(req.Events))
	for _, ev := range req.Events {
		var when time.Time
		if ev.When != "" {
			when, _ = time.Parse(time.RFC3339, ev.When)
		}
		events = append(events, rectification.Event{
			When:        when,
			Category:    significance.Category(strings.ToLower(strings.TrimSpace(ev.Category))),
			Description: ev.Description,
			Weight:      ev.Weight,
		})
	}

	return model.Job{
		RequestID: id,
		Approx:    approx,
		Location:  req.Location,
		Events:    events,
		Submitted: time.Now().UTC(),
	}
}
