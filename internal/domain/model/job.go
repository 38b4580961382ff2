// Package model contains domain models passed between layers.
package model

import (
	"time"

	ephemeris "github.com/samvat/rectify/internal/domain/ephemeris"
	rectification "github.com/samvat/rectify/internal/domain/rectification"
)

// Job is one rectification request travelling from the HTTP layer through
// the queue to a worker.
type Job struct {
	RequestID string                // unique id for idempotency
	Approx    time.Time             // reported approximate birth time
	Location  ephemeris.Location    // birth place
	Events    []rectification.Event // life events to score against
	Submitted time.Time             // when the request was accepted
}
