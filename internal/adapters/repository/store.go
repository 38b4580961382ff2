// Package repository defines the rectification result store and errors.
package repository

import (
	"context"
	"time"

	rectification "github.com/samvat/rectify/internal/domain/rectification"
)

// Status tracks a request through its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Record is the stored outcome of one rectification request.
type Record struct {
	ID          string               `json:"id"`
	Status      Status               `json:"status"`
	SubmittedAt time.Time            `json:"submitted_at"`
	CompletedAt time.Time            `json:"completed_at,omitempty"`
	Result      rectification.Result `json:"result,omitempty"`
	Error       string               `json:"error,omitempty"`
}

// Store provides read/write access to rectification outcomes.
type Store interface {
	// Put inserts or replaces the record for its ID. Replacing is how a
	// pending record transitions to completed or failed.
	Put(ctx context.Context, rec Record) error

	// Get returns the record for a request ID.
	// Returns ErrNotFound if the ID is unknown.
	Get(ctx context.Context, id string) (Record, error)

	// Count returns the number of records held.
	Count(ctx context.Context) int
}
