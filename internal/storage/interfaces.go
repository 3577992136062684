// Package storage defines the persistence contract for pet reports and
// sightings. Backends live in the sqlite and postgres subpackages.
package storage

import (
	"context"

	"github.com/scrypster/lostpaws/pkg/types"
)

// ReportStore persists pet reports and their sightings.
type ReportStore interface {
	// CreateReport stores a new report. An empty ID is filled with a new
	// UUID; CreatedAt/UpdatedAt are set by the store.
	// Returns ErrInvalidInput if the report fails validation.
	CreateReport(ctx context.Context, report *types.PetReport) error

	// GetReport retrieves a report by ID.
	// Returns ErrNotFound if the report doesn't exist.
	GetReport(ctx context.Context, id string) (*types.PetReport, error)

	// ListReports retrieves reports newest first with filtering and pagination.
	ListReports(ctx context.Context, opts ListOptions) (*PaginatedResult[types.PetReport], error)

	// UpdateStatus moves a report to status on behalf of ownerID.
	// Returns ErrNotFound, ErrForbidden when ownerID is not the owner, or
	// ErrInvalidTransition. Leaving lost clears the search probability.
	UpdateStatus(ctx context.Context, id, ownerID string, status types.ReportStatus) (*types.PetReport, error)

	// UpdateAnalysis stores the behavior prediction and search tips of the
	// latest recommendation. The search probability is left untouched.
	// Returns ErrNotFound if the report doesn't exist.
	UpdateAnalysis(ctx context.Context, id, prediction string, tips []string) error

	// RaiseSearchProbability recomputes a lost report's search probability
	// with next, reading and writing the row in one transaction. The stored
	// value never decreases. Returns nil when the report is not lost.
	// Returns ErrNotFound if the report doesn't exist.
	RaiseSearchProbability(ctx context.Context, id string, next ProbabilityFunc) (*int, error)

	// AddSighting stores a sighting for an existing report. An empty ID is
	// filled with a new UUID and a zero CreatedAt with the current time.
	// Returns ErrNotFound if the report doesn't exist, ErrInvalidInput if
	// the sighting has no location or confidence.
	AddSighting(ctx context.Context, sighting *types.Sighting) error

	// RecentSightings returns up to limit sightings for petID, newest first.
	// A limit <= 0 returns all of them.
	RecentSightings(ctx context.Context, petID string, limit int) ([]types.Sighting, error)

	// Close releases the underlying database.
	Close() error
}
