package storage

import (
	"errors"
	"fmt"

	"github.com/scrypster/lostpaws/pkg/types"
)

var (
	// ErrNotFound indicates that the requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates that the input parameters are invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates the caller does not own the report.
	ErrForbidden = errors.New("only the report owner may change its status")

	// ErrInvalidTransition indicates a status change the lifecycle forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// PaginatedResult represents a paginated result set with type safety using generics.
type PaginatedResult[T any] struct {
	// Items is the slice of results for the current page.
	Items []T `json:"items"`

	// Total is the total number of items across all pages.
	Total int `json:"total"`

	// Page is the current page number (1-indexed).
	Page int `json:"page"`

	// PageSize is the number of items per page.
	PageSize int `json:"page_size"`

	// HasMore indicates whether there are more pages available.
	HasMore bool `json:"has_more"`
}

// ListOptions provides pagination and filtering options for ListReports.
type ListOptions struct {
	// Status filters by lifecycle state. Empty means any.
	Status types.ReportStatus

	// Species filters by species. Empty means any.
	Species types.Species

	// Page is the page number to retrieve (1-indexed, default: 1).
	Page int

	// PageSize is the number of items per page (default: 20, max: 100).
	PageSize int
}

// Normalize applies defaults and bounds.
func (o *ListOptions) Normalize() {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize < 1 {
		o.PageSize = 20
	}
	if o.PageSize > 100 {
		o.PageSize = 100
	}
}

// Offset calculates the offset for SQL queries based on page and page size.
func (o *ListOptions) Offset() int {
	return (o.Page - 1) * o.PageSize
}

// ProbabilityFunc computes a lost report's next search probability from
// the report as currently stored.
type ProbabilityFunc func(report *types.PetReport) int

// NextProbability applies next to report and keeps the stored value when it
// is not lower. changed reports whether a write is needed.
func NextProbability(report *types.PetReport, next ProbabilityFunc) (value int, changed bool) {
	value = next(report)
	if current, ok := report.StoredProbability(); ok && value <= current {
		return current, false
	}
	return value, true
}

// CheckStatusChange validates that ownerID may move report to next.
func CheckStatusChange(report *types.PetReport, ownerID string, next types.ReportStatus) error {
	if !types.IsValidReportStatus(next) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, next)
	}
	if ownerID == "" || ownerID != report.OwnerID {
		return ErrForbidden
	}
	if !types.IsValidStatusTransition(report.Status, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, report.Status, next)
	}
	return nil
}

// NewPage builds a PaginatedResult from one page of items.
func NewPage[T any](items []T, total int, opts ListOptions) *PaginatedResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PaginatedResult[T]{
		Items:    items,
		Total:    total,
		Page:     opts.Page,
		PageSize: opts.PageSize,
		HasMore:  opts.Offset()+len(items) < total,
	}
}
