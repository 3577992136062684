package postgres

import (
	"context"
	"fmt"
)

// TruncateForTest removes all reports and sightings. It exists for integration
// tests that share a database between runs and must not be called in production.
func (s *ReportStore) TruncateForTest(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `TRUNCATE TABLE sightings, pet_reports`); err != nil {
		return fmt.Errorf("postgres: failed to truncate tables: %w", err)
	}
	return nil
}
