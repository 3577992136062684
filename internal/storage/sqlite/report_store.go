// Package sqlite provides a SQLite implementation of storage.ReportStore
// using the CGO-free modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/scrypster/lostpaws/internal/storage"
	"github.com/scrypster/lostpaws/pkg/types"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const reportColumns = `id, owner_id, species, breed, size, color, name, gender, age, status,
	latitude, longitude, last_seen_at, image_urls, behavioral_traits, environmental_factors,
	weather_condition, distinctive_features, verification_methods, search_probability,
	behavior_prediction, search_tips, created_at, updated_at`

const sightingColumns = `id, pet_id, latitude, longitude, description, confidence,
	image_urls, reporter_id, reporter_name, created_at`

// ReportStore implements storage.ReportStore using SQLite.
type ReportStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewReportStore opens the database at dsn (a file path or ":memory:"),
// configures WAL mode and creates the schema.
func NewReportStore(dsn string) (*ReportStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	// SQLite only supports one concurrent writer. A single connection
	// serialises writes and keeps an in-memory database alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: failed to create schema: %w", err)
	}

	return &ReportStore{db: db, now: time.Now}, nil
}

// CreateReport stores a new report.
func (s *ReportStore) CreateReport(ctx context.Context, report *types.PetReport) error {
	if report == nil {
		return storage.ErrInvalidInput
	}
	if err := report.Validate(); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
	}
	if report.OwnerID == "" {
		return fmt.Errorf("%w: owner id is required", storage.ErrInvalidInput)
	}

	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	now := s.now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now
	if report.Status != types.StatusLost {
		report.SearchProbability = nil
	}

	lat, lng := nullableCoordinate(report.Location)
	_, err := s.db.ExecContext(ctx, `INSERT INTO pet_reports (`+reportColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID, report.OwnerID, report.Species, report.Breed, report.Size, report.Color,
		report.Name, report.Gender, report.Age, report.Status,
		lat, lng, report.LastSeenAt,
		encodeList(report.ImageURLs), encodeList(report.BehavioralTraits),
		encodeList(report.EnvironmentalFactors), report.WeatherCondition,
		encodeList(report.DistinctiveFeatures), encodeList(report.VerificationMethods),
		nullableInt(report.SearchProbability), report.BehaviorPrediction,
		encodeList(report.SearchTips),
		formatTime(now), formatTime(now),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: report %s already exists", storage.ErrInvalidInput, report.ID)
		}
		return fmt.Errorf("sqlite: failed to insert report: %w", err)
	}
	return nil
}

// GetReport retrieves a report by ID.
func (s *ReportStore) GetReport(ctx context.Context, id string) (*types.PetReport, error) {
	return getReport(ctx, s.db, id)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getReport(ctx context.Context, q queryRower, id string) (*types.PetReport, error) {
	row := q.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM pet_reports WHERE id = ?`, id)
	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to get report: %w", err)
	}
	return report, nil
}

// ListReports retrieves reports newest first.
func (s *ReportStore) ListReports(ctx context.Context, opts storage.ListOptions) (*storage.PaginatedResult[types.PetReport], error) {
	opts.Normalize()

	var where []string
	var args []any
	if opts.Status != "" {
		where = append(where, "status = ?")
		args = append(args, opts.Status)
	}
	if opts.Species != "" {
		where = append(where, "species = ?")
		args = append(args, opts.Species)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pet_reports`+clause, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("sqlite: failed to count reports: %w", err)
	}

	query := `SELECT ` + reportColumns + ` FROM pet_reports` + clause + ` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, opts.PageSize, opts.Offset())...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to list reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reports []types.PetReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan report: %w", err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: failed to iterate reports: %w", err)
	}

	return storage.NewPage(reports, total, opts), nil
}

// UpdateStatus moves a report to status on behalf of ownerID.
func (s *ReportStore) UpdateStatus(ctx context.Context, id, ownerID string, status types.ReportStatus) (*types.PetReport, error) {
	report, err := s.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := storage.CheckStatusChange(report, ownerID, status); err != nil {
		return nil, err
	}

	previous := report.Status
	report.Status = status
	if status != types.StatusLost {
		report.SearchProbability = nil
	}
	report.UpdatedAt = s.now().UTC()

	// Compare-and-set on the previous status so a concurrent change is
	// reported rather than overwritten.
	res, err := s.db.ExecContext(ctx,
		`UPDATE pet_reports SET status = ?, search_probability = ?, updated_at = ? WHERE id = ? AND status = ?`,
		report.Status, nullableInt(report.SearchProbability), formatTime(report.UpdatedAt), id, previous)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to update status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: status changed concurrently", storage.ErrInvalidTransition)
	}
	return report, nil
}

// UpdateAnalysis stores the prediction and tips of the latest recommendation.
func (s *ReportStore) UpdateAnalysis(ctx context.Context, id, prediction string, tips []string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE pet_reports SET behavior_prediction = ?, search_tips = ?, updated_at = ? WHERE id = ?`,
		prediction, encodeList(tips), formatTime(s.now().UTC()), id)
	if err != nil {
		return fmt.Errorf("sqlite: failed to update analysis: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// RaiseSearchProbability recomputes a lost report's probability. The pool
// holds a single connection, so the transaction excludes every other
// writer until it commits.
func (s *ReportStore) RaiseSearchProbability(ctx context.Context, id string, next storage.ProbabilityFunc) (*int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	report, err := getReport(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if report.Status != types.StatusLost {
		return nil, nil
	}

	probability, changed := storage.NextProbability(report, next)
	if changed {
		if _, err := tx.ExecContext(ctx,
			`UPDATE pet_reports SET search_probability = ?, updated_at = ? WHERE id = ? AND status = 'lost'`,
			probability, formatTime(s.now().UTC()), id); err != nil {
			return nil, fmt.Errorf("sqlite: failed to raise search probability: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: failed to commit search probability: %w", err)
	}
	return &probability, nil
}

// AddSighting stores a sighting for an existing report.
func (s *ReportStore) AddSighting(ctx context.Context, sighting *types.Sighting) error {
	if sighting == nil {
		return storage.ErrInvalidInput
	}
	if err := sighting.Validate(); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
	}

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM pet_reports WHERE id = ?`, sighting.PetID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("sqlite: failed to check report: %w", err)
	}

	if sighting.ID == "" {
		sighting.ID = uuid.NewString()
	}
	if sighting.CreatedAt.IsZero() {
		sighting.CreatedAt = s.now()
	}
	sighting.CreatedAt = sighting.CreatedAt.UTC()

	lat, lng := nullableCoordinate(sighting.Location)
	_, err = s.db.ExecContext(ctx, `INSERT INTO sightings (`+sightingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sighting.ID, sighting.PetID, lat, lng, sighting.Description, sighting.Confidence,
		encodeList(sighting.ImageURLs), sighting.ReporterID, sighting.ReporterName,
		formatTime(sighting.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: failed to insert sighting: %w", err)
	}
	return nil
}

// RecentSightings returns up to limit sightings for petID, newest first.
func (s *ReportStore) RecentSightings(ctx context.Context, petID string, limit int) ([]types.Sighting, error) {
	query := `SELECT ` + sightingColumns + ` FROM sightings WHERE pet_id = ? ORDER BY created_at DESC, id`
	args := []any{petID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query sightings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sightings := []types.Sighting{}
	for rows.Next() {
		var (
			sg        types.Sighting
			lat, lng  sql.NullFloat64
			images    string
			createdAt string
		)
		if err := rows.Scan(&sg.ID, &sg.PetID, &lat, &lng, &sg.Description, &sg.Confidence,
			&images, &sg.ReporterID, &sg.ReporterName, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan sighting: %w", err)
		}
		sg.Location = coordinateFrom(lat, lng)
		sg.ImageURLs = decodeList(images)
		sg.CreatedAt = parseTime(createdAt)
		sightings = append(sightings, sg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: failed to iterate sightings: %w", err)
	}
	return sightings, nil
}

// Close closes the database connection.
func (s *ReportStore) Close() error {
	return s.db.Close()
}

// Compile-time assertion.
var _ storage.ReportStore = (*ReportStore)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*types.PetReport, error) {
	var (
		r                                         types.PetReport
		lat, lng                                  sql.NullFloat64
		images, traits, factors, features, verify string
		tips, createdAt, updatedAt                string
		probability                               sql.NullInt64
	)
	err := row.Scan(&r.ID, &r.OwnerID, &r.Species, &r.Breed, &r.Size, &r.Color, &r.Name,
		&r.Gender, &r.Age, &r.Status, &lat, &lng, &r.LastSeenAt, &images, &traits, &factors,
		&r.WeatherCondition, &features, &verify, &probability, &r.BehaviorPrediction, &tips,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	r.Location = coordinateFrom(lat, lng)
	r.ImageURLs = decodeList(images)
	r.BehavioralTraits = decodeList(traits)
	r.EnvironmentalFactors = decodeList(factors)
	r.DistinctiveFeatures = decodeList(features)
	r.VerificationMethods = decodeList(verify)
	r.SearchTips = decodeList(tips)
	if probability.Valid {
		p := int(probability.Int64)
		r.SearchProbability = &p
	}
	r.CreatedAt = parseTime(createdAt)
	r.UpdatedAt = parseTime(updatedAt)
	return &r, nil
}

func nullableCoordinate(c *types.Coordinate) (sql.NullFloat64, sql.NullFloat64) {
	if c == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: c.Latitude, Valid: true}, sql.NullFloat64{Float64: c.Longitude, Valid: true}
}

func coordinateFrom(lat, lng sql.NullFloat64) *types.Coordinate {
	if !lat.Valid || !lng.Valid {
		return nil
	}
	return &types.Coordinate{Latitude: lat.Float64, Longitude: lng.Float64}
}

func nullableInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func encodeList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// decodeList returns nil for empty or unreadable lists.
func decodeList(raw string) []string {
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil || len(values) == 0 {
		return nil
	}
	return values
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
