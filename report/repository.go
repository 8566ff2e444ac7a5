package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound signals that no report exists for the given id.
	ErrNotFound = errors.New("report: not found")
)

// Repository handles data access for reports.
type Repository interface {
	Insert(ctx context.Context, rec Record) (Record, error)
	Get(ctx context.Context, id string) (Record, error)
	List(ctx context.Context, filter Filter) ([]Record, error)
	ToggleApproval(ctx context.Context, id string) (Record, error)
	SetRemoved(ctx context.Context, id string, removed bool) (Record, error)
	Delete(ctx context.Context, id string) error
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed report repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const recordColumns = `id, name, telephone, comments, latitude, longitude, photo_ref, approved, is_removed, created_at, updated_at`

func (r *PGRepository) Insert(ctx context.Context, rec Record) (Record, error) {
	const query = `
		INSERT INTO reports (id, name, telephone, comments, latitude, longitude, photo_ref, approved, is_removed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, false, $8, $8)
		RETURNING ` + recordColumns

	var lat, lon *float64
	if rec.Coordinates != nil {
		lat, lon = &rec.Coordinates.Latitude, &rec.Coordinates.Longitude
	}

	row := r.pool.QueryRow(ctx, query,
		rec.ID, rec.Name, rec.Telephone, rec.Comments, lat, lon, rec.PhotoRef, rec.CreatedAt)
	out, err := scanRecord(row)
	if err != nil {
		return Record{}, fmt.Errorf("report: insert: %w", err)
	}
	return out, nil
}

func (r *PGRepository) Get(ctx context.Context, id string) (Record, error) {
	const query = `SELECT ` + recordColumns + ` FROM reports WHERE id = $1`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("report: get: %w", err)
	}
	return rec, nil
}

func (r *PGRepository) List(ctx context.Context, filter Filter) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM reports`
	if !filter.IncludeRemoved {
		query += ` WHERE is_removed = false`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("report: list: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0, 16)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("report: scan: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("report: iterate: %w", err)
	}
	return out, nil
}

func (r *PGRepository) ToggleApproval(ctx context.Context, id string) (Record, error) {
	const query = `
		UPDATE reports
		SET approved = NOT approved,
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + recordColumns

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("report: toggle approval: %w", err)
	}
	return rec, nil
}

func (r *PGRepository) SetRemoved(ctx context.Context, id string, removed bool) (Record, error) {
	const query = `
		UPDATE reports
		SET is_removed = $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + recordColumns

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, id, removed))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("report: set removed: %w", err)
	}
	return rec, nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("report: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		rec      Record
		lat, lon *float64
	)
	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Telephone,
		&rec.Comments,
		&lat,
		&lon,
		&rec.PhotoRef,
		&rec.Approved,
		&rec.IsRemoved,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	if lat != nil && lon != nil {
		rec.Coordinates = &Coordinate{Latitude: *lat, Longitude: *lon}
	}
	return rec, nil
}
