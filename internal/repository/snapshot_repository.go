package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Snapshot names used by the persistence layer.
const (
	SnapshotRoster     = "roster"
	SnapshotAttendance = "attendance"
)

// SnapshotRepository stores the serialized session aggregates as named text
// blobs. Each aggregate is one row; saves overwrite the previous blob.
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository constructs a SnapshotRepository.
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save upserts the payload for the given snapshot name.
func (r *SnapshotRepository) Save(ctx context.Context, name, payload string) error {
	query := `INSERT INTO snapshots (name, payload, updated_at) VALUES ($1, $2, $3)
        ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, name, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("save snapshot %s: %w", name, err)
	}
	return nil
}

// Load returns the stored payload for the given snapshot name. Absence is
// reported as sql.ErrNoRows; callers treat it as an empty aggregate.
func (r *SnapshotRepository) Load(ctx context.Context, name string) (string, error) {
	var payload string
	if err := r.db.GetContext(ctx, &payload, "SELECT payload FROM snapshots WHERE name = $1", name); err != nil {
		return "", err
	}
	return payload, nil
}
