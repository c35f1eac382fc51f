package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/carrizal-edu/asistencia-api/internal/models"
	"github.com/carrizal-edu/asistencia-api/internal/repository"
	"github.com/carrizal-edu/asistencia-api/internal/store"
)

// SnapshotStore is the durable home of the serialized session aggregates.
type SnapshotStore interface {
	Save(ctx context.Context, name, payload string) error
	Load(ctx context.Context, name string) (string, error)
}

// PersistenceService keeps the durable copy of the session aggregates in
// sync, best effort. Saves happen after every mutation and once at shutdown;
// any failure is logged and swallowed so the in-memory state stays
// authoritative. With no repository (database unreachable at boot) the
// service degrades to memory-only operation.
type PersistenceService struct {
	repo    SnapshotStore
	session *store.Session
	logger  *zap.Logger
}

// NewPersistenceService constructs a PersistenceService. repo may be nil.
func NewPersistenceService(repo SnapshotStore, session *store.Session, logger *zap.Logger) *PersistenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersistenceService{repo: repo, session: session, logger: logger}
}

// Hydrate loads both snapshots into the session. A missing snapshot means an
// empty aggregate; a corrupt one is logged and skipped.
func (s *PersistenceService) Hydrate(ctx context.Context) {
	if s.repo == nil {
		s.logger.Warn("persistence disabled, starting with empty session")
		return
	}

	var roster models.Roster
	if payload, err := s.repo.Load(ctx, repository.SnapshotRoster); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to load roster snapshot", zap.Error(err))
		}
	} else if err := json.Unmarshal([]byte(payload), &roster); err != nil {
		s.logger.Warn("failed to decode roster snapshot", zap.Error(err))
	}

	var table models.AttendanceTable
	if payload, err := s.repo.Load(ctx, repository.SnapshotAttendance); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to load attendance snapshot", zap.Error(err))
		}
	} else if err := json.Unmarshal([]byte(payload), &table); err != nil {
		s.logger.Warn("failed to decode attendance snapshot", zap.Error(err))
	}

	s.session.Load(roster, table)
	s.logger.Info("session hydrated", zap.Int("students", len(roster)), zap.Int("dates", len(table)))
}

// SaveSnapshot serializes both aggregates and stores them. Errors are logged
// and swallowed.
func (s *PersistenceService) SaveSnapshot(ctx context.Context) {
	if s.repo == nil {
		return
	}

	roster, table := s.session.Snapshot()

	if payload, err := json.Marshal(roster); err != nil {
		s.logger.Warn("failed to encode roster snapshot", zap.Error(err))
	} else if err := s.repo.Save(ctx, repository.SnapshotRoster, string(payload)); err != nil {
		s.logger.Warn("failed to save roster snapshot", zap.Error(err))
	}

	if payload, err := json.Marshal(table); err != nil {
		s.logger.Warn("failed to encode attendance snapshot", zap.Error(err))
	} else if err := s.repo.Save(ctx, repository.SnapshotAttendance, string(payload)); err != nil {
		s.logger.Warn("failed to save attendance snapshot", zap.Error(err))
	}
}
