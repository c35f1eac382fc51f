package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/carrizal-edu/asistencia-api/internal/models"
	"github.com/carrizal-edu/asistencia-api/internal/store"
)

// AddStudentRequest holds payload for adding a student to the roster.
type AddStudentRequest struct {
	Name string `json:"name"`
}

// RosterService handles roster use-cases.
type RosterService struct {
	session     *store.Session
	persistence *PersistenceService
	logger      *zap.Logger
}

// NewRosterService constructs the roster service.
func NewRosterService(session *store.Session, persistence *PersistenceService, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{session: session, persistence: persistence, logger: logger}
}

// List returns the roster in insertion order.
func (s *RosterService) List(ctx context.Context) models.Roster {
	roster, _ := s.session.Snapshot()
	return roster
}

// Add trims the name and appends a new student. A name that is empty after
// trimming is silently ignored: the returned student is nil and nothing
// changes, mirroring how the classroom form always behaved.
func (s *RosterService) Add(ctx context.Context, req AddStudentRequest) (*models.Student, error) {
	name := strings.TrimSpace(req.Name)
	student, ok := s.session.AddStudent(name)
	if !ok {
		return nil, nil
	}

	s.persistence.SaveSnapshot(ctx)
	s.logger.Info("student added", zap.Int64("student_id", student.ID))
	return &student, nil
}

// Remove deletes the student and cascades over every attendance record.
// Removing an unknown ID is a no-op, never an error.
func (s *RosterService) Remove(ctx context.Context, id int64) error {
	if removed := s.session.RemoveStudent(id); removed {
		s.persistence.SaveSnapshot(ctx)
		s.logger.Info("student removed", zap.Int64("student_id", id))
	}
	return nil
}
