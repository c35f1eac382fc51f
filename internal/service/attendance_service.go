package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/carrizal-edu/asistencia-api/internal/models"
	"github.com/carrizal-edu/asistencia-api/internal/store"
	appErrors "github.com/carrizal-edu/asistencia-api/pkg/errors"
)

// SetStatusRequest holds payload for recording a student's status.
type SetStatusRequest struct {
	Status models.AttendanceStatus `json:"status" binding:"required"`
}

// DaySheet is the resolved attendance view for one date.
type DaySheet struct {
	Date     string                 `json:"date"`
	Students []models.StudentStatus `json:"students"`
	Counts   models.StatusCounts    `json:"counts"`
}

// AttendanceService handles per-day attendance use-cases.
type AttendanceService struct {
	session     *store.Session
	persistence *PersistenceService
	logger      *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(session *store.Session, persistence *PersistenceService, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{session: session, persistence: persistence, logger: logger}
}

// Day resolves every student's effective status for the date plus counts.
// Works for any date, recorded or not.
func (s *AttendanceService) Day(ctx context.Context, date string) (*DaySheet, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	roster, table := s.session.Snapshot()
	entries := EffectiveStatuses(roster, table, date)
	return &DaySheet{Date: date, Students: entries, Counts: CountByStatus(entries)}, nil
}

// SetStatus upserts a student's record for the date. Unmarked is derived
// only and rejected alongside unknown literals.
func (s *AttendanceService) SetStatus(ctx context.Context, studentID int64, date string, status models.AttendanceStatus) (*models.AttendanceRecord, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown attendance status")
	}

	roster, _ := s.session.Snapshot()
	if !roster.Contains(studentID) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	s.session.SetStatus(studentID, date, status)
	s.persistence.SaveSnapshot(ctx)
	return &models.AttendanceRecord{StudentID: studentID, Status: status}, nil
}

// ClearDate wipes every record for the date. Idempotent.
func (s *AttendanceService) ClearDate(ctx context.Context, date string) error {
	if err := validateDate(date); err != nil {
		return err
	}

	s.session.ClearDate(date)
	s.persistence.SaveSnapshot(ctx)
	s.logger.Info("attendance cleared", zap.String("date", date))
	return nil
}

func validateDate(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be YYYY-MM-DD")
	}
	return nil
}
