package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carrizal-edu/asistencia-api/internal/models"
	"github.com/carrizal-edu/asistencia-api/internal/store"
	appErrors "github.com/carrizal-edu/asistencia-api/pkg/errors"
)

func newAttendanceFixture() (*AttendanceService, *store.Session) {
	session := store.NewSession()
	persistence := NewPersistenceService(nil, session, zap.NewNop())
	return NewAttendanceService(session, persistence, zap.NewNop()), session
}

func TestAttendanceServiceDayScenario(t *testing.T) {
	svc, session := newAttendanceFixture()
	session.Load(models.Roster{{ID: 1, Name: "Ana"}, {ID: 2, Name: "Luis"}}, nil)

	sheet, err := svc.Day(context.Background(), "2024-05-01")
	require.NoError(t, err)
	require.Len(t, sheet.Students, 2)
	assert.Equal(t, models.AttendanceStatusUnmarked, sheet.Students[0].Status)
	assert.Equal(t, models.AttendanceStatusUnmarked, sheet.Students[1].Status)
	assert.Equal(t, models.StatusCounts{Total: 2}, sheet.Counts)

	_, err = svc.SetStatus(context.Background(), 1, "2024-05-01", models.AttendanceStatusPresent)
	require.NoError(t, err)
	_, err = svc.SetStatus(context.Background(), 2, "2024-05-01", models.AttendanceStatusAbsent)
	require.NoError(t, err)

	sheet, err = svc.Day(context.Background(), "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCounts{Present: 1, Absent: 1, Total: 2}, sheet.Counts)

	// removing Ana leaves only Luis's record and counts follow
	session.RemoveStudent(1)
	sheet, err = svc.Day(context.Background(), "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCounts{Absent: 1, Total: 1}, sheet.Counts)
}

func TestAttendanceServiceSetStatusRejectsUnmarked(t *testing.T) {
	svc, session := newAttendanceFixture()
	session.Load(models.Roster{{ID: 1, Name: "Ana"}}, nil)

	_, err := svc.SetStatus(context.Background(), 1, "2024-05-01", models.AttendanceStatusUnmarked)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceSetStatusUnknownStudent(t *testing.T) {
	svc, _ := newAttendanceFixture()

	_, err := svc.SetStatus(context.Background(), 7, "2024-05-01", models.AttendanceStatusPresent)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceInvalidDate(t *testing.T) {
	svc, _ := newAttendanceFixture()

	_, err := svc.Day(context.Background(), "05/01/2024")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceClearDate(t *testing.T) {
	svc, session := newAttendanceFixture()
	session.Load(models.Roster{{ID: 1, Name: "Ana"}}, models.AttendanceTable{
		"2024-05-01": {{StudentID: 1, Status: models.AttendanceStatusLate}},
	})

	require.NoError(t, svc.ClearDate(context.Background(), "2024-05-01"))
	require.NoError(t, svc.ClearDate(context.Background(), "2024-05-01"))

	_, table := session.Snapshot()
	assert.Empty(t, table)
}
