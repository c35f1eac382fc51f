package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carrizal-edu/asistencia-api/internal/models"
)

func TestSessionAddStudent(t *testing.T) {
	s := NewSession()

	first, ok := s.AddStudent("Ana")
	require.True(t, ok)
	assert.Equal(t, "Ana", first.Name)
	assert.NotZero(t, first.ID)

	second, ok := s.AddStudent("Luis")
	require.True(t, ok)
	assert.Greater(t, second.ID, first.ID)

	roster, _ := s.Snapshot()
	require.Len(t, roster, 2)
	assert.Equal(t, "Ana", roster[0].Name)
	assert.Equal(t, "Luis", roster[1].Name)
}

func TestSessionAddStudentEmptyName(t *testing.T) {
	s := NewSession()

	_, ok := s.AddStudent("")
	assert.False(t, ok)

	roster, _ := s.Snapshot()
	assert.Empty(t, roster)
}

func TestSessionSetStatusUpsert(t *testing.T) {
	s := NewSession()
	student, _ := s.AddStudent("Ana")

	s.SetStatus(student.ID, "2024-05-01", models.AttendanceStatusLate)
	s.SetStatus(student.ID, "2024-05-01", models.AttendanceStatusPresent)

	_, table := s.Snapshot()
	require.Len(t, table["2024-05-01"], 1)
	assert.Equal(t, models.AttendanceStatusPresent, table["2024-05-01"][0].Status)
}

func TestSessionRemoveStudentCascade(t *testing.T) {
	s := NewSession()
	ana, _ := s.AddStudent("Ana")
	luis, _ := s.AddStudent("Luis")

	s.SetStatus(ana.ID, "2024-05-01", models.AttendanceStatusPresent)
	s.SetStatus(luis.ID, "2024-05-01", models.AttendanceStatusAbsent)
	s.SetStatus(ana.ID, "2024-05-02", models.AttendanceStatusLate)

	require.True(t, s.RemoveStudent(ana.ID))

	roster, table := s.Snapshot()
	require.Len(t, roster, 1)
	assert.Equal(t, "Luis", roster[0].Name)

	// date with a remaining record keeps it, emptied date disappears
	require.Len(t, table["2024-05-01"], 1)
	assert.Equal(t, luis.ID, table["2024-05-01"][0].StudentID)
	_, exists := table["2024-05-02"]
	assert.False(t, exists)
}

func TestSessionRemoveStudentUnknownIDNoop(t *testing.T) {
	s := NewSession()
	s.AddStudent("Ana")

	assert.False(t, s.RemoveStudent(42))

	roster, _ := s.Snapshot()
	assert.Len(t, roster, 1)
}

func TestSessionClearDateIdempotent(t *testing.T) {
	s := NewSession()
	ana, _ := s.AddStudent("Ana")
	s.SetStatus(ana.ID, "2024-05-01", models.AttendanceStatusPresent)

	s.ClearDate("2024-05-01")
	_, table := s.Snapshot()
	_, exists := table["2024-05-01"]
	assert.False(t, exists)

	s.ClearDate("2024-05-01")
	_, table = s.Snapshot()
	assert.Empty(t, table)
}

func TestSessionLoadDropsInvalidRecords(t *testing.T) {
	s := NewSession()
	s.Load(
		models.Roster{{ID: 1, Name: "Ana"}, {ID: 2, Name: "Luis"}},
		models.AttendanceTable{
			"2024-05-01": {
				{StudentID: 1, Status: models.AttendanceStatusPresent},
				{StudentID: 1, Status: models.AttendanceStatusAbsent},
				{StudentID: 2, Status: "Desconocido"},
			},
			"2024-05-02": {
				{StudentID: 2, Status: models.AttendanceStatusUnmarked},
			},
		},
	)

	_, table := s.Snapshot()
	require.Len(t, table["2024-05-01"], 1)
	assert.Equal(t, models.AttendanceStatusPresent, table["2024-05-01"][0].Status)
	_, exists := table["2024-05-02"]
	assert.False(t, exists)
}

func TestSessionLoadContinuesIDSequence(t *testing.T) {
	s := NewSession()
	s.Load(models.Roster{{ID: 1717171717171, Name: "Ana"}}, nil)

	student, ok := s.AddStudent("Luis")
	require.True(t, ok)
	assert.Greater(t, student.ID, int64(1717171717171))
}

func TestSessionRevisionAdvances(t *testing.T) {
	s := NewSession()
	before := s.Revision()
	s.AddStudent("Ana")
	assert.Greater(t, s.Revision(), before)
}

func TestSessionSnapshotIsDeepCopy(t *testing.T) {
	s := NewSession()
	ana, _ := s.AddStudent("Ana")
	s.SetStatus(ana.ID, "2024-05-01", models.AttendanceStatusPresent)

	_, table := s.Snapshot()
	table["2024-05-01"][0].Status = models.AttendanceStatusAbsent

	_, fresh := s.Snapshot()
	assert.Equal(t, models.AttendanceStatusPresent, fresh["2024-05-01"][0].Status)
}
