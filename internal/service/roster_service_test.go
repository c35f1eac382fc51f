package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carrizal-edu/asistencia-api/internal/models"
	"github.com/carrizal-edu/asistencia-api/internal/store"
)

type recordingSnapshotRepo struct {
	saved  map[string]string
	loaded map[string]string
}

func (m *recordingSnapshotRepo) Save(ctx context.Context, name, payload string) error {
	if m.saved == nil {
		m.saved = make(map[string]string)
	}
	m.saved[name] = payload
	return nil
}

func (m *recordingSnapshotRepo) Load(ctx context.Context, name string) (string, error) {
	if payload, ok := m.loaded[name]; ok {
		return payload, nil
	}
	return "", sql.ErrNoRows
}

func newRosterFixture() (*RosterService, *store.Session, *recordingSnapshotRepo) {
	session := store.NewSession()
	repo := &recordingSnapshotRepo{}
	persistence := NewPersistenceService(repo, session, zap.NewNop())
	return NewRosterService(session, persistence, zap.NewNop()), session, repo
}

func TestRosterServiceAdd(t *testing.T) {
	svc, _, repo := newRosterFixture()

	student, err := svc.Add(context.Background(), AddStudentRequest{Name: "  Ana  "})
	require.NoError(t, err)
	require.NotNil(t, student)
	assert.Equal(t, "Ana", student.Name)

	// the mutation triggered a snapshot save of both aggregates
	assert.Contains(t, repo.saved, "roster")
	assert.Contains(t, repo.saved, "attendance")
}

func TestRosterServiceAddWhitespaceOnlyIsSilentNoop(t *testing.T) {
	svc, session, repo := newRosterFixture()

	student, err := svc.Add(context.Background(), AddStudentRequest{Name: "   "})
	require.NoError(t, err)
	assert.Nil(t, student)

	roster, _ := session.Snapshot()
	assert.Empty(t, roster)
	assert.Empty(t, repo.saved)
}

func TestRosterServiceRemoveCascades(t *testing.T) {
	svc, session, _ := newRosterFixture()
	ana, err := svc.Add(context.Background(), AddStudentRequest{Name: "Ana"})
	require.NoError(t, err)
	session.SetStatus(ana.ID, "2024-05-01", models.AttendanceStatusPresent)

	require.NoError(t, svc.Remove(context.Background(), ana.ID))

	roster, table := session.Snapshot()
	assert.Empty(t, roster)
	assert.Empty(t, table)
}

func TestRosterServiceRemoveUnknownIDIsNoop(t *testing.T) {
	svc, _, repo := newRosterFixture()

	require.NoError(t, svc.Remove(context.Background(), 999))
	assert.Empty(t, repo.saved)
}

func TestRosterServiceList(t *testing.T) {
	svc, _, _ := newRosterFixture()
	_, err := svc.Add(context.Background(), AddStudentRequest{Name: "Ana"})
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), AddStudentRequest{Name: "Luis"})
	require.NoError(t, err)

	roster := svc.List(context.Background())
	require.Len(t, roster, 2)
	assert.Equal(t, "Ana", roster[0].Name)
	assert.Equal(t, "Luis", roster[1].Name)
}
