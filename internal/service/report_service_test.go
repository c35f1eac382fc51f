package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carrizal-edu/asistencia-api/internal/assistant"
	"github.com/carrizal-edu/asistencia-api/internal/models"
	"github.com/carrizal-edu/asistencia-api/internal/store"
	appErrors "github.com/carrizal-edu/asistencia-api/pkg/errors"
)

type generatorMock struct {
	mu          sync.Mutex
	dailyMsg    string
	dailyErr    error
	tableHTML   string
	tableErr    error
	dailyCalls  int
	tableCalls  int
	lastCounts  models.StatusCounts
	lastRecords []assistant.RangeRecord
	lastDates   []string
	block       chan struct{}
}

func (m *generatorMock) DailySummaryMessage(ctx context.Context, counts models.StatusCounts) (string, error) {
	m.mu.Lock()
	m.dailyCalls++
	m.lastCounts = counts
	block := m.block
	m.mu.Unlock()
	if block != nil {
		<-block
	}
	return m.dailyMsg, m.dailyErr
}

func (m *generatorMock) RangeReportTable(ctx context.Context, records []assistant.RangeRecord, dates []string) (string, error) {
	m.mu.Lock()
	m.tableCalls++
	m.lastRecords = records
	m.lastDates = dates
	m.mu.Unlock()
	return m.tableHTML, m.tableErr
}

type cacheMock struct {
	store map[string][]byte
	sets  int
}

func (m *cacheMock) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *cacheMock) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.store == nil {
		m.store = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = raw
	m.sets++
	return nil
}

func newReportFixture(gen *generatorMock, cache reportCache) (*ReportService, *store.Session) {
	session := store.NewSession()
	session.Load(models.Roster{{ID: 1, Name: "Ana"}, {ID: 2, Name: "Luis"}}, models.AttendanceTable{
		"2024-05-01": {
			{StudentID: 1, Status: models.AttendanceStatusPresent},
			{StudentID: 2, Status: models.AttendanceStatusAbsent},
		},
		"2024-05-02": {
			{StudentID: 1, Status: models.AttendanceStatusLate},
		},
	})
	svc := NewReportService(session, gen, cache, NewMetricsService(), time.Minute, "Registro de Asistencia", zap.NewNop())
	return svc, session
}

func TestReportServiceDailyMessage(t *testing.T) {
	gen := &generatorMock{dailyMsg: "¡Gran asistencia hoy!"}
	svc, _ := newReportFixture(gen, nil)

	report, err := svc.DailyMessage(context.Background(), "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, "¡Gran asistencia hoy!", report.Message)
	assert.Equal(t, models.StatusCounts{Present: 1, Absent: 1, Total: 2}, report.Counts)
	assert.Equal(t, models.StatusCounts{Present: 1, Absent: 1, Total: 2}, gen.lastCounts)
}

func TestReportServiceDailyMessageGeneratorFailure(t *testing.T) {
	gen := &generatorMock{dailyErr: assertError("model unavailable")}
	svc, _ := newReportFixture(gen, nil)

	_, err := svc.DailyMessage(context.Background(), "2024-05-01")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrReportUnavailable.Code, appErrors.FromError(err).Code)
}

func TestReportServiceDailyMessageSingleFlight(t *testing.T) {
	gen := &generatorMock{dailyMsg: "ok", block: make(chan struct{})}
	svc, _ := newReportFixture(gen, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := svc.DailyMessage(context.Background(), "2024-05-01")
		assert.NoError(t, err)
	}()

	// wait for the first request to reach the generator, then collide
	require.Eventually(t, func() bool {
		gen.mu.Lock()
		defer gen.mu.Unlock()
		return gen.dailyCalls == 1
	}, time.Second, 5*time.Millisecond)

	_, err := svc.DailyMessage(context.Background(), "2024-05-01")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	close(gen.block)
	<-done

	// surface released after completion
	_, err = svc.DailyMessage(context.Background(), "2024-05-01")
	assert.NoError(t, err)
}

func TestReportServiceRangeReport(t *testing.T) {
	gen := &generatorMock{tableHTML: "<table></table>"}
	svc, _ := newReportFixture(gen, nil)

	report, err := svc.RangeReport(context.Background(), "2024-05-01", "2024-05-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05-01", "2024-05-02"}, report.Dates)
	assert.Equal(t, "<table></table>", report.TableHTML)
	require.Len(t, report.Students, 2)
	assert.Equal(t, 1, report.Totals.Present)
	assert.Equal(t, 1, report.Totals.Absent)
	assert.Equal(t, 1, report.Totals.Late)

	require.Len(t, gen.lastRecords, 2)
	assert.Equal(t, "Ana", gen.lastRecords[0].StudentName)
	assert.Equal(t, []string{"2024-05-01", "2024-05-02"}, gen.lastDates)
}

func TestReportServiceRangeReportReversedRange(t *testing.T) {
	gen := &generatorMock{tableHTML: "<table></table>"}
	svc, _ := newReportFixture(gen, nil)

	report, err := svc.RangeReport(context.Background(), "2024-05-02", "2024-05-01")
	require.NoError(t, err)
	assert.Empty(t, report.Dates)
	assert.Equal(t, models.StatusCounts{}, report.Totals)
}

func TestReportServiceRangeReportCached(t *testing.T) {
	gen := &generatorMock{tableHTML: "<table></table>"}
	cache := &cacheMock{}
	svc, _ := newReportFixture(gen, cache)

	_, err := svc.RangeReport(context.Background(), "2024-05-01", "2024-05-02")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	_, err = svc.RangeReport(context.Background(), "2024-05-01", "2024-05-02")
	require.NoError(t, err)
	assert.Equal(t, 1, gen.tableCalls)
}

func TestReportServiceRangeReportCacheInvalidatedByMutation(t *testing.T) {
	gen := &generatorMock{tableHTML: "<table></table>"}
	cache := &cacheMock{}
	svc, session := newReportFixture(gen, cache)

	_, err := svc.RangeReport(context.Background(), "2024-05-01", "2024-05-02")
	require.NoError(t, err)

	session.SetStatus(2, "2024-05-02", models.AttendanceStatusPermission)

	_, err = svc.RangeReport(context.Background(), "2024-05-01", "2024-05-02")
	require.NoError(t, err)
	assert.Equal(t, 2, gen.tableCalls)
}

func TestReportServiceExportRangeCSV(t *testing.T) {
	svc, _ := newReportFixture(&generatorMock{}, nil)

	name, contentType, raw, err := svc.ExportRange(context.Background(), "2024-05-01", "2024-05-02", "csv")
	require.NoError(t, err)
	assert.Equal(t, "asistencia_2024-05-01_2024-05-02.csv", name)
	assert.Equal(t, "text/csv", contentType)

	content := string(raw)
	assert.Contains(t, content, "Estudiante,2024-05-01,2024-05-02,Presente,Ausente,Tarde,Permiso")
	assert.Contains(t, content, "Ana,P,T,1,0,1,0")
	assert.Contains(t, content, "Luis,A,,0,1,0,0")
}

func TestReportServiceExportRangePDF(t *testing.T) {
	svc, _ := newReportFixture(&generatorMock{}, nil)

	name, contentType, raw, err := svc.ExportRange(context.Background(), "2024-05-01", "2024-05-01", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "asistencia_2024-05-01_2024-05-01.pdf", name)
	assert.Equal(t, "application/pdf", contentType)
	assert.NotEmpty(t, raw)
}

func TestReportServiceExportRangeUnknownFormat(t *testing.T) {
	svc, _ := newReportFixture(&generatorMock{}, nil)

	_, _, _, err := svc.ExportRange(context.Background(), "2024-05-01", "2024-05-01", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

type assertError string

func (e assertError) Error() string { return string(e) }
