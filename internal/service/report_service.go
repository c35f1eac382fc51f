package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/carrizal-edu/asistencia-api/internal/assistant"
	"github.com/carrizal-edu/asistencia-api/internal/models"
	"github.com/carrizal-edu/asistencia-api/internal/store"
	appErrors "github.com/carrizal-edu/asistencia-api/pkg/errors"
	"github.com/carrizal-edu/asistencia-api/pkg/export"
)

// Report surfaces for single-flight control.
const (
	surfaceDaily = "daily"
	surfaceRange = "range"
)

type reportGenerator interface {
	DailySummaryMessage(ctx context.Context, counts models.StatusCounts) (string, error)
	RangeReportTable(ctx context.Context, records []assistant.RangeRecord, dates []string) (string, error)
}

type reportCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// DailyMessageRequest holds payload for generating the daily message.
type DailyMessageRequest struct {
	Date string `json:"date" binding:"required"`
}

// RangeReportRequest holds payload for generating a range report.
type RangeReportRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// DailyMessageReport is the generated summary for one date.
type DailyMessageReport struct {
	Date    string              `json:"date"`
	Counts  models.StatusCounts `json:"counts"`
	Message string              `json:"message"`
}

// RangeReport bundles the aggregation with the generated table markup.
type RangeReport struct {
	StartDate string                   `json:"start_date"`
	EndDate   string                   `json:"end_date"`
	Dates     []string                 `json:"dates"`
	Students  []models.StudentRangeRow `json:"students"`
	Totals    models.StatusCounts      `json:"totals"`
	TableHTML string                   `json:"table_html"`
}

// ReportService produces daily messages, range reports and file exports.
// Each report surface is single-flight: while one generation is outstanding
// a second request for the same surface is rejected, so a slow assistant
// call can never pile up duplicated work.
type ReportService struct {
	session   *store.Session
	generator reportGenerator
	cache     reportCache
	metrics   *MetricsService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	cacheTTL  time.Duration
	title     string
	logger    *zap.Logger

	mu       sync.Mutex
	inflight map[string]bool
}

// NewReportService constructs the report service. cache may be nil.
func NewReportService(session *store.Session, generator reportGenerator, cache reportCache, metrics *MetricsService, cacheTTL time.Duration, title string, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		session:   session,
		generator: generator,
		cache:     cache,
		metrics:   metrics,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		cacheTTL:  cacheTTL,
		title:     title,
		logger:    logger,
		inflight:  make(map[string]bool),
	}
}

// DailyMessage generates the short motivational message for one date.
// Not cached: the counts keep changing while the day is being taken.
func (s *ReportService) DailyMessage(ctx context.Context, date string) (*DailyMessageReport, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if !s.begin(surfaceDaily) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a daily report is already being generated")
	}
	defer s.end(surfaceDaily)

	roster, table := s.session.Snapshot()
	counts := CountByStatus(EffectiveStatuses(roster, table, date))

	message, err := s.generator.DailySummaryMessage(ctx, counts)
	if err != nil {
		s.metrics.RecordReportFailure(surfaceDaily)
		s.logger.Warn("daily message generation failed", zap.String("date", date), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrReportUnavailable.Code, appErrors.ErrReportUnavailable.Status, "no se pudo generar el reporte")
	}

	return &DailyMessageReport{Date: date, Counts: counts, Message: message}, nil
}

// RangeReport aggregates the inclusive date range and asks the assistant for
// the HTML table. Results are cached best-effort keyed by range and session
// revision, so a repeat request after no mutations skips the assistant.
func (s *ReportService) RangeReport(ctx context.Context, start, end string) (*RangeReport, error) {
	dates, err := DatesInRange(start, end)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "dates must be YYYY-MM-DD")
	}

	if !s.begin(surfaceRange) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a range report is already being generated")
	}
	defer s.end(surfaceRange)

	key := fmt.Sprintf("reports:range:%s:%s:rev%d", start, end, s.session.Revision())
	if s.cache != nil {
		began := time.Now()
		var cached RangeReport
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.RecordCacheOperation(true, time.Since(began))
			return &cached, nil
		}
		s.metrics.RecordCacheOperation(false, time.Since(began))
	}

	roster, table := s.session.Snapshot()
	rows, totals := AggregateRange(roster, table, dates)

	records := make([]assistant.RangeRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, assistant.RangeRecord{StudentName: row.Name, Attendance: row.Statuses})
	}

	tableHTML, err := s.generator.RangeReportTable(ctx, records, dates)
	if err != nil {
		s.metrics.RecordReportFailure(surfaceRange)
		s.logger.Warn("range report generation failed",
			zap.String("start", start), zap.String("end", end), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrReportUnavailable.Code, appErrors.ErrReportUnavailable.Status, "no se pudo generar el reporte")
	}

	report := &RangeReport{
		StartDate: start,
		EndDate:   end,
		Dates:     dates,
		Students:  rows,
		Totals:    totals,
		TableHTML: tableHTML,
	}

	if s.cache != nil {
		began := time.Now()
		if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache range report", zap.Error(err))
		}
		s.metrics.ObserveCacheWrite(time.Since(began))
	}

	return report, nil
}

// ExportRange renders the range aggregation as a CSV or PDF file. No
// assistant involved, so no single-flight gate.
func (s *ReportService) ExportRange(ctx context.Context, start, end, format string) (string, string, []byte, error) {
	dates, err := DatesInRange(start, end)
	if err != nil {
		return "", "", nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "dates must be YYYY-MM-DD")
	}

	roster, table := s.session.Snapshot()
	rows, _ := AggregateRange(roster, table, dates)
	dataset := buildRangeDataset(rows, dates)

	switch format {
	case "csv", "":
		raw, err := s.csv.Render(dataset)
		if err != nil {
			return "", "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		name := fmt.Sprintf("asistencia_%s_%s.csv", start, end)
		return name, "text/csv", raw, nil
	case "pdf":
		raw, err := s.pdf.Render(dataset, s.title)
		if err != nil {
			return "", "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		name := fmt.Sprintf("asistencia_%s_%s.pdf", start, end)
		return name, "application/pdf", raw, nil
	default:
		return "", "", nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func buildRangeDataset(rows []models.StudentRangeRow, dates []string) export.Dataset {
	headers := append([]string{"Estudiante"}, dates...)
	headers = append(headers, "Presente", "Ausente", "Tarde", "Permiso")

	exported := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		record := map[string]string{
			"Estudiante": row.Name,
			"Presente":   fmt.Sprintf("%d", row.Totals.Present),
			"Ausente":    fmt.Sprintf("%d", row.Totals.Absent),
			"Tarde":      fmt.Sprintf("%d", row.Totals.Late),
			"Permiso":    fmt.Sprintf("%d", row.Totals.Permission),
		}
		for _, date := range dates {
			record[date] = statusInitial(row.Statuses[date])
		}
		exported = append(exported, record)
	}

	return export.Dataset{Headers: headers, Rows: exported}
}

// statusInitial renders the single-letter cell used in exports: P, A, T or
// P (Permiso shares the initial with Presente, as the class sheet always has).
func statusInitial(status models.AttendanceStatus) string {
	if !status.Valid() {
		return ""
	}
	return string(status[0])
}

func (s *ReportService) begin(surface string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[surface] {
		return false
	}
	s.inflight[surface] = true
	return true
}

func (s *ReportService) end(surface string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, surface)
}
