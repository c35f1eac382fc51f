package service

import (
	"fmt"
	"time"

	"github.com/carrizal-edu/asistencia-api/internal/models"
)

const dateLayout = "2006-01-02"

// EffectiveStatuses resolves each student's status for a date: the recorded
// status when a record exists, Unmarked otherwise. The result always has the
// same length and order as the roster.
func EffectiveStatuses(roster models.Roster, table models.AttendanceTable, date string) []models.StudentStatus {
	records := table[date]
	result := make([]models.StudentStatus, 0, len(roster))
	for _, student := range roster {
		status := models.AttendanceStatusUnmarked
		for _, rec := range records {
			if rec.StudentID == student.ID {
				status = rec.Status
				break
			}
		}
		result = append(result, models.StudentStatus{Student: student, Status: status})
	}
	return result
}

// CountByStatus tallies effective statuses into the four counters. Unmarked
// entries only raise the total.
func CountByStatus(entries []models.StudentStatus) models.StatusCounts {
	counts := models.StatusCounts{Total: len(entries)}
	for _, entry := range entries {
		switch entry.Status {
		case models.AttendanceStatusPresent:
			counts.Present++
		case models.AttendanceStatusAbsent:
			counts.Absent++
		case models.AttendanceStatusLate:
			counts.Late++
		case models.AttendanceStatusPermission:
			counts.Permission++
		}
	}
	return counts
}

// DatesInRange enumerates every calendar date from start to end inclusive,
// ascending. A reversed range yields an empty slice rather than an error;
// the picker in the frontend already clamps it, and a reversed range simply
// has no dates. Only unparseable input fails.
func DatesInRange(start, end string) ([]string, error) {
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("parse start date %q: %w", start, err)
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("parse end date %q: %w", end, err)
	}

	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateLayout))
	}
	return dates, nil
}

// AggregateRange collects, for every student in roster order, the recorded
// status per date in the given sequence plus per-student totals, and sums an
// overall tally across all students. Dates without a record contribute to no
// counter and leave no map entry.
func AggregateRange(roster models.Roster, table models.AttendanceTable, dates []string) ([]models.StudentRangeRow, models.StatusCounts) {
	rows := make([]models.StudentRangeRow, 0, len(roster))
	var overall models.StatusCounts

	for _, student := range roster {
		row := models.StudentRangeRow{
			Student:  student,
			Statuses: make(map[string]models.AttendanceStatus),
		}
		for _, date := range dates {
			for _, rec := range table[date] {
				if rec.StudentID != student.ID {
					continue
				}
				row.Statuses[date] = rec.Status
				switch rec.Status {
				case models.AttendanceStatusPresent:
					row.Totals.Present++
				case models.AttendanceStatusAbsent:
					row.Totals.Absent++
				case models.AttendanceStatusLate:
					row.Totals.Late++
				case models.AttendanceStatusPermission:
					row.Totals.Permission++
				}
				break
			}
		}
		row.Totals.Total = len(row.Statuses)
		overall.Add(row.Totals)
		rows = append(rows, row)
	}

	return rows, overall
}
