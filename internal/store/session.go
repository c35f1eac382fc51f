package store

import (
	"sync"
	"time"

	"github.com/carrizal-edu/asistencia-api/internal/models"
)

// Session owns the classroom roster and attendance table for the lifetime of
// the process. All mutations go through it; every operation either fully
// applies or leaves the state untouched. The mutex exists because the HTTP
// layer is concurrent even though the logical model is a single teacher.
type Session struct {
	mu       sync.Mutex
	roster   models.Roster
	table    models.AttendanceTable
	lastID   int64
	revision uint64
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{table: models.AttendanceTable{}}
}

// Load hydrates the session from persisted aggregates. Records carrying an
// unknown status literal and date keys left with no records are dropped, so
// the table invariants hold no matter what was stored.
func (s *Session) Load(roster models.Roster, table models.AttendanceTable) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roster = append(models.Roster{}, roster...)
	for _, student := range s.roster {
		if student.ID > s.lastID {
			s.lastID = student.ID
		}
	}

	s.table = models.AttendanceTable{}
	for date, records := range table {
		kept := make([]models.AttendanceRecord, 0, len(records))
		seen := make(map[int64]bool, len(records))
		for _, rec := range records {
			if !rec.Status.Valid() || seen[rec.StudentID] {
				continue
			}
			seen[rec.StudentID] = true
			kept = append(kept, rec)
		}
		if len(kept) > 0 {
			s.table[date] = kept
		}
	}
	s.revision++
}

// AddStudent appends a student with a fresh ID. Names are trimmed by the
// caller; an empty name is rejected by returning ok=false with no state
// change.
func (s *Session) AddStudent(name string) (models.Student, bool) {
	if name == "" {
		return models.Student{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	student := models.Student{ID: id, Name: name}
	s.roster = append(s.roster, student)
	s.revision++
	return student, true
}

// RemoveStudent removes the student and every attendance record referencing
// it, deleting any date whose collection becomes empty. Removing an unknown
// ID is a no-op.
func (s *Session) RemoveStudent(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, student := range s.roster {
		if student.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.roster = append(s.roster[:idx], s.roster[idx+1:]...)

	for date, records := range s.table {
		kept := records[:0]
		for _, rec := range records {
			if rec.StudentID != id {
				kept = append(kept, rec)
			}
		}
		if len(kept) == 0 {
			delete(s.table, date)
		} else {
			s.table[date] = kept
		}
	}
	s.revision++
	return true
}

// SetStatus upserts the record for (date, id), creating the date entry
// lazily. The caller guarantees a valid recordable status.
func (s *Session) SetStatus(id int64, date string, status models.AttendanceStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.table[date]
	for i, rec := range records {
		if rec.StudentID == id {
			records[i].Status = status
			s.revision++
			return
		}
	}
	s.table[date] = append(records, models.AttendanceRecord{StudentID: id, Status: status})
	s.revision++
}

// ClearDate deletes the whole date entry. Idempotent.
func (s *Session) ClearDate(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.table, date)
	s.revision++
}

// Snapshot returns deep copies of both aggregates for read paths and
// persistence; callers may mutate the result freely.
func (s *Session) Snapshot() (models.Roster, models.AttendanceTable) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roster := append(models.Roster{}, s.roster...)
	table := make(models.AttendanceTable, len(s.table))
	for date, records := range s.table {
		table[date] = append([]models.AttendanceRecord{}, records...)
	}
	return roster, table
}

// Revision increases on every mutation; report caching keys off it so stale
// aggregations are never served.
func (s *Session) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}
