package models

// AttendanceStatus represents the status for attendance records. The
// literals match the values the classroom frontend has always persisted.
type AttendanceStatus string

const (
	AttendanceStatusPresent    AttendanceStatus = "Presente"
	AttendanceStatusAbsent     AttendanceStatus = "Ausente"
	AttendanceStatusLate       AttendanceStatus = "Tarde"
	AttendanceStatusPermission AttendanceStatus = "Permiso"

	// AttendanceStatusUnmarked is derived only: it means no record exists
	// for a student on a date and is never stored or accepted as input.
	AttendanceStatusUnmarked AttendanceStatus = "Sin Marcar"
)

// Valid returns true when the status is a supported recordable value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate, AttendanceStatusPermission:
		return true
	default:
		return false
	}
}

// AttendanceRecord marks one student's status for a single date.
type AttendanceRecord struct {
	StudentID int64            `json:"studentId"`
	Status    AttendanceStatus `json:"status"`
}

// AttendanceTable maps a calendar date (YYYY-MM-DD) to the records taken on
// that day. A date key with no records must not exist in the table.
type AttendanceTable map[string][]AttendanceRecord

// StudentStatus pairs a student with the effective status for a date.
type StudentStatus struct {
	Student
	Status AttendanceStatus `json:"status"`
}

// StatusCounts tallies effective statuses for one date. Unmarked students
// contribute only to Total.
type StatusCounts struct {
	Present    int `json:"present"`
	Absent     int `json:"absent"`
	Late       int `json:"late"`
	Permission int `json:"permission"`
	Total      int `json:"total"`
}

// Add accumulates the counters of another tally, Total included.
func (c *StatusCounts) Add(other StatusCounts) {
	c.Present += other.Present
	c.Absent += other.Absent
	c.Late += other.Late
	c.Permission += other.Permission
	c.Total += other.Total
}

// StudentRangeRow captures one student's statuses across a date range.
type StudentRangeRow struct {
	Student
	Statuses map[string]AttendanceStatus `json:"statuses"`
	Totals   StatusCounts                `json:"totals"`
}
