package models

// Student represents a learner tracked in the classroom roster.
type Student struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Roster is the ordered list of students; insertion order is display order.
type Roster []Student

// Contains reports whether a student with the given ID is on the roster.
func (r Roster) Contains(id int64) bool {
	for _, s := range r {
		if s.ID == id {
			return true
		}
	}
	return false
}
