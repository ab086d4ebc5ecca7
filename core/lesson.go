package core

import "time"

// Lesson is a stored lesson record. Records are plain data; concurrency
// control lives in the store implementation, which hands out clones to
// prevent external mutation of shared state.
type Lesson struct {
	ID         string     `json:"id"`
	Topic      string     `json:"topic"`
	GradeLevel string     `json:"grade_level"`
	Duration   string     `json:"duration"`
	Content    string     `json:"content"`
	Citations  []Citation `json:"citations,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Clone returns a deep copy of the lesson.
func (l *Lesson) Clone() *Lesson {
	cp := *l
	if l.Citations != nil {
		cp.Citations = make([]Citation, len(l.Citations))
		copy(cp.Citations, l.Citations)
	}
	return &cp
}
