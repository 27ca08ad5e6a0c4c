package models

import "time"

// Subject is a taught discipline (matematica, lenguaje, ...).
type Subject struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Course binds a subject, a teacher and a grade-section cohort. It owns the
// tasks graded throughout the school cycle.
type Course struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SubjectID uint      `gorm:"not null;index" json:"subject_id"`
	SectionID uint      `gorm:"not null;index" json:"section_id"`
	TeacherID uint      `gorm:"index" json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Subject Subject `json:"subject,omitempty"`
	Section Section `json:"section,omitempty"`
	Tasks   []Task  `json:"tasks,omitempty"`
}
