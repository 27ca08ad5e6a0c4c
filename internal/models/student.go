package models

import "time"

// StudentStatus enumerates the academic states a student can be in.
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "active"
	StudentStatusRepeating StudentStatus = "repeating"
	StudentStatusGraduated StudentStatus = "graduated"
)

// Student represents an enrolled learner identified by carnet.
// Grade level and status are mutated only by the promotion executor;
// section assignment belongs to the enrollment flow.
type Student struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Carnet       string        `gorm:"size:32;uniqueIndex;not null" json:"carnet"`
	Name         string        `gorm:"size:255;not null" json:"name"`
	GradeLevelID *uint         `gorm:"index" json:"grade_level_id"`
	SectionID    *uint         `gorm:"index" json:"section_id"`
	Status       StudentStatus `gorm:"size:16;not null;default:active" json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	GradeLevel *GradeLevel `json:"grade_level,omitempty"`
	Section    *Section    `json:"section,omitempty"`
}

// Evaluable reports whether the student participates in promotion batches.
func (s Student) Evaluable() bool {
	return s.Status != StudentStatusGraduated
}
