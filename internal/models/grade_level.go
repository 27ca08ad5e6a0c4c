package models

import "time"

// GradeLevel is an ordered academic level. Terminal marks the level whose
// successful completion graduates the student instead of promoting them.
type GradeLevel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	Position  int       `gorm:"uniqueIndex;not null" json:"position"`
	Terminal  bool      `gorm:"not null;default:false" json:"terminal"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Section identifies a grade-section cohort (grado + seccion).
type Section struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:16;not null" json:"name"`
	GradeLevelID uint      `gorm:"not null;index" json:"grade_level_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	GradeLevel GradeLevel `json:"grade_level,omitempty"`
}
