package models

import "time"

// Task is a gradable unit of work belonging to exactly one course, tagged
// with the trimester it was assigned in.
type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CourseID    uint      `gorm:"not null;index" json:"course_id"`
	TrimesterID uint      `gorm:"not null;index" json:"trimester_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	MaxPoints   float64   `gorm:"not null" json:"max_points"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Course    Course    `json:"course,omitempty"`
	Trimester Trimester `json:"trimester,omitempty"`
}

// GradeEntry records the points a student earned on a task. Points stays nil
// while the task is ungraded; an ungraded task never contributes to totals.
type GradeEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"not null;uniqueIndex:idx_entry_task_student" json:"task_id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_entry_task_student" json:"student_id"`
	Points    *float64  `json:"points"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Task    Task    `json:"task,omitempty"`
	Student Student `json:"student,omitempty"`
}
