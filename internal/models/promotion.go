package models

import (
	"time"

	"gorm.io/datatypes"
)

// PromotionDecision classifies the outcome computed for one student in a
// promotion pass. The four values are mutually exclusive and exhaustive.
type PromotionDecision string

const (
	DecisionPromote   PromotionDecision = "PROMOTE"
	DecisionRepeat    PromotionDecision = "REPEAT"
	DecisionGraduate  PromotionDecision = "GRADUATE"
	DecisionNoSection PromotionDecision = "NO_SECTION"
)

// PromotionRun records one committed promotion batch. The unique index on
// (ciclo_escolar, trimester_id) is what makes re-execution of a processed
// period fail instead of double-promoting.
type PromotionRun struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	CicloEscolar      string    `gorm:"size:16;not null;uniqueIndex:idx_run_period" json:"ciclo_escolar"`
	TrimesterID       uint      `gorm:"not null;uniqueIndex:idx_run_period" json:"trimester_id"`
	MinPassingAverage float64   `gorm:"not null" json:"min_passing_average"`
	TotalStudents     int       `gorm:"not null" json:"total_students"`
	Promoted          int       `gorm:"not null" json:"promoted"`
	Repeating         int       `gorm:"not null" json:"repeating"`
	Graduated         int       `gorm:"not null" json:"graduated"`
	NoSection         int       `gorm:"not null" json:"no_section"`
	ExecutedByID      uint      `json:"executed_by_id"`
	ExecutedByRole    string    `gorm:"size:32" json:"executed_by_role"`
	Observations      string    `gorm:"type:text" json:"observations"`
	CreatedAt         time.Time `json:"created_at"`
}

// PromotionAuditRecord is the immutable per-student trace of a promotion
// batch. Created once inside the batch transaction, never updated or deleted.
type PromotionAuditRecord struct {
	ID                   uint              `gorm:"primaryKey" json:"id"`
	RunID                uint              `gorm:"not null;index" json:"run_id"`
	StudentID            uint              `gorm:"not null;index" json:"student_id"`
	Carnet               string            `gorm:"size:32;not null;index" json:"carnet"`
	CicloEscolar         string            `gorm:"size:16;not null;index" json:"ciclo_escolar"`
	TrimesterID          uint              `gorm:"not null;index" json:"trimester_id"`
	PreviousGradeLevelID *uint             `json:"previous_grade_level_id"`
	NewGradeLevelID      *uint             `json:"new_grade_level_id"`
	GeneralAverage       *float64          `json:"general_average"`
	Decision             PromotionDecision `gorm:"size:16;not null;index" json:"decision"`
	ExecutedByRole       string            `gorm:"size:32" json:"executed_by_role"`
	Observations         string            `gorm:"type:text" json:"observations"`
	Metadata             datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt            time.Time         `json:"created_at"`
}
