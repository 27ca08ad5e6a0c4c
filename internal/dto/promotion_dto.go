package dto

import (
	"time"

	"github.com/sanmiguel-edu/colegio-api/internal/models"
)

// PromotionSimulationRequest captures the query parameters of a dry run.
type PromotionSimulationRequest struct {
	TrimesterID       uint     `json:"trimestre_id" validate:"required"`
	MinPassingAverage *float64 `json:"nota_minima" validate:"omitempty,gt=0,lte=100"`
}

// PromotionExecutionRequest captures the payload of a committing batch.
type PromotionExecutionRequest struct {
	TrimesterID       uint     `json:"trimestre_id" validate:"required"`
	CicloEscolar      string   `json:"ciclo_escolar" validate:"required,min=4,max=16"`
	MinPassingAverage *float64 `json:"nota_minima" validate:"omitempty,gt=0,lte=100"`
	Observations      string   `json:"observaciones" validate:"omitempty,max=2000"`
}

// PromotionDecisionItem is one student's classification in a simulation.
type PromotionDecisionItem struct {
	Carnet         string                   `json:"carnet"`
	Name           string                   `json:"name"`
	GradeLevel     string                   `json:"grade_level"`
	GeneralAverage *float64                 `json:"general_average"`
	Decision       models.PromotionDecision `json:"decision"`
}

// PromotionSummary reconciles the mutually exclusive outcome counts of one
// pass: Promoted+Repeating+Graduated+NoSection == TotalStudents.
type PromotionSummary struct {
	TotalStudents int `json:"total_students"`
	Promoted      int `json:"promoted"`
	Repeating     int `json:"repeating"`
	Graduated     int `json:"graduated"`
	NoSection     int `json:"no_section"`
}

// PromotionSimulationResponse wraps the read-only classification pass.
type PromotionSimulationResponse struct {
	TrimesterID       uint                    `json:"trimestre_id"`
	MinPassingAverage float64                 `json:"nota_minima"`
	Items             []PromotionDecisionItem `json:"items"`
	Summary           PromotionSummary        `json:"summary"`
	GeneratedAt       time.Time               `json:"generated_at"`
}

// PromotionExecutionResponse wraps the committed batch outcome.
type PromotionExecutionResponse struct {
	RunID             uint             `json:"run_id"`
	TrimesterID       uint             `json:"trimestre_id"`
	CicloEscolar      string           `json:"ciclo_escolar"`
	MinPassingAverage float64          `json:"nota_minima"`
	Summary           PromotionSummary `json:"summary"`
	ExecutedAt        time.Time        `json:"executed_at"`
}
