package dto

import (
	"time"

	"github.com/sanmiguel-edu/colegio-api/internal/models"
)

// PageMeta captures limit/offset pagination metadata for list responses.
type PageMeta struct {
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	TotalItems int64 `json:"total_items"`
}

// AuditListRequest defines filters for querying the promotion audit trail.
type AuditListRequest struct {
	CicloEscolar string
	TrimesterID  *uint
	Decision     string
	Carnet       string
	Limit        int
	Offset       int
}

// AuditRecordResponse serializes one immutable promotion audit record.
type AuditRecordResponse struct {
	ID                   uint                     `json:"id"`
	RunID                uint                     `json:"run_id"`
	Carnet               string                   `json:"carnet"`
	CicloEscolar         string                   `json:"ciclo_escolar"`
	TrimesterID          uint                     `json:"trimestre_id"`
	PreviousGradeLevelID *uint                    `json:"previous_grade_level_id"`
	NewGradeLevelID      *uint                    `json:"new_grade_level_id"`
	GeneralAverage       *float64                 `json:"general_average"`
	Decision             models.PromotionDecision `json:"decision"`
	ExecutedByRole       string                   `json:"executed_by_role"`
	Observations         string                   `json:"observations"`
	CreatedAt            time.Time                `json:"created_at"`
}

// AuditListResponse wraps a paginated audit trail read.
type AuditListResponse struct {
	Items      []AuditRecordResponse `json:"items"`
	Pagination PageMeta              `json:"pagination"`
}

// NewAuditRecordResponse converts an audit model into a DTO.
func NewAuditRecordResponse(record models.PromotionAuditRecord) AuditRecordResponse {
	return AuditRecordResponse{
		ID:                   record.ID,
		RunID:                record.RunID,
		Carnet:               record.Carnet,
		CicloEscolar:         record.CicloEscolar,
		TrimesterID:          record.TrimesterID,
		PreviousGradeLevelID: record.PreviousGradeLevelID,
		NewGradeLevelID:      record.NewGradeLevelID,
		GeneralAverage:       record.GeneralAverage,
		Decision:             record.Decision,
		ExecutedByRole:       record.ExecutedByRole,
		Observations:         record.Observations,
		CreatedAt:            record.CreatedAt,
	}
}
