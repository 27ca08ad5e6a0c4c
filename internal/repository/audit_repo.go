package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sanmiguel-edu/colegio-api/internal/models"
)

// AuditFilter narrows promotion audit queries.
type AuditFilter struct {
	CicloEscolar string
	TrimesterID  *uint
	Decision     models.PromotionDecision
	Carnet       string
	Limit        int
	Offset       int
}

// AuditRepository reads the append-only promotion audit trail. There is
// deliberately no update or delete method.
type AuditRepository interface {
	List(ctx context.Context, filter AuditFilter) ([]models.PromotionAuditRecord, int64, error)
	CountByRun(ctx context.Context, runID uint) (int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository constructs the audit repository.
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) List(ctx context.Context, filter AuditFilter) ([]models.PromotionAuditRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PromotionAuditRecord{})

	if filter.CicloEscolar != "" {
		query = query.Where("ciclo_escolar = ?", filter.CicloEscolar)
	}

	if filter.TrimesterID != nil {
		query = query.Where("trimester_id = ?", *filter.TrimesterID)
	}

	if filter.Decision != "" {
		query = query.Where("decision = ?", filter.Decision)
	}

	if filter.Carnet != "" {
		query = query.Where("carnet = ?", filter.Carnet)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var records []models.PromotionAuditRecord
	if err := query.Order("created_at DESC, id DESC").Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *auditRepository) CountByRun(ctx context.Context, runID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PromotionAuditRecord{}).
		Where("run_id = ?", runID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
