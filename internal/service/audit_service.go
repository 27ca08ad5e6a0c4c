package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sanmiguel-edu/colegio-api/internal/dto"
	"github.com/sanmiguel-edu/colegio-api/internal/models"
	"github.com/sanmiguel-edu/colegio-api/internal/repository"
)

const (
	defaultAuditPageSize = 50
	maxAuditPageSize     = 500
)

// AuditService reads the append-only promotion audit trail.
type AuditService interface {
	List(ctx context.Context, req dto.AuditListRequest) (dto.AuditListResponse, error)
}

type auditService struct {
	repo   repository.AuditRepository
	logger zerolog.Logger
}

// NewAuditService constructs the audit service.
func NewAuditService(repo repository.AuditRepository, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger.With().Str("component", "audit_service").Logger(),
	}
}

func (s *auditService) List(ctx context.Context, req dto.AuditListRequest) (dto.AuditListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultAuditPageSize
	} else if limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}

	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	filter := repository.AuditFilter{
		CicloEscolar: strings.TrimSpace(req.CicloEscolar),
		TrimesterID:  req.TrimesterID,
		Decision:     models.PromotionDecision(strings.ToUpper(strings.TrimSpace(req.Decision))),
		Carnet:       strings.TrimSpace(req.Carnet),
		Limit:        limit,
		Offset:       offset,
	}

	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.AuditListResponse{}, err
	}

	items := make([]dto.AuditRecordResponse, 0, len(records))
	for _, record := range records {
		items = append(items, dto.NewAuditRecordResponse(record))
	}

	return dto.AuditListResponse{
		Items: items,
		Pagination: dto.PageMeta{
			Limit:      limit,
			Offset:     offset,
			TotalItems: total,
		},
	}, nil
}
