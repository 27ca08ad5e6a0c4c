package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sanmiguel-edu/colegio-api/internal/dto"
	"github.com/sanmiguel-edu/colegio-api/internal/service"
	"github.com/sanmiguel-edu/colegio-api/internal/utils"
)

// AuditHandler exposes the promotion history endpoint.
type AuditHandler struct {
	service service.AuditService
	logger  zerolog.Logger
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(service service.AuditService, logger zerolog.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		logger:  logger.With().Str("component", "audit_handler").Logger(),
	}
}

// Register attaches the audit trail routes to the router group.
func (h *AuditHandler) Register(router fiber.Router) {
	router.Get("/history", h.list)
}

func (h *AuditHandler) list(c *fiber.Ctx) error {
	trimesterID, err := parseQueryUintPtr(c, "trimestre_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid trimestre_id")
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	decision := c.Query("decision")
	if decision == "" {
		decision = c.Query("estado_promocion")
	}

	req := dto.AuditListRequest{
		CicloEscolar: c.Query("ciclo_escolar"),
		TrimesterID:  trimesterID,
		Decision:     decision,
		Carnet:       c.Query("carnet"),
		Limit:        limit,
		Offset:       offset,
	}

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list promotion history")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list promotion history")
	}

	return utils.SendSuccess(c, "promotion history", response)
}
