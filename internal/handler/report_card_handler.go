package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sanmiguel-edu/colegio-api/internal/service"
	"github.com/sanmiguel-edu/colegio-api/internal/utils"
)

// ReportCardHandler exposes the student average and status endpoints.
type ReportCardHandler struct {
	service service.ReportCardService
	logger  zerolog.Logger
}

// NewReportCardHandler constructs the handler.
func NewReportCardHandler(service service.ReportCardService, logger zerolog.Logger) *ReportCardHandler {
	return &ReportCardHandler{
		service: service,
		logger:  logger.With().Str("component", "report_card_handler").Logger(),
	}
}

// Register attaches student read routes to the router group.
func (h *ReportCardHandler) Register(router fiber.Router) {
	router.Get("/status", h.status)
	router.Get("/:carnet/average", h.average)
}

func (h *ReportCardHandler) status(c *fiber.Ctx) error {
	gradeLevelID, err := parseQueryUintPtr(c, "grado")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid grado")
	}

	response, err := h.service.StudentStatus(c.Context(), gradeLevelID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build status snapshot")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build status snapshot")
	}

	return utils.SendSuccess(c, "student status snapshot", response)
}

func (h *ReportCardHandler) average(c *fiber.Ctx) error {
	carnet := strings.TrimSpace(c.Params("carnet"))
	if carnet == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "carnet is required")
	}

	trimesterID, err := parseQueryUintPtr(c, "trimestre_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid trimestre_id")
	}

	response, err := h.service.BuildReportCard(c.Context(), carnet, trimesterID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		case errors.Is(err, service.ErrTrimesterNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "trimester not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to build report card")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to build report card")
		}
	}

	return utils.SendSuccess(c, "student averages", response)
}
