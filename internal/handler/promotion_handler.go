package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sanmiguel-edu/colegio-api/internal/dto"
	"github.com/sanmiguel-edu/colegio-api/internal/service"
	"github.com/sanmiguel-edu/colegio-api/internal/utils"
)

// PromotionHandler exposes the promotion simulation and execution endpoints.
type PromotionHandler struct {
	service service.PromotionService
	logger  zerolog.Logger
}

// NewPromotionHandler constructs the handler.
func NewPromotionHandler(service service.PromotionService, logger zerolog.Logger) *PromotionHandler {
	return &PromotionHandler{
		service: service,
		logger:  logger.With().Str("component", "promotion_handler").Logger(),
	}
}

// Register attaches promotion routes to the router group. The extra guards
// on execute are supplied by the caller (role check, rate limit).
func (h *PromotionHandler) Register(router fiber.Router, executeGuards ...fiber.Handler) {
	router.Get("/simulate", h.simulate)

	executeHandlers := append(append([]fiber.Handler{}, executeGuards...), h.execute)
	router.Post("/execute", executeHandlers...)
}

func (h *PromotionHandler) simulate(c *fiber.Ctx) error {
	trimesterID, err := parseQueryUintPtr(c, "trimestre_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid trimestre_id")
	}
	if trimesterID == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "trimestre_id is required")
	}

	minPassing, err := parseQueryFloatPtr(c, "nota_minima")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid nota_minima")
	}

	req := dto.PromotionSimulationRequest{
		TrimesterID:       *trimesterID,
		MinPassingAverage: minPassing,
	}

	response, err := h.service.Simulate(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTrimesterNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "trimester not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to simulate promotions")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to simulate promotions")
		}
	}

	return utils.SendSuccess(c, "promotion simulation", response)
}

func (h *PromotionHandler) execute(c *fiber.Ctx) error {
	var payload dto.PromotionExecutionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := promotionActorFromContext(c)
	response, err := h.service.Execute(c.Context(), payload, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAuthorized):
			return utils.SendError(c, fiber.StatusForbidden, "promotion requires elevated privileges")
		case errors.Is(err, service.ErrTrimesterNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "trimester not found")
		case errors.Is(err, service.ErrPeriodAlreadyProcessed):
			return utils.SendError(c, fiber.StatusConflict, "promotion already executed for this period")
		case errors.Is(err, service.ErrPeriodMismatch):
			return utils.SendError(c, fiber.StatusBadRequest, "trimester does not belong to the given ciclo escolar")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("promotion execution failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "promotion execution failed")
		}
	}

	return utils.SendSuccess(c, "promotion executed", response)
}
