package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/upliftco/uplift-api/internal/dto"
	"github.com/upliftco/uplift-api/internal/service"
	"github.com/upliftco/uplift-api/internal/utils"
)

// AdminCharityHandler exposes charity tenant management endpoints.
type AdminCharityHandler struct {
	service service.AdminCharityService
	logger  zerolog.Logger
}

// NewAdminCharityHandler constructs the handler.
func NewAdminCharityHandler(service service.AdminCharityService, logger zerolog.Logger) *AdminCharityHandler {
	return &AdminCharityHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_charity_handler").Logger(),
	}
}

// Register attaches charity moderation routes to the admin router group.
func (h *AdminCharityHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Post("/:id/approve", h.approve)
	router.Post("/:id/reject", h.reject)
	router.Post("/:id/suspend", h.suspend)
}

func (h *AdminCharityHandler) create(c *fiber.Ctx) error {
	var req dto.CharityCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	charity, err := h.service.Create(c.Context(), activityActorFromContext(c), req)
	if err != nil {
		return h.renderError(c, err, "failed to create charity")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "charity created", charity)
}

func (h *AdminCharityHandler) update(c *fiber.Ctx) error {
	var req dto.CharityUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	charity, err := h.service.Update(c.Context(), activityActorFromContext(c), c.Params("id"), req)
	if err != nil {
		return h.renderError(c, err, "failed to update charity")
	}
	return utils.SendSuccess(c, "charity updated", charity)
}

func (h *AdminCharityHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), activityActorFromContext(c), c.Params("id")); err != nil {
		return h.renderError(c, err, "failed to delete charity")
	}
	return utils.SendSuccess(c, "charity deleted", nil)
}

func (h *AdminCharityHandler) approve(c *fiber.Ctx) error {
	charity, err := h.service.Approve(c.Context(), activityActorFromContext(c), c.Params("id"))
	if err != nil {
		return h.renderError(c, err, "failed to approve charity")
	}
	return utils.SendSuccess(c, "charity approved", charity)
}

func (h *AdminCharityHandler) reject(c *fiber.Ctx) error {
	var req dto.ModerationRequest
	if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	charity, err := h.service.Reject(c.Context(), activityActorFromContext(c), c.Params("id"), req.Reason)
	if err != nil {
		return h.renderError(c, err, "failed to reject charity")
	}
	return utils.SendSuccess(c, "charity rejected", charity)
}

func (h *AdminCharityHandler) suspend(c *fiber.Ctx) error {
	var req dto.ModerationRequest
	if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	charity, err := h.service.Suspend(c.Context(), activityActorFromContext(c), c.Params("id"), req.Reason)
	if err != nil {
		return h.renderError(c, err, "failed to suspend charity")
	}
	return utils.SendSuccess(c, "charity suspended", charity)
}

func (h *AdminCharityHandler) renderError(c *fiber.Ctx, err error, message string) error {
	if isValidationError(err) {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.SendError(c, fiber.StatusNotFound, "charity not found")
	}
	h.logger.Error().Err(err).Msg(message)
	return utils.SendError(c, fiber.StatusInternalServerError, message)
}
