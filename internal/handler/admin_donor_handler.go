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

// AdminDonorHandler exposes corporate donor management endpoints.
type AdminDonorHandler struct {
	service service.AdminDonorService
	logger  zerolog.Logger
}

// NewAdminDonorHandler constructs the handler.
func NewAdminDonorHandler(service service.AdminDonorService, logger zerolog.Logger) *AdminDonorHandler {
	return &AdminDonorHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_donor_handler").Logger(),
	}
}

// Register attaches donor management routes to the admin router group.
func (h *AdminDonorHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Post("/:id/suspend", h.suspend)
	router.Post("/:id/activate", h.activate)
}

func (h *AdminDonorHandler) create(c *fiber.Ctx) error {
	var req dto.DonorCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	donor, err := h.service.Create(c.Context(), activityActorFromContext(c), req)
	if err != nil {
		return h.renderError(c, err, "failed to create donor")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "donor created", donor)
}

func (h *AdminDonorHandler) update(c *fiber.Ctx) error {
	var req dto.DonorUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	donor, err := h.service.Update(c.Context(), activityActorFromContext(c), c.Params("id"), req)
	if err != nil {
		return h.renderError(c, err, "failed to update donor")
	}
	return utils.SendSuccess(c, "donor updated", donor)
}

func (h *AdminDonorHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), activityActorFromContext(c), c.Params("id")); err != nil {
		return h.renderError(c, err, "failed to delete donor")
	}
	return utils.SendSuccess(c, "donor deleted", nil)
}

func (h *AdminDonorHandler) suspend(c *fiber.Ctx) error {
	var req dto.ModerationRequest
	if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	donor, err := h.service.Suspend(c.Context(), activityActorFromContext(c), c.Params("id"), req.Reason)
	if err != nil {
		return h.renderError(c, err, "failed to suspend donor")
	}
	return utils.SendSuccess(c, "donor suspended", donor)
}

func (h *AdminDonorHandler) activate(c *fiber.Ctx) error {
	donor, err := h.service.Activate(c.Context(), activityActorFromContext(c), c.Params("id"))
	if err != nil {
		return h.renderError(c, err, "failed to activate donor")
	}
	return utils.SendSuccess(c, "donor activated", donor)
}

func (h *AdminDonorHandler) renderError(c *fiber.Ctx, err error, message string) error {
	if isValidationError(err) {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.SendError(c, fiber.StatusNotFound, "donor not found")
	}
	h.logger.Error().Err(err).Msg(message)
	return utils.SendError(c, fiber.StatusInternalServerError, message)
}
