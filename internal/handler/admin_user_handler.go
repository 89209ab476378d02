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

// AdminUserHandler exposes platform account management endpoints.
type AdminUserHandler struct {
	service service.AdminUserService
	logger  zerolog.Logger
}

// NewAdminUserHandler constructs the handler.
func NewAdminUserHandler(service service.AdminUserService, logger zerolog.Logger) *AdminUserHandler {
	return &AdminUserHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_user_handler").Logger(),
	}
}

// Register attaches account management routes to the admin router group.
func (h *AdminUserHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Post("/:id/suspend", h.suspend)
	router.Post("/:id/activate", h.activate)
	router.Post("/:id/reset-password", h.resetPassword)
	router.Post("/:id/role", h.changeRole)
}

func (h *AdminUserHandler) create(c *fiber.Ctx) error {
	var req dto.UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.Create(c.Context(), activityActorFromContext(c), req)
	if err != nil {
		return h.renderError(c, err, "failed to create user")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user created", user)
}

func (h *AdminUserHandler) update(c *fiber.Ctx) error {
	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.Update(c.Context(), activityActorFromContext(c), c.Params("id"), req)
	if err != nil {
		return h.renderError(c, err, "failed to update user")
	}
	return utils.SendSuccess(c, "user updated", user)
}

func (h *AdminUserHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), activityActorFromContext(c), c.Params("id")); err != nil {
		return h.renderError(c, err, "failed to delete user")
	}
	return utils.SendSuccess(c, "user deleted", nil)
}

func (h *AdminUserHandler) suspend(c *fiber.Ctx) error {
	var req dto.ModerationRequest
	if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.Suspend(c.Context(), activityActorFromContext(c), c.Params("id"), req.Reason)
	if err != nil {
		return h.renderError(c, err, "failed to suspend user")
	}
	return utils.SendSuccess(c, "user suspended", user)
}

func (h *AdminUserHandler) activate(c *fiber.Ctx) error {
	user, err := h.service.Activate(c.Context(), activityActorFromContext(c), c.Params("id"))
	if err != nil {
		return h.renderError(c, err, "failed to activate user")
	}
	return utils.SendSuccess(c, "user activated", user)
}

func (h *AdminUserHandler) resetPassword(c *fiber.Ctx) error {
	if err := h.service.ResetPassword(c.Context(), activityActorFromContext(c), c.Params("id")); err != nil {
		return h.renderError(c, err, "failed to reset password")
	}
	return utils.SendSuccess(c, "password reset initiated", nil)
}

func (h *AdminUserHandler) changeRole(c *fiber.Ctx) error {
	var req dto.RoleChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.ChangeRole(c.Context(), activityActorFromContext(c), c.Params("id"), req)
	if err != nil {
		return h.renderError(c, err, "failed to change user role")
	}
	return utils.SendSuccess(c, "user role changed", user)
}

func (h *AdminUserHandler) renderError(c *fiber.Ctx, err error, message string) error {
	if isValidationError(err) {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	}
	h.logger.Error().Err(err).Msg(message)
	return utils.SendError(c, fiber.StatusInternalServerError, message)
}
