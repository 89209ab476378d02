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

// AdminStoryHandler exposes impact story moderation endpoints.
type AdminStoryHandler struct {
	service service.AdminStoryService
	logger  zerolog.Logger
}

// NewAdminStoryHandler constructs the handler.
func NewAdminStoryHandler(service service.AdminStoryService, logger zerolog.Logger) *AdminStoryHandler {
	return &AdminStoryHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_story_handler").Logger(),
	}
}

// Register attaches story moderation routes to the admin router group.
func (h *AdminStoryHandler) Register(router fiber.Router) {
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Post("/:id/flag", h.flag)
	router.Post("/:id/unflag", h.unflag)
}

func (h *AdminStoryHandler) update(c *fiber.Ctx) error {
	var req dto.StoryUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	story, err := h.service.Update(c.Context(), activityActorFromContext(c), c.Params("id"), req)
	if err != nil {
		return h.renderError(c, err, "failed to update story")
	}
	return utils.SendSuccess(c, "story updated", story)
}

func (h *AdminStoryHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), activityActorFromContext(c), c.Params("id")); err != nil {
		return h.renderError(c, err, "failed to delete story")
	}
	return utils.SendSuccess(c, "story deleted", nil)
}

func (h *AdminStoryHandler) flag(c *fiber.Ctx) error {
	var req dto.FlagRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if req.Reason == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "flag reason is required")
	}

	story, err := h.service.Flag(c.Context(), activityActorFromContext(c), c.Params("id"), req.Reason)
	if err != nil {
		return h.renderError(c, err, "failed to flag story")
	}
	return utils.SendSuccess(c, "story flagged", story)
}

func (h *AdminStoryHandler) unflag(c *fiber.Ctx) error {
	story, err := h.service.Unflag(c.Context(), activityActorFromContext(c), c.Params("id"))
	if err != nil {
		return h.renderError(c, err, "failed to unflag story")
	}
	return utils.SendSuccess(c, "story unflagged", story)
}

func (h *AdminStoryHandler) renderError(c *fiber.Ctx, err error, message string) error {
	if isValidationError(err) {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.SendError(c, fiber.StatusNotFound, "story not found")
	}
	h.logger.Error().Err(err).Msg(message)
	return utils.SendError(c, fiber.StatusInternalServerError, message)
}
