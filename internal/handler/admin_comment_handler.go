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

// AdminCommentHandler exposes comment moderation endpoints.
type AdminCommentHandler struct {
	service service.AdminCommentService
	logger  zerolog.Logger
}

// NewAdminCommentHandler constructs the handler.
func NewAdminCommentHandler(service service.AdminCommentService, logger zerolog.Logger) *AdminCommentHandler {
	return &AdminCommentHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_comment_handler").Logger(),
	}
}

// Register attaches comment moderation routes to the admin router group.
func (h *AdminCommentHandler) Register(router fiber.Router) {
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Post("/:id/flag", h.flag)
	router.Post("/:id/unflag", h.unflag)
}

func (h *AdminCommentHandler) update(c *fiber.Ctx) error {
	var req dto.CommentUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	comment, err := h.service.Update(c.Context(), activityActorFromContext(c), c.Params("id"), req)
	if err != nil {
		return h.renderError(c, err, "failed to update comment")
	}
	return utils.SendSuccess(c, "comment updated", comment)
}

func (h *AdminCommentHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), activityActorFromContext(c), c.Params("id")); err != nil {
		return h.renderError(c, err, "failed to delete comment")
	}
	return utils.SendSuccess(c, "comment deleted", nil)
}

func (h *AdminCommentHandler) flag(c *fiber.Ctx) error {
	var req dto.FlagRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if req.Reason == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "flag reason is required")
	}

	comment, err := h.service.Flag(c.Context(), activityActorFromContext(c), c.Params("id"), req.Reason)
	if err != nil {
		return h.renderError(c, err, "failed to flag comment")
	}
	return utils.SendSuccess(c, "comment flagged", comment)
}

func (h *AdminCommentHandler) unflag(c *fiber.Ctx) error {
	comment, err := h.service.Unflag(c.Context(), activityActorFromContext(c), c.Params("id"))
	if err != nil {
		return h.renderError(c, err, "failed to unflag comment")
	}
	return utils.SendSuccess(c, "comment unflagged", comment)
}

func (h *AdminCommentHandler) renderError(c *fiber.Ctx, err error, message string) error {
	if isValidationError(err) {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.SendError(c, fiber.StatusNotFound, "comment not found")
	}
	h.logger.Error().Err(err).Msg(message)
	return utils.SendError(c, fiber.StatusInternalServerError, message)
}
