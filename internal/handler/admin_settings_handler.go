package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/upliftco/uplift-api/internal/dto"
	"github.com/upliftco/uplift-api/internal/service"
	"github.com/upliftco/uplift-api/internal/utils"
)

// AdminSettingsHandler exposes platform configuration endpoints.
type AdminSettingsHandler struct {
	service service.AdminSettingsService
	logger  zerolog.Logger
}

// NewAdminSettingsHandler constructs the handler.
func NewAdminSettingsHandler(service service.AdminSettingsService, logger zerolog.Logger) *AdminSettingsHandler {
	return &AdminSettingsHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_settings_handler").Logger(),
	}
}

// Register attaches settings routes to the admin router group.
func (h *AdminSettingsHandler) Register(router fiber.Router) {
	router.Get("", h.get)
	router.Put("", h.update)
}

func (h *AdminSettingsHandler) get(c *fiber.Ctx) error {
	settings, err := h.service.Get(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to read settings")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to read settings")
	}
	return utils.SendSuccess(c, "platform settings", settings)
}

func (h *AdminSettingsHandler) update(c *fiber.Ctx) error {
	var req dto.SettingsUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	settings, err := h.service.Update(c.Context(), activityActorFromContext(c), req)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("failed to update settings")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update settings")
	}
	return utils.SendSuccess(c, "platform settings updated", settings)
}
