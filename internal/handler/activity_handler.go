package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/upliftco/uplift-api/internal/dto"
	"github.com/upliftco/uplift-api/internal/observability"
	"github.com/upliftco/uplift-api/internal/service"
	"github.com/upliftco/uplift-api/internal/utils"
)

// ActivityHandler exposes the audit trail: cursor-paginated feed, batch
// enrichment, dashboard stats and the live websocket tail.
type ActivityHandler struct {
	activities service.ActivityService
	enricher   service.EnrichmentService
	stats      service.AdminStatsService
	snapshots  service.FeedSnapshotService
	nats       *nats.Conn
	subject    string
	logger     zerolog.Logger
}

// NewActivityHandler constructs the handler. The NATS connection may be nil;
// the stream endpoint then reports unavailability.
func NewActivityHandler(activities service.ActivityService, enricher service.EnrichmentService, stats service.AdminStatsService, snapshots service.FeedSnapshotService, natsConn *nats.Conn, subject string, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activities: activities,
		enricher:   enricher,
		stats:      stats,
		snapshots:  snapshots,
		nats:       natsConn,
		subject:    subject,
		logger:     logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches the activity routes to the admin router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("/activities", h.list)
	router.Get("/activities/feed", h.feed)
	router.Post("/activity-enrichment", h.enrich)
	router.Get("/activities/stats", h.statsOverview)
	router.Get("/activities/export", h.export)

	router.Use("/activities/stream", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/activities/stream", websocket.New(h.stream))
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	req := dto.ActivityListRequest{
		Limit:      parseLimitQuery(c, "limit", service.DefaultFeedLimit),
		Cursor:     c.Query("cursor"),
		ActorID:    c.Query("actor_id"),
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	}

	response, err := h.activities.List(c.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Str("cursor", req.Cursor).Msg("failed to list activities")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list activities")
	}

	return utils.SendSuccess(c, "activities retrieved", response)
}

// feed serves the labeled first page of the dashboard feed, cached briefly so
// every admin landing on the dashboard does not trigger its own enrichment.
func (h *ActivityHandler) feed(c *fiber.Ctx) error {
	snap, err := h.snapshots.FirstPage(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to render activity feed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to render activity feed")
	}

	return utils.SendSuccess(c, "activity feed", snap)
}

func (h *ActivityHandler) enrich(c *fiber.Ctx) error {
	var req dto.EnrichmentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response := h.enricher.Resolve(c.Context(), req)
	return utils.SendSuccess(c, "entities resolved", response)
}

func (h *ActivityHandler) statsOverview(c *fiber.Ctx) error {
	since, err := parseTimeQuery(c, "since")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid since timestamp")
	}
	until, err := parseTimeQuery(c, "until")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid until timestamp")
	}

	response, err := h.stats.Overview(c.Context(), activityActorFromContext(c), since, until)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to aggregate activity stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to aggregate activity stats")
	}

	return utils.SendSuccess(c, "activity stats", response)
}

func (h *ActivityHandler) export(c *fiber.Ctx) error {
	since, err := parseTimeQuery(c, "since")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid since timestamp")
	}
	until, err := parseTimeQuery(c, "until")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid until timestamp")
	}

	response, err := h.stats.Export(c.Context(), activityActorFromContext(c), since, until)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to export activity stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to export activity stats")
	}

	return utils.SendSuccess(c, "activity export", response)
}

// stream tails recorded events over a websocket, bridging the NATS subject.
func (h *ActivityHandler) stream(conn *websocket.Conn) {
	defer conn.Close()

	if h.nats == nil || h.subject == "" {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "stream unavailable"))
		return
	}

	events := make(chan *nats.Msg, 64)
	sub, err := h.nats.ChanSubscribe(h.subject, events)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to subscribe to activity stream")
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "stream unavailable"))
		return
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil {
			h.logger.Warn().Err(err).Msg("failed to unsubscribe from activity stream")
		}
	}()

	observability.StreamClients().Inc()
	defer observability.StreamClients().Dec()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg := <-events:
			if err := conn.WriteMessage(websocket.TextMessage, msg.Data); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
