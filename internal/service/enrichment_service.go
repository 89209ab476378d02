package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/upliftco/uplift-api/internal/dto"
	"github.com/upliftco/uplift-api/internal/models"
	"github.com/upliftco/uplift-api/internal/observability"
)

// UnknownAdminLabel is shown for actors the user registry can no longer resolve.
const UnknownAdminLabel = "Unknown Admin"

// LabelKey addresses one display name in an enrichment result.
type LabelKey struct {
	Kind models.EntityType
	ID   string
}

// ActivityLabels is the snapshot of display names for one batch of events.
// It is rebuilt per page; referenced objects can be renamed between pages.
type ActivityLabels struct {
	Entities map[LabelKey]string
	Actors   map[string]string
}

// EntityLabel returns the display name for the event's entity, or "" when the
// event references no entity.
func (l ActivityLabels) EntityLabel(event models.ActivityEvent) string {
	if event.EntityID == nil {
		return ""
	}
	return l.Entities[LabelKey{Kind: event.EntityType, ID: *event.EntityID}]
}

// ActorLabel returns the display name for an actor id.
func (l ActivityLabels) ActorLabel(actorID string) string {
	if label, ok := l.Actors[actorID]; ok {
		return label
	}
	return UnknownAdminLabel
}

// UserRegistry is the batch name lookup the enricher needs from the user store.
type UserRegistry interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

// CharityRegistry is the batch name lookup against the charity store.
type CharityRegistry interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Charity, error)
}

// DonorRegistry is the batch name lookup against the donor store.
type DonorRegistry interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Donor, error)
}

// StoryRegistry is the batch title lookup against the story store.
type StoryRegistry interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Story, error)
}

// EnrichmentService resolves the opaque ids referenced by activity events into
// human-readable names. Resolution is best effort: a dangling or failed id
// degrades to a deterministic fallback label, never to an error.
type EnrichmentService interface {
	Enrich(ctx context.Context, events []models.ActivityEvent) ActivityLabels
	Resolve(ctx context.Context, req dto.EnrichmentRequest) dto.EnrichmentResponse
}

type enrichmentService struct {
	users     UserRegistry
	charities CharityRegistry
	donors    DonorRegistry
	stories   StoryRegistry
	logger    zerolog.Logger
}

// NewEnrichmentService constructs the enricher over the four registries.
func NewEnrichmentService(users UserRegistry, charities CharityRegistry, donors DonorRegistry, stories StoryRegistry, logger zerolog.Logger) EnrichmentService {
	return &enrichmentService{
		users:     users,
		charities: charities,
		donors:    donors,
		stories:   stories,
		logger:    logger.With().Str("component", "enrichment_service").Logger(),
	}
}

// Enrich issues at most one batch lookup per registry touched by the events,
// regardless of how many events reference it.
func (s *enrichmentService) Enrich(ctx context.Context, events []models.ActivityEvent) ActivityLabels {
	tracer := otel.Tracer("github.com/upliftco/uplift-api/internal/service/enrichment")
	ctx, span := tracer.Start(ctx, "enrichment.batch")
	defer span.End()

	actorIDs := map[string]struct{}{}
	entityIDs := map[models.EntityType]map[string]struct{}{}
	for _, event := range events {
		if event.ActorID != "" {
			actorIDs[event.ActorID] = struct{}{}
		}
		if event.EntityID == nil {
			continue
		}
		if entityIDs[event.EntityType] == nil {
			entityIDs[event.EntityType] = map[string]struct{}{}
		}
		entityIDs[event.EntityType][*event.EntityID] = struct{}{}
	}

	// Actor ids and USER entity ids share the user registry; one lookup serves both.
	userIDs := map[string]struct{}{}
	for id := range actorIDs {
		userIDs[id] = struct{}{}
	}
	for id := range entityIDs[models.EntityUser] {
		userIDs[id] = struct{}{}
	}

	span.SetAttributes(
		attribute.Int("enrichment.events", len(events)),
		attribute.Int("enrichment.distinct_users", len(userIDs)),
	)

	userNames := s.lookupUsers(ctx, keys(userIDs))
	charityNames := s.lookupCharities(ctx, keys(entityIDs[models.EntityCharity]))
	donorNames := s.lookupDonors(ctx, keys(entityIDs[models.EntityDonor]))
	storyTitles := s.lookupStories(ctx, keys(entityIDs[models.EntityStory]))

	labels := ActivityLabels{
		Entities: map[LabelKey]string{},
		Actors:   map[string]string{},
	}

	for id := range actorIDs {
		if name, ok := userNames[id]; ok {
			labels.Actors[id] = name
			continue
		}
		labels.Actors[id] = UnknownAdminLabel
		observability.EnrichmentFallbacks().WithLabelValues("actor").Inc()
	}

	for kind, ids := range entityIDs {
		var resolved map[string]string
		switch kind {
		case models.EntityCharity:
			resolved = charityNames
		case models.EntityDonor:
			resolved = donorNames
		case models.EntityStory:
			resolved = storyTitles
		case models.EntityUser:
			resolved = userNames
		}
		for id := range ids {
			key := LabelKey{Kind: kind, ID: id}
			if name, ok := resolved[id]; ok {
				labels.Entities[key] = name
				continue
			}
			labels.Entities[key] = FallbackLabel(kind, id)
			observability.EnrichmentFallbacks().WithLabelValues(string(kind)).Inc()
		}
	}

	return labels
}

// Resolve serves explicit enrichment requests from feed clients. A failed
// registry lookup yields an empty list for that registry, not an error.
func (s *enrichmentService) Resolve(ctx context.Context, req dto.EnrichmentRequest) dto.EnrichmentResponse {
	response := dto.EnrichmentResponse{
		Users:     []dto.NamedRef{},
		Charities: []dto.NamedRef{},
		Donors:    []dto.NamedRef{},
		Stories:   []dto.TitledRef{},
	}

	for id, name := range s.lookupUsers(ctx, dedupe(req.UserIDs)) {
		response.Users = append(response.Users, dto.NamedRef{ID: id, Name: name})
	}
	for id, name := range s.lookupCharities(ctx, dedupe(req.CharityIDs)) {
		response.Charities = append(response.Charities, dto.NamedRef{ID: id, Name: name})
	}
	for id, name := range s.lookupDonors(ctx, dedupe(req.DonorIDs)) {
		response.Donors = append(response.Donors, dto.NamedRef{ID: id, Name: name})
	}
	for id, title := range s.lookupStories(ctx, dedupe(req.StoryIDs)) {
		response.Stories = append(response.Stories, dto.TitledRef{ID: id, Title: title})
	}

	return response
}

func (s *enrichmentService) lookupUsers(ctx context.Context, ids []string) map[string]string {
	if len(ids) == 0 {
		return nil
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Int("ids", len(ids)).Msg("user registry lookup failed")
		return nil
	}
	names := make(map[string]string, len(users))
	for _, user := range users {
		names[user.ID] = user.Name
	}
	return names
}

func (s *enrichmentService) lookupCharities(ctx context.Context, ids []string) map[string]string {
	if len(ids) == 0 {
		return nil
	}
	charities, err := s.charities.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Int("ids", len(ids)).Msg("charity registry lookup failed")
		return nil
	}
	names := make(map[string]string, len(charities))
	for _, charity := range charities {
		names[charity.ID] = charity.Name
	}
	return names
}

func (s *enrichmentService) lookupDonors(ctx context.Context, ids []string) map[string]string {
	if len(ids) == 0 {
		return nil
	}
	donors, err := s.donors.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Int("ids", len(ids)).Msg("donor registry lookup failed")
		return nil
	}
	names := make(map[string]string, len(donors))
	for _, donor := range donors {
		names[donor.ID] = donor.Name
	}
	return names
}

func (s *enrichmentService) lookupStories(ctx context.Context, ids []string) map[string]string {
	if len(ids) == 0 {
		return nil
	}
	stories, err := s.stories.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Int("ids", len(ids)).Msg("story registry lookup failed")
		return nil
	}
	titles := make(map[string]string, len(stories))
	for _, story := range stories {
		titles[story.ID] = story.Title
	}
	return titles
}

// FallbackLabel is the deterministic stand-in for an id no registry could
// resolve: the entity type and the first 8 characters of the id.
func FallbackLabel(kind models.EntityType, id string) string {
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("%s · ID: %s", kind, short)
}

func keys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
