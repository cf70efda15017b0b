package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/realtime"
	"github.com/Dosada05/matchday-engine/repositories"
)

// Publisher pushes a message to every session joined to room.
type Publisher interface {
	Publish(ctx context.Context, room string, msg realtime.Message) error
}

// MatchReport is one fixture of a matchday with its teams and ordered events.
type MatchReport struct {
	Match    *models.Match
	HomeTeam *models.Team
	AwayTeam *models.Team
	Events   []models.MatchEvent
}

type RecordEventInput struct {
	Minute      int    `json:"minute"`
	Type        string `json:"type"`
	Description string `json:"description"`
	PlayerID    *int   `json:"playerId,omitempty"`
}

// MatchEventPayload is the body of a match-event notification.
type MatchEventPayload struct {
	SaveGameID     int               `json:"saveGameId"`
	MatchdayNumber int               `json:"matchdayNumber"`
	DisplayMinute  string            `json:"displayMinute"`
	Event          models.MatchEvent `json:"event"`
}

type EventService interface {
	EventsForMatch(ctx context.Context, matchID int) ([]models.MatchEvent, error)
	// EventsForMatchdayNumber groups the events of every match of the matchday by match id.
	// A missing matchday yields an empty map.
	EventsForMatchdayNumber(ctx context.Context, saveGameID, number int) (map[int][]models.MatchEvent, error)
	MatchdayReport(ctx context.Context, saveGameID, number int) ([]MatchReport, error)
	RecordEvent(ctx context.Context, matchID int, input RecordEventInput) (*models.MatchEvent, error)
}

type eventService struct {
	matchdays   repositories.MatchdayRepository
	matches     repositories.MatchRepository
	events      repositories.MatchEventRepository
	teams       repositories.TeamRepository
	publisher   Publisher
	matchLength int
	logger      *slog.Logger
}

func NewEventService(
	matchdays repositories.MatchdayRepository,
	matches repositories.MatchRepository,
	events repositories.MatchEventRepository,
	teams repositories.TeamRepository,
	publisher Publisher,
	matchLength int,
	logger *slog.Logger,
) EventService {
	if matchLength <= 0 {
		matchLength = models.DefaultMatchLength
	}
	return &eventService{
		matchdays:   matchdays,
		matches:     matches,
		events:      events,
		teams:       teams,
		publisher:   publisher,
		matchLength: matchLength,
		logger:      logger,
	}
}

func sortEvents(events []models.MatchEvent) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].Less(events[j]) })
}

func (s *eventService) EventsForMatch(ctx context.Context, matchID int) ([]models.MatchEvent, error) {
	events, err := s.events.ListByMatch(ctx, nil, matchID)
	if err != nil {
		return nil, fmt.Errorf("list events for match %d: %w", matchID, err)
	}
	sortEvents(events)
	return events, nil
}

// matchesForNumber returns nil without error when the matchday does not exist.
func (s *eventService) matchesForNumber(ctx context.Context, saveGameID, number int) ([]*models.Match, error) {
	matchday, err := s.matchdays.GetBySaveGameAndNumber(ctx, nil, saveGameID, number)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchdayNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find matchday %d for save game %d: %w", number, saveGameID, err)
	}
	matches, err := s.matches.ListByMatchday(ctx, nil, matchday.ID)
	if err != nil {
		return nil, fmt.Errorf("list matches of matchday %d: %w", matchday.ID, err)
	}
	return matches, nil
}

func groupByMatch(matches []*models.Match, events []models.MatchEvent) map[int][]models.MatchEvent {
	grouped := make(map[int][]models.MatchEvent, len(matches))
	for _, m := range matches {
		grouped[m.ID] = []models.MatchEvent{}
	}
	for _, e := range events {
		grouped[e.MatchID] = append(grouped[e.MatchID], e)
	}
	for id := range grouped {
		sortEvents(grouped[id])
	}
	return grouped
}

func matchIDs(matches []*models.Match) []int {
	ids := make([]int, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	return ids
}

func (s *eventService) EventsForMatchdayNumber(ctx context.Context, saveGameID, number int) (map[int][]models.MatchEvent, error) {
	matches, err := s.matchesForNumber(ctx, saveGameID, number)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return map[int][]models.MatchEvent{}, nil
	}

	events, err := s.events.ListByMatches(ctx, nil, matchIDs(matches))
	if err != nil {
		return nil, fmt.Errorf("list events for matchday %d: %w", number, err)
	}
	return groupByMatch(matches, events), nil
}

func (s *eventService) MatchdayReport(ctx context.Context, saveGameID, number int) ([]MatchReport, error) {
	matches, err := s.matchesForNumber(ctx, saveGameID, number)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return []MatchReport{}, nil
	}

	teamIDSet := make(map[int]struct{}, len(matches)*2)
	for _, m := range matches {
		teamIDSet[m.HomeTeamID] = struct{}{}
		teamIDSet[m.AwayTeamID] = struct{}{}
	}
	teamIDs := make([]int, 0, len(teamIDSet))
	for id := range teamIDSet {
		teamIDs = append(teamIDs, id)
	}
	sort.Ints(teamIDs)

	var (
		teams  []*models.Team
		events []models.MatchEvent
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.teams.ListByIDs(gCtx, nil, teamIDs)
		if err != nil {
			return fmt.Errorf("list teams: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		events, err = s.events.ListByMatches(gCtx, nil, matchIDs(matches))
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load report for matchday %d: %w", number, err)
	}

	teamByID := make(map[int]*models.Team, len(teams))
	for _, t := range teams {
		teamByID[t.ID] = t
	}
	grouped := groupByMatch(matches, events)

	reports := make([]MatchReport, 0, len(matches))
	for _, m := range matches {
		reports = append(reports, MatchReport{
			Match:    m,
			HomeTeam: teamByID[m.HomeTeamID],
			AwayTeam: teamByID[m.AwayTeamID],
			Events:   grouped[m.ID],
		})
	}
	return reports, nil
}

func (s *eventService) RecordEvent(ctx context.Context, matchID int, input RecordEventInput) (_ *models.MatchEvent, err error) {
	input.Type = strings.TrimSpace(input.Type)
	if input.Minute < 0 {
		return nil, fmt.Errorf("%w: minute must not be negative", ErrValidationFailed)
	}
	if input.Type == "" {
		return nil, fmt.Errorf("%w: event type is required", ErrValidationFailed)
	}

	ctx, span := tracer.Start(ctx, "EventService.RecordEvent", trace.WithAttributes(attribute.Int("match.id", matchID)))
	defer func() { endSpan(span, err) }()

	match, err := s.matches.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrMatchNotFound, matchID)
		}
		return nil, err
	}
	matchday, err := s.matchdays.GetByID(ctx, nil, match.MatchdayID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchdayNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrMatchdayNotFound, match.MatchdayID)
		}
		return nil, err
	}

	event := &models.MatchEvent{
		MatchID:     matchID,
		Minute:      input.Minute,
		EventType:   input.Type,
		Description: input.Description,
		PlayerID:    input.PlayerID,
	}
	if err := s.events.Create(ctx, nil, event); err != nil {
		return nil, fmt.Errorf("record event for match %d: %w", matchID, err)
	}

	room := realtime.SaveGameRoom(matchday.SaveGameID)
	msg := realtime.Message{
		Type: realtime.TypeMatchEvent,
		Payload: MatchEventPayload{
			SaveGameID:     matchday.SaveGameID,
			MatchdayNumber: matchday.Number,
			DisplayMinute:  models.FormatMinute(event.Minute, s.matchLength),
			Event:          *event,
		},
	}
	if pubErr := s.publisher.Publish(ctx, room, msg); pubErr != nil {
		s.logger.Warn("failed to publish match event",
			slog.String("room", room),
			slog.Int("event_id", event.ID),
			slog.Any("error", pubErr))
	}
	return event, nil
}
