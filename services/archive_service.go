package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/gosimple/slug"

	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/repositories"
	"github.com/Dosada05/matchday-engine/storage"
)

const (
	DefaultArchiveInterval = 5 * time.Minute
	archiveBatchSize       = 50
)

// ArchiveService exports the event log of matchdays a save game has moved past.
type ArchiveService interface {
	// Sweep archives every pending matchday once and returns how many were exported.
	Sweep(ctx context.Context) (int, error)
	// Start schedules Sweep every interval until Shutdown.
	Start(ctx context.Context, interval time.Duration) error
	Shutdown() error
}

type matchdayArchiveDocument struct {
	SaveGameID int                         `json:"saveGameId"`
	Number     int                         `json:"number"`
	Type       models.MatchdayType         `json:"type"`
	RoundLabel *string                     `json:"roundLabel,omitempty"`
	ArchivedAt time.Time                   `json:"archivedAt"`
	Events     map[int][]models.MatchEvent `json:"events"`
}

type archiveService struct {
	archives  repositories.ArchiveRepository
	events    EventService
	store     storage.ObjectStore
	logger    *slog.Logger
	scheduler gocron.Scheduler
}

func NewArchiveService(archives repositories.ArchiveRepository, events EventService, store storage.ObjectStore, logger *slog.Logger) ArchiveService {
	return &archiveService{
		archives: archives,
		events:   events,
		store:    store,
		logger:   logger,
	}
}

// ArchiveKey is the object key of a matchday's exported log.
func ArchiveKey(m *models.Matchday) string {
	return "saves/" + strconv.Itoa(m.SaveGameID) + "/matchdays/" + strconv.Itoa(m.Number) + "-" + slug.Make(m.Label()) + ".json"
}

func (s *archiveService) Sweep(ctx context.Context) (int, error) {
	pending, err := s.archives.ListPending(ctx, nil, archiveBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list pending archives: %w", err)
	}

	var (
		archived int
		errs     []error
	)
	for _, m := range pending {
		if err := s.archiveOne(ctx, m); err != nil {
			if errors.Is(err, repositories.ErrArchiveConflict) {
				continue
			}
			s.logger.Error("failed to archive matchday",
				slog.Int("save_game_id", m.SaveGameID),
				slog.Int("number", m.Number),
				slog.Any("error", err))
			errs = append(errs, err)
			continue
		}
		archived++
	}
	return archived, errors.Join(errs...)
}

func (s *archiveService) archiveOne(ctx context.Context, m *models.Matchday) error {
	events, err := s.events.EventsForMatchdayNumber(ctx, m.SaveGameID, m.Number)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	doc := matchdayArchiveDocument{
		SaveGameID: m.SaveGameID,
		Number:     m.Number,
		Type:       m.Type,
		RoundLabel: m.RoundLabel,
		ArchivedAt: now,
		Events:     events,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode archive of matchday %d: %w", m.ID, err)
	}

	key := ArchiveKey(m)
	result, err := s.store.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	if err := s.archives.Create(ctx, nil, &models.MatchdayArchive{MatchdayID: m.ID, ObjectKey: result.Key, ArchivedAt: now}); err != nil {
		return err
	}

	s.logger.Info("matchday archived",
		slog.Int("save_game_id", m.SaveGameID),
		slog.Int("number", m.Number),
		slog.String("key", result.Key),
		slog.String("location", result.Location))
	return nil
}

func (s *archiveService) Start(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultArchiveInterval
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create archive scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			n, err := s.Sweep(ctx)
			if err != nil {
				s.logger.Error("archive sweep finished with errors", slog.Int("archived", n), slog.Any("error", err))
				return
			}
			if n > 0 {
				s.logger.Info("archive sweep finished", slog.Int("archived", n))
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule archive sweep: %w", err)
	}
	sched.Start()
	s.scheduler = sched
	s.logger.Info("archive scheduler started", slog.Duration("interval", interval))
	return nil
}

func (s *archiveService) Shutdown() error {
	if s.scheduler == nil {
		return nil
	}
	return s.scheduler.Shutdown()
}
