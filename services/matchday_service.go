package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/repositories"
)

// MatchdayService owns creation and updates of matchday rows.
type MatchdayService interface {
	// EnsureMatchday creates the (saveGameID, number) matchday if it is missing, otherwise updates
	// its type and, when roundLabel is non-nil, its label. It runs in its own serializable
	// transaction and retries store conflicts.
	EnsureMatchday(ctx context.Context, saveGameID, number int, matchdayType models.MatchdayType, roundLabel *string) (*models.Matchday, error)
	// EnsureMatchdayTx does the same on a transaction owned by the caller. Conflicts are returned
	// as-is so the caller can retry its whole transaction.
	EnsureMatchdayTx(ctx context.Context, exec repositories.SQLExecutor, saveGameID, number int, matchdayType models.MatchdayType, roundLabel *string) (*models.Matchday, error)
}

type matchdayService struct {
	tx          repositories.TxRunner
	matchdays   repositories.MatchdayRepository
	maxAttempts int
	logger      *slog.Logger
}

func NewMatchdayService(tx repositories.TxRunner, matchdays repositories.MatchdayRepository, maxAttempts int, logger *slog.Logger) MatchdayService {
	return &matchdayService{
		tx:          tx,
		matchdays:   matchdays,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

func validateMatchday(number int, matchdayType models.MatchdayType) error {
	if number < 1 {
		return fmt.Errorf("%w: matchday number must be positive, got %d", ErrValidationFailed, number)
	}
	if !matchdayType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMatchdayType, matchdayType)
	}
	return nil
}

func (s *matchdayService) EnsureMatchday(ctx context.Context, saveGameID, number int, matchdayType models.MatchdayType, roundLabel *string) (_ *models.Matchday, err error) {
	if err := validateMatchday(number, matchdayType); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "MatchdayService.EnsureMatchday", trace.WithAttributes(
		attribute.Int("save_game.id", saveGameID),
		attribute.Int("matchday.number", number),
	))
	defer func() { endSpan(span, err) }()

	matchday, err := retryConflicts(ctx, s.logger, s.maxAttempts, "ensure matchday", func() (*models.Matchday, error) {
		var md *models.Matchday
		txErr := s.tx.RunSerializable(ctx, func(exec repositories.SQLExecutor) error {
			var innerErr error
			md, innerErr = s.EnsureMatchdayTx(ctx, exec, saveGameID, number, matchdayType, roundLabel)
			return innerErr
		})
		return md, txErr
	})
	if err != nil {
		return nil, fmt.Errorf("ensure matchday %d for save game %d: %w", number, saveGameID, err)
	}
	return matchday, nil
}

func (s *matchdayService) EnsureMatchdayTx(ctx context.Context, exec repositories.SQLExecutor, saveGameID, number int, matchdayType models.MatchdayType, roundLabel *string) (*models.Matchday, error) {
	if err := validateMatchday(number, matchdayType); err != nil {
		return nil, err
	}

	existing, err := s.matchdays.GetBySaveGameAndNumber(ctx, exec, saveGameID, number)
	switch {
	case err == nil:
		if err := s.matchdays.UpdateTypeAndLabel(ctx, exec, existing.ID, matchdayType, roundLabel); err != nil {
			return nil, err
		}
		existing.Type = matchdayType
		if roundLabel != nil {
			existing.RoundLabel = roundLabel
		}
		return existing, nil

	case errors.Is(err, repositories.ErrMatchdayNotFound):
		created := &models.Matchday{
			SaveGameID: saveGameID,
			Number:     number,
			Type:       matchdayType,
			RoundLabel: roundLabel,
		}
		if err := s.matchdays.Create(ctx, exec, created); err != nil {
			return nil, err
		}
		s.logger.Info("matchday created",
			slog.Int("save_game_id", saveGameID),
			slog.Int("number", number),
			slog.String("type", string(matchdayType)))
		return created, nil

	default:
		return nil, err
	}
}
