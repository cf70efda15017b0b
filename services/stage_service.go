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

// StageService is the only writer of game_states rows.
type StageService interface {
	// AdvanceStage moves the save game to the next stage of the round cycle and returns it.
	// Entering MATCHDAY also ensures the current round's matchday row, in the same transaction.
	AdvanceStage(ctx context.Context, saveGameID int) (models.Stage, error)
	// SetStage overrides the stage, for flows that jump (e.g. after a forced resignation).
	SetStage(ctx context.Context, saveGameID int, stage models.Stage) error
	// AdvanceMatchday starts the next round: current matchday +1 and stage back to ACTION.
	// Callers invoke it once, from the STANDINGS boundary.
	AdvanceMatchday(ctx context.Context, saveGameID int, nextType *models.MatchdayType) (*models.GameState, error)
	GetState(ctx context.Context, saveGameID int) (*models.GameState, error)
	// CurrentSaveGameID resolves the save game that was touched last.
	CurrentSaveGameID(ctx context.Context) (int, error)
}

type stageService struct {
	tx          repositories.TxRunner
	gameStates  repositories.GameStateRepository
	matchdays   MatchdayService
	maxAttempts int
	logger      *slog.Logger
}

func NewStageService(
	tx repositories.TxRunner,
	gameStates repositories.GameStateRepository,
	matchdays MatchdayService,
	maxAttempts int,
	logger *slog.Logger,
) StageService {
	return &stageService{
		tx:          tx,
		gameStates:  gameStates,
		matchdays:   matchdays,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

func mapGameStateError(err error, saveGameID int) error {
	if errors.Is(err, repositories.ErrGameStateNotFound) {
		return fmt.Errorf("%w: save game %d", ErrGameStateNotFound, saveGameID)
	}
	return err
}

func (s *stageService) AdvanceStage(ctx context.Context, saveGameID int) (_ models.Stage, err error) {
	ctx, span := tracer.Start(ctx, "StageService.AdvanceStage", trace.WithAttributes(attribute.Int("save_game.id", saveGameID)))
	defer func() { endSpan(span, err) }()

	var previous models.Stage
	next, err := retryConflicts(ctx, s.logger, s.maxAttempts, "advance stage", func() (models.Stage, error) {
		var next models.Stage
		txErr := s.tx.RunSerializable(ctx, func(exec repositories.SQLExecutor) error {
			state, err := s.gameStates.GetBySaveGameID(ctx, exec, saveGameID)
			if err != nil {
				return err
			}
			previous = state.GameStage
			next = models.NextStage(state.GameStage)

			if next == models.StageMatchday {
				if state.CurrentMatchday < 1 {
					s.logger.Warn("entering matchday stage without a round number",
						slog.Int("save_game_id", saveGameID),
						slog.Int("current_matchday", state.CurrentMatchday))
				} else if _, err := s.matchdays.EnsureMatchdayTx(ctx, exec, saveGameID, state.CurrentMatchday, state.MatchdayType, nil); err != nil {
					return err
				}
			}
			return s.gameStates.UpdateStage(ctx, exec, saveGameID, next)
		})
		return next, txErr
	})
	if err != nil {
		return "", mapGameStateError(err, saveGameID)
	}

	s.logger.Info("stage advanced",
		slog.Int("save_game_id", saveGameID),
		slog.String("from", string(previous)),
		slog.String("to", string(next)))
	return next, nil
}

func (s *stageService) SetStage(ctx context.Context, saveGameID int, stage models.Stage) error {
	if !stage.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStage, stage)
	}
	if err := s.gameStates.UpdateStage(ctx, nil, saveGameID, stage); err != nil {
		return mapGameStateError(err, saveGameID)
	}
	s.logger.Info("stage set", slog.Int("save_game_id", saveGameID), slog.String("stage", string(stage)))
	return nil
}

func (s *stageService) AdvanceMatchday(ctx context.Context, saveGameID int, nextType *models.MatchdayType) (*models.GameState, error) {
	if nextType != nil && !nextType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMatchdayType, *nextType)
	}

	state, err := retryConflicts(ctx, s.logger, s.maxAttempts, "advance matchday", func() (*models.GameState, error) {
		var state *models.GameState
		txErr := s.tx.RunSerializable(ctx, func(exec repositories.SQLExecutor) error {
			if err := s.gameStates.AdvanceMatchday(ctx, exec, saveGameID, nextType); err != nil {
				return err
			}
			var err error
			state, err = s.gameStates.GetBySaveGameID(ctx, exec, saveGameID)
			return err
		})
		return state, txErr
	})
	if err != nil {
		return nil, mapGameStateError(err, saveGameID)
	}

	s.logger.Info("matchday advanced",
		slog.Int("save_game_id", saveGameID),
		slog.Int("current_matchday", state.CurrentMatchday),
		slog.String("matchday_type", string(state.MatchdayType)))
	return state, nil
}

func (s *stageService) GetState(ctx context.Context, saveGameID int) (*models.GameState, error) {
	state, err := s.gameStates.GetBySaveGameID(ctx, nil, saveGameID)
	if err != nil {
		return nil, mapGameStateError(err, saveGameID)
	}
	return state, nil
}

func (s *stageService) CurrentSaveGameID(ctx context.Context) (int, error) {
	state, err := s.gameStates.GetCurrent(ctx, nil)
	if err != nil {
		if errors.Is(err, repositories.ErrGameStateNotFound) {
			return 0, fmt.Errorf("%w: no active save game", ErrGameStateNotFound)
		}
		return 0, err
	}
	return state.CurrentSaveGameID, nil
}
