package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/repositories"
)

func TestAdvanceStageWalksTheCycle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.createState(t, 7, models.StageAction, 2)

	want := []models.Stage{models.StageMatchday, models.StageHalftime, models.StageResults, models.StageStandings, models.StageAction}
	for i, w := range want {
		got, err := env.stageService.AdvanceStage(ctx, 7)
		if err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("advance %d: stage = %q, want %q", i, got, w)
		}
		state, err := env.stageService.GetState(ctx, 7)
		if err != nil {
			t.Fatalf("get state: %v", err)
		}
		if state.GameStage != w {
			t.Fatalf("persisted stage = %q, want %q", state.GameStage, w)
		}
	}
}

func TestAdvanceStageIntoMatchdayEnsuresMatchday(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.createState(t, 7, models.StageAction, 4)

	if _, err := env.stageService.AdvanceStage(ctx, 7); err != nil {
		t.Fatalf("advance: %v", err)
	}
	md, err := env.matchdays.GetBySaveGameAndNumber(ctx, nil, 7, 4)
	if err != nil {
		t.Fatalf("matchday 4 not ensured: %v", err)
	}
	if md.Type != models.MatchdayLeague {
		t.Fatalf("type = %q, want LEAGUE", md.Type)
	}
}

// failAfterEnsure writes the matchday through the real service, then fails, so the caller's
// transaction has a pending matchday row and a pending stage change to roll back.
type failAfterEnsure struct {
	MatchdayService
	err error
}

func (f failAfterEnsure) EnsureMatchdayTx(ctx context.Context, exec repositories.SQLExecutor, saveGameID, number int, matchdayType models.MatchdayType, roundLabel *string) (*models.Matchday, error) {
	if _, err := f.MatchdayService.EnsureMatchdayTx(ctx, exec, saveGameID, number, matchdayType, roundLabel); err != nil {
		return nil, err
	}
	return nil, f.err
}

func TestAdvanceStageFailureKeepsPriorStage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.createState(t, 7, models.StageAction, 4)

	ensureErr := errors.New("matchday store unavailable")
	svc := NewStageService(env.tx, env.gameStates, failAfterEnsure{MatchdayService: env.matchdayService, err: ensureErr}, DefaultMaxAttempts, discardLogger())

	if _, err := svc.AdvanceStage(ctx, 7); !errors.Is(err, ensureErr) {
		t.Fatalf("err = %v, want %v", err, ensureErr)
	}

	state, err := env.stageService.GetState(ctx, 7)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if state.GameStage != models.StageAction {
		t.Fatalf("stage = %q after failed advance, want ACTION", state.GameStage)
	}
	if n := env.countMatchdays(t, 7, 4); n != 0 {
		t.Fatalf("matchday rows = %d after failed advance, want 0", n)
	}
}

func TestAdvanceStageRecoversFromUnknownStage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.createState(t, 7, models.StageAction, 1)
	if _, err := env.conn.Exec(`UPDATE game_states SET game_stage = 'CORRUPT' WHERE current_save_game_id = 7`); err != nil {
		t.Fatalf("corrupt stage: %v", err)
	}

	got, err := env.stageService.AdvanceStage(ctx, 7)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if got != models.StageAction {
		t.Fatalf("stage = %q, want ACTION", got)
	}
}

func TestAdvanceStageMissingState(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	if _, err := env.stageService.AdvanceStage(context.Background(), 99); !errors.Is(err, ErrGameStateNotFound) {
		t.Fatalf("err = %v, want ErrGameStateNotFound", err)
	}
}

func TestConcurrentAdvancesAreSerialized(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.createState(t, 7, models.StageAction, 1)

	const callers = 4
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.stageService.AdvanceStage(ctx, 7)
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: %v", i, err)
		}
	}

	state, err := env.stageService.GetState(ctx, 7)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if state.GameStage != models.StageStandings {
		t.Fatalf("stage after %d advances = %q, want STANDINGS", callers, state.GameStage)
	}
	if n := env.countMatchdays(t, 7, 1); n != 1 {
		t.Fatalf("matchday rows = %d, want 1", n)
	}
}

func TestSetStage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.createState(t, 7, models.StageAction, 1)

	if err := env.stageService.SetStage(ctx, 7, models.StageResults); err != nil {
		t.Fatalf("set stage: %v", err)
	}
	state, _ := env.stageService.GetState(ctx, 7)
	if state.GameStage != models.StageResults {
		t.Fatalf("stage = %q, want RESULTS", state.GameStage)
	}

	if err := env.stageService.SetStage(ctx, 7, models.Stage("OVERTIME")); !errors.Is(err, ErrInvalidStage) {
		t.Fatalf("unknown stage: err = %v, want ErrInvalidStage", err)
	}
	if err := env.stageService.SetStage(ctx, 99, models.StageAction); !errors.Is(err, ErrGameStateNotFound) {
		t.Fatalf("missing save: err = %v, want ErrGameStateNotFound", err)
	}
}

func TestAdvanceMatchday(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.createState(t, 7, models.StageStandings, 3)

	state, err := env.stageService.AdvanceMatchday(ctx, 7, nil)
	if err != nil {
		t.Fatalf("advance matchday: %v", err)
	}
	if state.CurrentMatchday != 4 || state.GameStage != models.StageAction || state.MatchdayType != models.MatchdayLeague {
		t.Fatalf("state = %+v", state)
	}

	cup := models.MatchdayCup
	state, err = env.stageService.AdvanceMatchday(ctx, 7, &cup)
	if err != nil {
		t.Fatalf("advance into cup: %v", err)
	}
	if state.CurrentMatchday != 5 || state.MatchdayType != models.MatchdayCup {
		t.Fatalf("state = %+v", state)
	}

	bad := models.MatchdayType("FRIENDLY")
	if _, err := env.stageService.AdvanceMatchday(ctx, 7, &bad); !errors.Is(err, ErrInvalidMatchdayType) {
		t.Fatalf("bad type: err = %v, want ErrInvalidMatchdayType", err)
	}
	if _, err := env.stageService.AdvanceMatchday(ctx, 99, nil); !errors.Is(err, ErrGameStateNotFound) {
		t.Fatalf("missing save: err = %v, want ErrGameStateNotFound", err)
	}
}

func TestCurrentSaveGameID(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	if _, err := env.stageService.CurrentSaveGameID(ctx); !errors.Is(err, ErrGameStateNotFound) {
		t.Fatalf("empty: err = %v, want ErrGameStateNotFound", err)
	}

	env.createState(t, 3, models.StageAction, 1)
	id, err := env.stageService.CurrentSaveGameID(ctx)
	if err != nil || id != 3 {
		t.Fatalf("got (%d, %v), want (3, nil)", id, err)
	}
}
