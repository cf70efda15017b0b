package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/repositories"
)

func TestEnsureMatchdayCreatesThenUpdates(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.matchdayService.EnsureMatchday(ctx, 5, 3, models.MatchdayLeague, nil)
	if err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if created.ID == 0 || created.SaveGameID != 5 || created.Number != 3 || created.Type != models.MatchdayLeague {
		t.Fatalf("created = %+v", created)
	}

	label := "Semi-final"
	updated, err := env.matchdayService.EnsureMatchday(ctx, 5, 3, models.MatchdayCup, &label)
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("identity changed: id %d, want %d", updated.ID, created.ID)
	}
	if updated.Type != models.MatchdayCup || updated.RoundLabel == nil || *updated.RoundLabel != label {
		t.Fatalf("updated = %+v", updated)
	}

	again, err := env.matchdayService.EnsureMatchday(ctx, 5, 3, models.MatchdayCup, nil)
	if err != nil {
		t.Fatalf("third ensure: %v", err)
	}
	if again.RoundLabel == nil || *again.RoundLabel != label {
		t.Fatalf("label should be kept when omitted, got %v", again.RoundLabel)
	}
	if n := env.countMatchdays(t, 5, 3); n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
}

func TestEnsureMatchdayConcurrentCallsCreateOneRow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*models.Matchday, callers)
	errs := make([]error, callers)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], errs[i] = env.matchdayService.EnsureMatchday(ctx, 5, 3, models.MatchdayLeague, nil)
		}(i)
	}
	close(start)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: %v", i, err)
		}
	}
	for i := 1; i < callers; i++ {
		if results[i].ID != results[0].ID || results[i].Type != results[0].Type || results[i].Number != results[0].Number {
			t.Fatalf("caller %d returned %+v, caller 0 returned %+v", i, results[i], results[0])
		}
	}
	if n := env.countMatchdays(t, 5, 3); n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
}

func TestEnsureMatchdayValidatesBeforeStoreAccess(t *testing.T) {
	t.Parallel()

	tx := &scriptedTx{}
	svc := NewMatchdayService(tx, nil, DefaultMaxAttempts, discardLogger())
	ctx := context.Background()

	if _, err := svc.EnsureMatchday(ctx, 1, 0, models.MatchdayLeague, nil); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("number 0: err = %v, want ErrValidationFailed", err)
	}
	if _, err := svc.EnsureMatchday(ctx, 1, 1, models.MatchdayType("FRIENDLY"), nil); !errors.Is(err, ErrInvalidMatchdayType) {
		t.Fatalf("bad type: err = %v, want ErrInvalidMatchdayType", err)
	}
	if tx.calls != 0 {
		t.Fatalf("store touched %d times", tx.calls)
	}
}

// scriptedTx fails the first len(failures) transactions with the given errors and then
// runs fn on a nil executor.
type scriptedTx struct {
	mu       sync.Mutex
	failures []error
	calls    int
}

func (s *scriptedTx) RunSerializable(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	s.mu.Lock()
	s.calls++
	var err error
	if len(s.failures) > 0 {
		err, s.failures = s.failures[0], s.failures[1:]
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return fn(nil)
}

type stubMatchdayRepo struct {
	repositories.MatchdayRepository
	created int
}

func (r *stubMatchdayRepo) GetBySaveGameAndNumber(context.Context, repositories.SQLExecutor, int, int) (*models.Matchday, error) {
	return nil, repositories.ErrMatchdayNotFound
}

func (r *stubMatchdayRepo) Create(_ context.Context, _ repositories.SQLExecutor, m *models.Matchday) error {
	r.created++
	m.ID = 42
	return nil
}

func TestEnsureMatchdayRetriesTransientConflicts(t *testing.T) {
	t.Parallel()

	tx := &scriptedTx{failures: []error{repositories.ErrMatchdayConflict, repositories.ErrMatchdayConflict}}
	repo := &stubMatchdayRepo{}
	svc := NewMatchdayService(tx, repo, DefaultMaxAttempts, discardLogger())

	md, err := svc.EnsureMatchday(context.Background(), 1, 1, models.MatchdayLeague, nil)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if md.ID != 42 {
		t.Fatalf("id = %d, want 42", md.ID)
	}
	if tx.calls != 3 {
		t.Fatalf("transactions = %d, want 3", tx.calls)
	}
	if repo.created != 1 {
		t.Fatalf("creates = %d, want 1", repo.created)
	}
}

func TestEnsureMatchdayGivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	failures := make([]error, 10)
	for i := range failures {
		failures[i] = repositories.ErrMatchdayConflict
	}
	tx := &scriptedTx{failures: failures}
	svc := NewMatchdayService(tx, &stubMatchdayRepo{}, 3, discardLogger())

	_, err := svc.EnsureMatchday(context.Background(), 1, 1, models.MatchdayLeague, nil)
	if !errors.Is(err, ErrConcurrencyConflict) {
		t.Fatalf("err = %v, want ErrConcurrencyConflict", err)
	}
	if tx.calls != 3 {
		t.Fatalf("transactions = %d, want 3", tx.calls)
	}
}

func TestEnsureMatchdayDoesNotRetryPermanentErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk on fire")
	tx := &scriptedTx{failures: []error{boom}}
	svc := NewMatchdayService(tx, &stubMatchdayRepo{}, DefaultMaxAttempts, discardLogger())

	_, err := svc.EnsureMatchday(context.Background(), 1, 1, models.MatchdayLeague, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if errors.Is(err, ErrConcurrencyConflict) {
		t.Fatal("permanent error reported as conflict")
	}
	if tx.calls != 1 {
		t.Fatalf("transactions = %d, want 1", tx.calls)
	}
}
