package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/storage"
)

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failKey string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (s *memoryStore) Upload(_ context.Context, key string, _ string, reader io.Reader) (*storage.UploadResult, error) {
	if key == s.failKey {
		return nil, errors.New("bucket unavailable")
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = body
	return &storage.UploadResult{Key: key, Location: s.GetPublicURL(key)}, nil
}

func (s *memoryStore) GetPublicURL(key string) string {
	return "mem://" + key
}

func TestArchiveKey(t *testing.T) {
	label := "Quarter Final"
	tests := []struct {
		m    models.Matchday
		want string
	}{
		{models.Matchday{SaveGameID: 7, Number: 3, Type: models.MatchdayLeague}, "saves/7/matchdays/3-league.json"},
		{models.Matchday{SaveGameID: 7, Number: 12, Type: models.MatchdayCup, RoundLabel: &label}, "saves/7/matchdays/12-quarter-final.json"},
	}
	for _, tt := range tests {
		if got := ArchiveKey(&tt.m); got != tt.want {
			t.Fatalf("ArchiveKey = %q, want %q", got, tt.want)
		}
	}
}

func TestArchiveSweepExportsFinishedMatchdays(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	seedEvents(t, env, 7, 1)
	if _, err := env.matchdayService.EnsureMatchday(ctx, 7, 2, models.MatchdayLeague, nil); err != nil {
		t.Fatalf("ensure matchday 2: %v", err)
	}
	env.createState(t, 7, models.StageAction, 2)

	store := newMemoryStore()
	svc := NewArchiveService(env.archives, env.eventService, store, discardLogger())

	n, err := svc.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("archived = %d, want 1", n)
	}

	body, ok := store.objects["saves/7/matchdays/1-league.json"]
	if !ok {
		t.Fatalf("missing object, have %v", store.objects)
	}
	var doc struct {
		SaveGameID int                            `json:"saveGameId"`
		Number     int                            `json:"number"`
		Events     map[string][]models.MatchEvent `json:"events"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatalf("decode archive: %v", err)
	}
	if doc.SaveGameID != 7 || doc.Number != 1 || len(doc.Events) != 2 {
		t.Fatalf("archive = %+v", doc)
	}
	n, err = svc.Sweep(ctx)
	if err != nil || n != 0 {
		t.Fatalf("second sweep: got (%d, %v), want (0, nil)", n, err)
	}
}

func TestArchiveSweepReportsUploadFailures(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	seedEvents(t, env, 7, 1)
	env.createState(t, 7, models.StageAction, 2)

	store := newMemoryStore()
	store.failKey = "saves/7/matchdays/1-league.json"
	svc := NewArchiveService(env.archives, env.eventService, store, discardLogger())

	n, err := svc.Sweep(ctx)
	if err == nil || n != 0 {
		t.Fatalf("got (%d, %v), want an error and nothing archived", n, err)
	}

	store.failKey = ""
	n, err = svc.Sweep(ctx)
	if err != nil || n != 1 {
		t.Fatalf("retry sweep: got (%d, %v), want (1, nil)", n, err)
	}
}

func TestArchiveStartAndShutdown(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := NewArchiveService(env.archives, env.eventService, newMemoryStore(), discardLogger())
	if err := svc.Start(context.Background(), DefaultArchiveInterval); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := svc.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
