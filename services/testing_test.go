package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/matchday-engine/db"
	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/realtime"
	"github.com/Dosada05/matchday-engine/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type publishedMessage struct {
	room string
	msg  realtime.Message
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []publishedMessage
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, room string, msg realtime.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, publishedMessage{room: room, msg: msg})
	return nil
}

func (p *recordingPublisher) messages() []publishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedMessage(nil), p.sent...)
}

type testEnv struct {
	conn       *sql.DB
	tx         repositories.TxRunner
	gameStates repositories.GameStateRepository
	matchdays  repositories.MatchdayRepository
	matches    repositories.MatchRepository
	events     repositories.MatchEventRepository
	teams      repositories.TeamRepository
	archives   repositories.ArchiveRepository
	publisher  *recordingPublisher

	matchdayService MatchdayService
	stageService    StageService
	eventService    EventService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn, err := db.Connect(db.SQLite, filepath.Join(t.TempDir(), "matchday.db"), 5*time.Second)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.Migrate(context.Background(), conn, db.SQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	env := &testEnv{
		conn:       conn,
		tx:         repositories.NewTxRunner(conn, db.SQLite),
		gameStates: repositories.NewGameStateRepository(conn, db.SQLite),
		matchdays:  repositories.NewMatchdayRepository(conn, db.SQLite),
		matches:    repositories.NewMatchRepository(conn, db.SQLite),
		events:     repositories.NewMatchEventRepository(conn, db.SQLite),
		teams:      repositories.NewTeamRepository(conn, db.SQLite),
		archives:   repositories.NewArchiveRepository(conn, db.SQLite),
		publisher:  &recordingPublisher{},
	}
	logger := discardLogger()
	env.matchdayService = NewMatchdayService(env.tx, env.matchdays, DefaultMaxAttempts, logger)
	env.stageService = NewStageService(env.tx, env.gameStates, env.matchdayService, DefaultMaxAttempts, logger)
	env.eventService = NewEventService(env.matchdays, env.matches, env.events, env.teams, env.publisher, models.DefaultMatchLength, logger)
	return env
}

func (e *testEnv) createState(t *testing.T, saveGameID int, stage models.Stage, matchday int) {
	t.Helper()
	state := &models.GameState{
		CurrentSaveGameID: saveGameID,
		GameStage:         stage,
		MatchdayType:      models.MatchdayLeague,
		CurrentMatchday:   matchday,
	}
	if err := e.gameStates.Create(context.Background(), nil, state); err != nil {
		t.Fatalf("create game state: %v", err)
	}
}

func (e *testEnv) createTeam(t *testing.T, saveGameID int, name string) *models.Team {
	t.Helper()
	team := &models.Team{SaveGameID: saveGameID, Name: name, PrimaryColor: "#111111", SecondaryColor: "#eeeeee"}
	if err := e.teams.Create(context.Background(), nil, team); err != nil {
		t.Fatalf("create team: %v", err)
	}
	return team
}

func (e *testEnv) createMatch(t *testing.T, matchdayID, home, away int) *models.Match {
	t.Helper()
	m := &models.Match{MatchdayID: matchdayID, HomeTeamID: home, AwayTeamID: away}
	if err := e.matches.Create(context.Background(), nil, m); err != nil {
		t.Fatalf("create match: %v", err)
	}
	return m
}

func (e *testEnv) countMatchdays(t *testing.T, saveGameID, number int) int {
	t.Helper()
	var n int
	err := e.conn.QueryRow(`SELECT COUNT(*) FROM matchdays WHERE save_game_id = ? AND number = ?`, saveGameID, number).Scan(&n)
	if err != nil {
		t.Fatalf("count matchdays: %v", err)
	}
	return n
}
