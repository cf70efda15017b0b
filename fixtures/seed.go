package fixtures

import (
	"context"
	"fmt"

	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/repositories"
	"github.com/Dosada05/matchday-engine/services"
)

// DefaultTeams is the league used when the seed command gets no team list.
var DefaultTeams = []models.Team{
	{Name: "Harbour City", PrimaryColor: "#1d3557", SecondaryColor: "#f1faee"},
	{Name: "Northgate Rovers", PrimaryColor: "#e63946", SecondaryColor: "#ffffff"},
	{Name: "Millbrook Athletic", PrimaryColor: "#2a9d8f", SecondaryColor: "#264653"},
	{Name: "Westfield United", PrimaryColor: "#f4a261", SecondaryColor: "#000000"},
	{Name: "Old Quarry", PrimaryColor: "#6d6875", SecondaryColor: "#e5989b"},
	{Name: "Riverside Town", PrimaryColor: "#023e8a", SecondaryColor: "#caf0f8"},
}

type SeedParams struct {
	SaveGameID int
	Teams      []models.Team
	Legs       int

	// Cup appends the opening round of a knockout cup after the league schedule.
	Cup bool
}

type SeedResult struct {
	GameState *models.GameState
	Teams     []*models.Team
	Matchdays []*models.Matchday
	Matches   int
	CupByes   int
}

// Seeder writes a playable save game: teams, a GameState at matchday 1 and a full league
// schedule, in one transaction.
type Seeder struct {
	tx         repositories.TxRunner
	teams      repositories.TeamRepository
	gameStates repositories.GameStateRepository
	matches    repositories.MatchRepository
	matchdays  services.MatchdayService
}

func NewSeeder(
	tx repositories.TxRunner,
	teams repositories.TeamRepository,
	gameStates repositories.GameStateRepository,
	matches repositories.MatchRepository,
	matchdays services.MatchdayService,
) *Seeder {
	return &Seeder{tx: tx, teams: teams, gameStates: gameStates, matches: matches, matchdays: matchdays}
}

func (s *Seeder) Seed(ctx context.Context, p SeedParams) (*SeedResult, error) {
	if p.SaveGameID <= 0 {
		return nil, fmt.Errorf("seed: save game id must be positive, got %d", p.SaveGameID)
	}
	if len(p.Teams) == 0 {
		p.Teams = DefaultTeams
	}
	if p.Legs == 0 {
		p.Legs = 1
	}

	result := &SeedResult{}
	err := s.tx.RunSerializable(ctx, func(exec repositories.SQLExecutor) error {
		ids := make([]int, 0, len(p.Teams))
		for _, t := range p.Teams {
			team := t
			team.SaveGameID = p.SaveGameID
			if err := s.teams.Create(ctx, exec, &team); err != nil {
				return fmt.Errorf("create team %q: %w", team.Name, err)
			}
			result.Teams = append(result.Teams, &team)
			ids = append(ids, team.ID)
		}

		schedule, err := RoundRobin(ids, p.Legs)
		if err != nil {
			return err
		}

		state := &models.GameState{
			CurrentSaveGameID: p.SaveGameID,
			CoachTeamID:       &ids[0],
			GameStage:         models.StageAction,
			MatchdayType:      models.MatchdayLeague,
			CurrentMatchday:   1,
		}
		if err := s.gameStates.Create(ctx, exec, state); err != nil {
			return fmt.Errorf("create game state: %w", err)
		}
		result.GameState = state

		byRound := make(map[int]*models.Matchday)
		for _, f := range schedule {
			md, ok := byRound[f.Round]
			if !ok {
				md, err = s.matchdays.EnsureMatchdayTx(ctx, exec, p.SaveGameID, f.Round, models.MatchdayLeague, nil)
				if err != nil {
					return fmt.Errorf("ensure matchday %d: %w", f.Round, err)
				}
				byRound[f.Round] = md
				result.Matchdays = append(result.Matchdays, md)
			}
			match := &models.Match{MatchdayID: md.ID, HomeTeamID: f.Home, AwayTeamID: f.Away}
			if err := s.matches.Create(ctx, exec, match); err != nil {
				return fmt.Errorf("create match in round %d: %w", f.Round, err)
			}
			result.Matches++
		}

		if p.Cup {
			return s.seedCup(ctx, exec, p.SaveGameID, len(byRound)+1, ids, result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Seeder) seedCup(ctx context.Context, exec repositories.SQLExecutor, saveGameID, number int, ids []int, result *SeedResult) error {
	ties, label, err := CupDraw(ids)
	if err != nil {
		return err
	}
	md, err := s.matchdays.EnsureMatchdayTx(ctx, exec, saveGameID, number, models.MatchdayCup, &label)
	if err != nil {
		return fmt.Errorf("ensure cup matchday %d: %w", number, err)
	}
	result.Matchdays = append(result.Matchdays, md)

	for _, tie := range ties {
		if tie.Bye() {
			result.CupByes++
			continue
		}
		match := &models.Match{MatchdayID: md.ID, HomeTeamID: tie.Home, AwayTeamID: *tie.Away}
		if err := s.matches.Create(ctx, exec, match); err != nil {
			return fmt.Errorf("create %s tie: %w", label, err)
		}
		result.Matches++
	}
	return nil
}
