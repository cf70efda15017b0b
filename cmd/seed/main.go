// Command seed creates a save game with a league schedule in the configured database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Dosada05/matchday-engine/config"
	"github.com/Dosada05/matchday-engine/db"
	"github.com/Dosada05/matchday-engine/fixtures"
	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/repositories"
	"github.com/Dosada05/matchday-engine/services"
)

func main() {
	var (
		saveGameID int
		legs       int
		teamNames  string
		cup        bool
	)
	flag.IntVar(&saveGameID, "save", 1, "save game id to create")
	flag.IntVar(&legs, "legs", 1, "league legs (1 or 2)")
	flag.StringVar(&teamNames, "teams", "", "comma separated team names (default: built-in league)")
	flag.BoolVar(&cup, "cup", false, "also draw the opening round of a knockout cup")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.Connect(cfg.Dialect(), cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()
	if err := db.Migrate(ctx, conn, cfg.Dialect()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var teams []models.Team
	for _, name := range strings.Split(teamNames, ",") {
		if name = strings.TrimSpace(name); name != "" {
			teams = append(teams, models.Team{Name: name})
		}
	}

	tx := repositories.NewTxRunner(conn, cfg.Dialect())
	seeder := fixtures.NewSeeder(
		tx,
		repositories.NewTeamRepository(conn, cfg.Dialect()),
		repositories.NewGameStateRepository(conn, cfg.Dialect()),
		repositories.NewMatchRepository(conn, cfg.Dialect()),
		services.NewMatchdayService(tx, repositories.NewMatchdayRepository(conn, cfg.Dialect()), cfg.EnsureMaxAttempts, logger),
	)

	result, err := seeder.Seed(ctx, fixtures.SeedParams{SaveGameID: saveGameID, Teams: teams, Legs: legs, Cup: cup})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Seeded save game %d: %d teams, %d matchdays, %d matches\n",
		saveGameID, len(result.Teams), len(result.Matchdays), result.Matches)
	if cup {
		fmt.Printf("Cup draw: %d byes\n", result.CupByes)
	}
}
