package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/matchday-engine/docs"
	"github.com/Dosada05/matchday-engine/handlers"
	"github.com/Dosada05/matchday-engine/middleware"
)

func SetupRoutes(
	router *chi.Mux,
	allowedOrigins []string,
	gameHandler *handlers.GameHandler,
	matchEventHandler *handlers.MatchEventHandler,
	webSocketHandler *handlers.WebSocketHandler,
	healthHandler *handlers.HealthHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/healthz", healthHandler.Healthz)
	router.Get("/ws", webSocketHandler.ServeWs)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/api", func(r chi.Router) {
		r.Post("/advance-stage", gameHandler.AdvanceCurrentStage)
		r.Get("/match-events/{matchdayId}", matchEventHandler.CurrentMatchdayReport)

		r.Route("/saves/{saveGameID}", func(r chi.Router) {
			r.Use(middleware.SaveGameScope)

			r.Get("/game-state", gameHandler.GetGameState)
			r.Post("/advance-stage", gameHandler.AdvanceStage)
			r.Put("/stage", gameHandler.SetStage)
			r.Post("/advance-matchday", gameHandler.AdvanceMatchday)
			r.Put("/matchdays/{number}", gameHandler.EnsureMatchday)
			r.Get("/matchdays/{number}/events", matchEventHandler.MatchdayEvents)
			r.Get("/match-events/{matchdayId}", matchEventHandler.SaveMatchdayReport)
		})

		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Get("/events", matchEventHandler.MatchEvents)
			r.Post("/events", matchEventHandler.RecordEvent)
		})
	})
}
